package cli

import (
	"fmt"
	"strings"
)

// deviceToken is one parsed DEVICEn command-line argument: a plain path,
// the MISSING sentinel, or a +-prefixed path marking the slot for rebuild.
type deviceToken struct {
	Path    string
	Missing bool
	Rebuild bool
}

const missingToken = "MISSING"

// parseDeviceTokens parses the DEVICE1..DEVICEN arguments, enforcing that
// at most one rebuild (+) token is present and that MISSING and + never
// appear together.
func parseDeviceTokens(args []string) ([]deviceToken, error) {
	tokens := make([]deviceToken, len(args))
	missingCount, rebuildCount := 0, 0
	for i, a := range args {
		switch {
		case a == missingToken:
			tokens[i] = deviceToken{Missing: true}
			missingCount++
		case strings.HasPrefix(a, "+"):
			path := strings.TrimPrefix(a, "+")
			if path == "" {
				return nil, fmt.Errorf("cli: rebuild token %q is missing a path", a)
			}
			tokens[i] = deviceToken{Path: path, Rebuild: true}
			rebuildCount++
		default:
			tokens[i] = deviceToken{Path: a}
		}
	}
	if rebuildCount > 1 {
		return nil, fmt.Errorf("cli: only one device may be marked for rebuild, got %d", rebuildCount)
	}
	if missingCount > 0 && rebuildCount > 0 {
		return nil, fmt.Errorf("cli: a rebuild device is incompatible with a MISSING device")
	}
	return tokens, nil
}
