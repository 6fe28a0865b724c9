package blockio

import "fmt"

// errShortTransfer reports a positional read/write that moved fewer bytes
// than requested without returning an OS-level error, so a truncated
// transfer can never look like success.
func errShortTransfer(got, want int) error {
	return fmt.Errorf("short transfer: got %d of %d bytes", got, want)
}
