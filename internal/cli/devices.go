package cli

import (
	"fmt"
	"os"

	"github.com/Anthya1104/striped-blockdev/internal/blockio"
	"github.com/Anthya1104/striped-blockdev/internal/config"
	"github.com/sirupsen/logrus"
)

// openResult bundles the slots built from the command line with the file
// handles that must be closed when the process exits.
type openResult struct {
	Slots   []config.Slot
	Handles []*os.File
}

// openSlots opens every non-MISSING device token and sizes the array from
// them: opening and sizing backing files is this package's job, not the
// core's. A rebuild token's file is opened read-write and extended to
// match the other devices if it is smaller, since it is the freshly
// re-added device the rebuild driver will reconstruct into.
func openSlots(tokens []deviceToken) (*openResult, error) {
	type opened struct {
		idx  int
		file *os.File
		size int64
	}

	var present []opened
	for i, tok := range tokens {
		if tok.Missing {
			continue
		}
		flags := os.O_RDWR
		if tok.Rebuild {
			// The replacement device for a rebuild may not exist yet;
			// every other device is expected to be a real, already-present
			// backing file, matching open(dev_path, O_RDWR) in the
			// original, so a typo'd path fails with a clear open error
			// instead of silently conjuring an empty file.
			flags |= os.O_CREATE
		}
		f, err := os.OpenFile(tok.Path, flags, 0o600)
		if err != nil {
			return nil, fmt.Errorf("cli: opening %q: %w", tok.Path, err)
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("cli: stat %q: %w", tok.Path, err)
		}
		present = append(present, opened{idx: i, file: f, size: info.Size()})
	}
	if len(present) == 0 {
		return nil, fmt.Errorf("cli: no backing devices could be opened")
	}

	// The rebuild target does not take part in sizing; it is extended to
	// minSize below.
	var minSize int64
	sized := false
	for _, p := range present {
		if tokens[p.idx].Rebuild {
			continue
		}
		if !sized || p.size < minSize {
			minSize, sized = p.size, true
		}
	}

	slots := make([]config.Slot, len(tokens))
	handles := make([]*os.File, 0, len(present))
	presentByIdx := make(map[int]opened, len(present))
	for _, p := range present {
		presentByIdx[p.idx] = p
	}

	for i, tok := range tokens {
		if tok.Missing {
			slots[i] = config.Slot{Device: blockio.Absent, Size: minSize, Absent: true}
			continue
		}
		p := presentByIdx[i]
		if tok.Rebuild && p.size < minSize {
			if err := p.file.Truncate(minSize); err != nil {
				p.file.Close()
				return nil, fmt.Errorf("cli: sizing rebuild device %q to %d bytes: %w", tok.Path, minSize, err)
			}
			logrus.Infof("cli: extended rebuild device %q from %d to %d bytes", tok.Path, p.size, minSize)
		}
		slots[i] = config.Slot{Device: blockio.NewFileDevice(p.file), Size: minSize, Rebuild: tok.Rebuild}
		handles = append(handles, p.file)
	}

	return &openResult{Slots: slots, Handles: handles}, nil
}

func closeAll(handles []*os.File) {
	for _, f := range handles {
		if err := f.Close(); err != nil {
			logrus.Warnf("cli: closing %q: %v", f.Name(), err)
		}
	}
}
