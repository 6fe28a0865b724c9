// Package config builds and validates the immutable array configuration.
// It is the single struct threaded through every call in the core; nothing
// here is ever mutated after New returns.
package config

import (
	"errors"
	"fmt"

	"github.com/Anthya1104/striped-blockdev/internal/blockio"
)

// Mode selects the striping strategy. The engine is picked once at startup
// from Mode and never switched.
type Mode int

const (
	RAID0 Mode = iota
	RAID4
)

func (m Mode) String() string {
	switch m {
	case RAID0:
		return "raid0"
	case RAID4:
		return "raid4"
	default:
		return "unknown"
	}
}

// ErrConfig is the sentinel for every startup validation failure: fatal,
// the process exits non-zero with the wrapped diagnostic.
var ErrConfig = errors.New("config: invalid array configuration")

// Slot is one backing slot as supplied by the caller that opened (or chose
// not to open) the corresponding device. Opening and sizing backing files
// is the caller's job; the core only ever sees the result.
type Slot struct {
	Device  blockio.Device // blockio.Absent if this slot has no backing handle
	Size    int64          // nominal capacity in bytes, known even for an absent slot
	Absent  bool
	Rebuild bool // true iff this slot is to be reconstructed at startup
}

// Config is the immutable array configuration, built once at startup.
type Config struct {
	BlockSize       int
	Mode            Mode
	Slots           []Slot
	DataDeviceCount int
	VirtualSize     int64
	Degraded        bool
	AbsentSlot      int // -1 if none
	RebuildSlot     int // -1 if none
}

// ParitySlot returns the parity slot index for RAID4, or -1 for RAID0.
func (c *Config) ParitySlot() int {
	if c.Mode != RAID4 {
		return -1
	}
	return len(c.Slots) - 1
}

// New validates slots against mode and builds the Config. Every failure
// here is fatal at startup; New is never called again once it succeeds.
func New(blockSize int, mode Mode, slots []Slot) (*Config, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: block size must be positive, got %d", ErrConfig, blockSize)
	}

	n := len(slots)
	absentCount, rebuildCount := 0, 0
	absentSlot, rebuildSlot := -1, -1
	for i, s := range slots {
		if s.Absent {
			absentCount++
			absentSlot = i
		}
		if s.Rebuild {
			rebuildCount++
			rebuildSlot = i
		}
		if s.Size <= 0 {
			return nil, fmt.Errorf("%w: slot %d has non-positive size %d", ErrConfig, i, s.Size)
		}
	}
	if absentCount > 0 && rebuildCount > 0 {
		return nil, fmt.Errorf("%w: rebuild and degraded operation are mutually exclusive", ErrConfig)
	}

	var dataDeviceCount int
	switch mode {
	case RAID0:
		if n < 2 {
			return nil, fmt.Errorf("%w: raid0 requires at least 2 devices, got %d", ErrConfig, n)
		}
		if absentCount > 0 {
			return nil, fmt.Errorf("%w: raid0 cannot operate with an absent device", ErrConfig)
		}
		if rebuildCount > 0 {
			return nil, fmt.Errorf("%w: raid0 has no parity device to rebuild from", ErrConfig)
		}
		dataDeviceCount = n
	case RAID4:
		if n < 3 || n > 16 {
			return nil, fmt.Errorf("%w: raid4 requires between 3 and 16 devices, got %d", ErrConfig, n)
		}
		if absentCount > 1 {
			return nil, fmt.Errorf("%w: raid4 tolerates at most one absent device, got %d", ErrConfig, absentCount)
		}
		if rebuildCount > 1 {
			return nil, fmt.Errorf("%w: raid4 supports rebuilding at most one slot at a time, got %d", ErrConfig, rebuildCount)
		}
		dataDeviceCount = n - 1
	default:
		return nil, fmt.Errorf("%w: unknown mode %v", ErrConfig, mode)
	}

	minSize := slots[0].Size
	for _, s := range slots[1:] {
		if s.Size < minSize {
			minSize = s.Size
		}
	}
	virtualSize := (minSize / int64(blockSize)) * int64(blockSize) * int64(dataDeviceCount)
	if virtualSize <= 0 {
		return nil, fmt.Errorf("%w: computed virtual size is non-positive (%d)", ErrConfig, virtualSize)
	}

	return &Config{
		BlockSize:       blockSize,
		Mode:            mode,
		Slots:           slots,
		DataDeviceCount: dataDeviceCount,
		VirtualSize:     virtualSize,
		Degraded:        absentCount > 0,
		AbsentSlot:      absentSlot,
		RebuildSlot:     rebuildSlot,
	}, nil
}
