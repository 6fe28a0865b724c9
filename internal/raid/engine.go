// Package raid holds the two request engines the transport binding
// dispatches to: RAID-0 (plain striping) and RAID-4 (striping with a
// dedicated XOR parity device). Both consume geometry fragments and a
// blockio.Device per slot; neither does any I/O scheduling or buffering of
// its own.
package raid

import (
	"errors"
	"fmt"

	"github.com/Anthya1104/striped-blockdev/internal/config"
)

// ErrInsufficientRedundancy is fatal at startup (more than one absent slot
// for RAID-4, or any absent slot for RAID-0) and is never raised during
// request processing — config.New already rejects those configurations, so
// reaching this sentinel inside an engine indicates a configuration that
// slipped past validation.
var ErrInsufficientRedundancy = errors.New("raid: insufficient redundancy")

// Engine is the request surface the transport binding drives: exactly one
// of {Read, Write, Flush, Disconnect} runs at a time, to completion, before
// the next is invoked.
type Engine interface {
	Read(offset int64, buf []byte) error
	Write(offset int64, buf []byte) error
	Flush() error
	Disconnect()
	Size() int64
}

// New picks the engine for cfg.Mode. This is the one dispatch point in the
// core; nothing downstream branches on mode again.
func New(cfg *config.Config) (Engine, error) {
	switch cfg.Mode {
	case config.RAID0:
		return NewRAID0(cfg)
	case config.RAID4:
		return NewRAID4(cfg)
	default:
		return nil, fmt.Errorf("raid: unknown mode %v", cfg.Mode)
	}
}
