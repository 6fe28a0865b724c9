// Package blockio provides positional read/write/flush against a single
// backing device handle. It is the lowest layer of the core: everything
// above it (geometry, parity, the RAID engines) talks to a Device, never to
// an *os.File directly.
package blockio

import (
	"errors"
	"fmt"
)

// ErrAbsentDevice is returned by every operation on a slot whose handle is
// absent. Callers in the RAID-4 engine convert it into a reconstruction
// (reads) or one of the degraded write paths; it must never reach the
// transport directly.
var ErrAbsentDevice = errors.New("blockio: device absent")

// ErrIO wraps a positional read/write/flush failure reported by the
// underlying transport. Use errors.Is(err, ErrIO) to test for it.
var ErrIO = errors.New("blockio: i/o error")

// Device is the capability set a backing store must offer: positional,
// cursor-free read and write, plus a durability barrier. The core never
// assumes two Device calls running concurrently against the same slot; see
// the single-threaded cooperative model in the design notes.
type Device interface {
	// ReadAt fills buf (exactly len(buf) bytes) starting at offset. It must
	// not move any per-handle cursor.
	ReadAt(offset int64, buf []byte) error
	// WriteAt writes all of buf starting at offset. It must not move any
	// per-handle cursor.
	WriteAt(offset int64, buf []byte) error
	// Flush durably commits all writes issued so far against this device.
	Flush() error
}

// absentDevice is the sentinel Device for a slot with no backing handle. Its
// zero value is the only value ever needed: absentDevice{}.
type absentDevice struct{}

// Absent is the sentinel Device value for a configured-but-missing slot.
var Absent Device = absentDevice{}

func (absentDevice) ReadAt(int64, []byte) error  { return ErrAbsentDevice }
func (absentDevice) WriteAt(int64, []byte) error { return ErrAbsentDevice }
func (absentDevice) Flush() error                { return ErrAbsentDevice }

// IsAbsent reports whether d is the Absent sentinel.
func IsAbsent(d Device) bool {
	_, ok := d.(absentDevice)
	return ok
}

// ioError wraps err as ErrIO, preserving both for errors.Is/errors.Unwrap.
func ioError(op string, err error) error {
	return errors.Join(ErrIO, fmt.Errorf("%s: %w", op, err))
}
