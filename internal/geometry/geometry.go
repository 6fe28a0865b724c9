// Package geometry implements the pure block-address arithmetic of the
// core: mapping a byte offset on the virtual device to a (stripe, device,
// in-device-offset) triple, and splitting an arbitrary (offset, length)
// request into the ordered stripe fragments that cover it. Nothing here
// touches a backing device; it is pure arithmetic, independent of RAID mode.
package geometry

import "fmt"

// Location is the result of locating a single byte offset on the virtual
// device.
type Location struct {
	LogicalBlock   int64 // B = offset / BlockSize
	DeviceIndex    int   // B mod DataDeviceCount
	InDeviceBlock  int64 // B / DataDeviceCount
	OffsetInBlock  int   // offset mod BlockSize
}

// Fragment is one (device, device-offset, length) operation covering part
// of a request, plus the sub-range of the caller's buffer it transfers.
// Fragments from a single Fragments call are produced in strictly ascending
// logical-block order and, concatenated, cover the request exactly once.
type Fragment struct {
	DeviceIndex   int
	DeviceOffset  int64 // byte offset within the backing device
	InDeviceBlock int64 // in-device block index this fragment belongs to
	OffsetInBlock int   // offset within that block where this fragment starts
	Length        int
	BufferOffset  int // offset into the request's buffer
}

// Buffer returns the sub-slice of buf this fragment transfers.
func (f Fragment) Buffer(buf []byte) []byte {
	return buf[f.BufferOffset : f.BufferOffset+f.Length]
}

// Geometry is the immutable striping shape shared by every request: the
// stripe unit size and the number of data devices data blocks rotate
// across. It never includes the parity device — parity placement is the
// RAID-4 engine's concern, not geometry's.
type Geometry struct {
	BlockSize       int
	DataDeviceCount int
}

// New builds a Geometry, rejecting non-positive parameters that would make
// every computation below divide by zero or loop forever.
func New(blockSize, dataDeviceCount int) (Geometry, error) {
	if blockSize <= 0 {
		return Geometry{}, fmt.Errorf("geometry: block size must be positive, got %d", blockSize)
	}
	if dataDeviceCount <= 0 {
		return Geometry{}, fmt.Errorf("geometry: data device count must be positive, got %d", dataDeviceCount)
	}
	return Geometry{BlockSize: blockSize, DataDeviceCount: dataDeviceCount}, nil
}

// Locate maps a virtual byte offset to its logical block, data device slot,
// in-device block index, and offset within that block.
func (g Geometry) Locate(offset int64) Location {
	block := offset / int64(g.BlockSize)
	return Location{
		LogicalBlock:  block,
		DeviceIndex:   int(block % int64(g.DataDeviceCount)),
		InDeviceBlock: block / int64(g.DataDeviceCount),
		OffsetInBlock: int(offset % int64(g.BlockSize)),
	}
}

// Fragments enumerates the stripe fragments covering [offset, offset+length).
// A zero-length request yields an empty, non-nil sequence. Every fragment
// satisfies 0 < Length <= BlockSize, and fragments concatenate to cover the
// request exactly once with no overlap or gap.
func (g Geometry) Fragments(offset, length int64) []Fragment {
	frags := make([]Fragment, 0, length/int64(g.BlockSize)+2)
	if length <= 0 {
		return frags
	}

	remaining := length
	cur := offset
	bufOff := 0
	for remaining > 0 {
		loc := g.Locate(cur)
		spaceInBlock := int64(g.BlockSize) - int64(loc.OffsetInBlock)
		n := spaceInBlock
		if n > remaining {
			n = remaining
		}

		frags = append(frags, Fragment{
			DeviceIndex:   loc.DeviceIndex,
			DeviceOffset:  loc.InDeviceBlock*int64(g.BlockSize) + int64(loc.OffsetInBlock),
			InDeviceBlock: loc.InDeviceBlock,
			OffsetInBlock: loc.OffsetInBlock,
			Length:        int(n),
			BufferOffset:  bufOff,
		})

		cur += n
		remaining -= n
		bufOff += int(n)
	}
	return frags
}
