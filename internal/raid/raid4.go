package raid

import (
	"github.com/Anthya1104/striped-blockdev/internal/config"
	"github.com/Anthya1104/striped-blockdev/internal/geometry"
	"github.com/Anthya1104/striped-blockdev/internal/parity"
	"github.com/sirupsen/logrus"
)

// RAID4Engine stripes data across cfg.DataDeviceCount devices and maintains
// a dedicated XOR parity device at the last slot. It tolerates at most one
// absent slot at a time (enforced by config.New, checked again here).
type RAID4Engine struct {
	cfg       *config.Config
	geo       geometry.Geometry
	paritySlt int
}

// NewRAID4 builds the RAID-4 engine.
func NewRAID4(cfg *config.Config) (*RAID4Engine, error) {
	if cfg.Mode != config.RAID4 {
		return nil, ErrInsufficientRedundancy
	}
	absent := 0
	for _, s := range cfg.Slots {
		if s.Absent {
			absent++
		}
	}
	if absent > 1 {
		return nil, ErrInsufficientRedundancy
	}
	geo, err := geometry.New(cfg.BlockSize, cfg.DataDeviceCount)
	if err != nil {
		return nil, err
	}
	return &RAID4Engine{cfg: cfg, geo: geo, paritySlt: cfg.ParitySlot()}, nil
}

func (r *RAID4Engine) Size() int64 { return r.cfg.VirtualSize }

func (r *RAID4Engine) readBlock(slot int, inDeviceBlock int64) ([]byte, error) {
	buf := make([]byte, r.cfg.BlockSize)
	if err := r.cfg.Slots[slot].Device.ReadAt(inDeviceBlock*int64(r.cfg.BlockSize), buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (r *RAID4Engine) writeBlock(slot int, inDeviceBlock int64, data []byte) error {
	return r.cfg.Slots[slot].Device.WriteAt(inDeviceBlock*int64(r.cfg.BlockSize), data)
}

// reconstruct rebuilds the stripe column at inDeviceBlock from the XOR of
// every present slot (data and parity alike). When exactly one slot in the
// stripe is absent, the result equals that slot's missing block.
func (r *RAID4Engine) reconstruct(inDeviceBlock int64) ([]byte, error) {
	present := make([][]byte, 0, len(r.cfg.Slots))
	for i, s := range r.cfg.Slots {
		if s.Absent {
			continue
		}
		b, err := r.readBlock(i, inDeviceBlock)
		if err != nil {
			return nil, err
		}
		present = append(present, b)
	}
	return parity.Reconstruct(r.cfg.BlockSize, present)
}

// Read serves each fragment directly when its slot is present, and falls
// back to parity reconstruction otherwise. If the parity device itself is
// absent, every fragment is necessarily served directly, since a
// data-slot absence together with an absent parity device would exceed the
// one-device tolerance config.New already rejects.
func (r *RAID4Engine) Read(offset int64, buf []byte) error {
	for _, f := range r.geo.Fragments(offset, int64(len(buf))) {
		if !r.cfg.Slots[f.DeviceIndex].Absent {
			if err := r.cfg.Slots[f.DeviceIndex].Device.ReadAt(f.DeviceOffset, f.Buffer(buf)); err != nil {
				return err
			}
			continue
		}
		block, err := r.reconstruct(f.InDeviceBlock)
		if err != nil {
			return err
		}
		copy(f.Buffer(buf), block[f.OffsetInBlock:f.OffsetInBlock+f.Length])
	}
	return nil
}

// Write dispatches each fragment to one of three paths depending on which
// slots are absent, processing one fragment to completion before starting
// the next: no cross-fragment batching of parity updates.
func (r *RAID4Engine) Write(offset int64, buf []byte) error {
	for _, f := range r.geo.Fragments(offset, int64(len(buf))) {
		targetAbsent := r.cfg.Slots[f.DeviceIndex].Absent
		parityAbsent := r.cfg.Slots[r.paritySlt].Absent

		var err error
		switch {
		case targetAbsent:
			err = r.writeTargetAbsent(f, buf)
		case parityAbsent:
			err = r.cfg.Slots[f.DeviceIndex].Device.WriteAt(f.DeviceOffset, f.Buffer(buf))
		default:
			// Covers both the fully healthy array and the case where some
			// *other* data slot is absent: the target and parity slots are
			// both present either way, so the same read-modify-write applies.
			err = r.readModifyWrite(f, buf)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// readModifyWrite is the non-degraded write path: read the old data and old
// parity blocks, write the new payload, re-read the data block, then
// recompute and write parity. This is not crash-atomic; a crash between the
// data write and the parity write leaves parity inconsistent.
func (r *RAID4Engine) readModifyWrite(f geometry.Fragment, buf []byte) error {
	oldData, err := r.readBlock(f.DeviceIndex, f.InDeviceBlock)
	if err != nil {
		return err
	}
	oldParity, err := r.readBlock(r.paritySlt, f.InDeviceBlock)
	if err != nil {
		return err
	}
	if err := r.cfg.Slots[f.DeviceIndex].Device.WriteAt(f.DeviceOffset, f.Buffer(buf)); err != nil {
		return err
	}
	newData, err := r.readBlock(f.DeviceIndex, f.InDeviceBlock)
	if err != nil {
		return err
	}
	newParity, err := parity.NewParity(oldData, newData, oldParity)
	if err != nil {
		return err
	}
	return r.writeBlock(r.paritySlt, f.InDeviceBlock, newParity)
}

func (r *RAID4Engine) writeTargetAbsent(f geometry.Fragment, buf []byte) error {
	oldLogical, err := r.reconstruct(f.InDeviceBlock)
	if err != nil {
		return err
	}
	newLogical := append([]byte(nil), oldLogical...)
	copy(newLogical[f.OffsetInBlock:f.OffsetInBlock+f.Length], f.Buffer(buf))

	oldParity, err := r.readBlock(r.paritySlt, f.InDeviceBlock)
	if err != nil {
		return err
	}
	newParity, err := parity.NewParity(oldLogical, newLogical, oldParity)
	if err != nil {
		return err
	}
	return r.writeBlock(r.paritySlt, f.InDeviceBlock, newParity)
}

// Flush commits every present slot. Per-device errors are logged and
// swallowed rather than surfaced: a transport that asked for a flush gets
// a success once every present device has been asked to flush.
func (r *RAID4Engine) Flush() error {
	for i, s := range r.cfg.Slots {
		if s.Absent {
			continue
		}
		if err := s.Device.Flush(); err != nil {
			logrus.Warnf("raid4: flush failed on slot %d: %v", i, err)
		}
	}
	return nil
}

func (r *RAID4Engine) Disconnect() {}
