package raid

import (
	"github.com/Anthya1104/striped-blockdev/internal/config"
	"github.com/Anthya1104/striped-blockdev/internal/geometry"
	"github.com/sirupsen/logrus"
)

// RAID0Engine dispatches each fragment straight to its device, with no
// parity and no reconstruction. Every backing device must be present;
// config.New already enforces this, but NewRAID0 checks it again so the
// engine never silently trusts a Config built outside that path.
type RAID0Engine struct {
	cfg *config.Config
	geo geometry.Geometry
}

// NewRAID0 builds the RAID-0 engine. It fails fast if any slot is absent —
// RAID-0 has no redundancy to fall back on.
func NewRAID0(cfg *config.Config) (*RAID0Engine, error) {
	if cfg.Mode != config.RAID0 {
		return nil, ErrInsufficientRedundancy
	}
	for _, s := range cfg.Slots {
		if s.Absent {
			return nil, ErrInsufficientRedundancy
		}
	}
	geo, err := geometry.New(cfg.BlockSize, cfg.DataDeviceCount)
	if err != nil {
		return nil, err
	}
	return &RAID0Engine{cfg: cfg, geo: geo}, nil
}

func (r *RAID0Engine) Size() int64 { return r.cfg.VirtualSize }

func (r *RAID0Engine) Read(offset int64, buf []byte) error {
	for _, f := range r.geo.Fragments(offset, int64(len(buf))) {
		if err := r.cfg.Slots[f.DeviceIndex].Device.ReadAt(f.DeviceOffset, f.Buffer(buf)); err != nil {
			return err
		}
	}
	return nil
}

func (r *RAID0Engine) Write(offset int64, buf []byte) error {
	for _, f := range r.geo.Fragments(offset, int64(len(buf))) {
		if err := r.cfg.Slots[f.DeviceIndex].Device.WriteAt(f.DeviceOffset, f.Buffer(buf)); err != nil {
			return err
		}
	}
	return nil
}

// Flush commits every slot. A per-device failure is logged, not surfaced:
// the caller gets a success once every slot has been asked to flush.
func (r *RAID0Engine) Flush() error {
	for i, s := range r.cfg.Slots {
		if err := s.Device.Flush(); err != nil {
			logrus.Warnf("raid0: flush failed on device %d: %v", i, err)
		}
	}
	return nil
}

func (r *RAID0Engine) Disconnect() {}
