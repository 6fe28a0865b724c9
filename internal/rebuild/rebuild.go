// Package rebuild implements synchronous full-device reconstruction: run
// once at startup, before the transport is started, when exactly one slot
// is marked for rebuild and no slot is absent.
package rebuild

import (
	"errors"
	"fmt"

	"github.com/Anthya1104/striped-blockdev/internal/config"
	"github.com/Anthya1104/striped-blockdev/internal/geometry"
	"github.com/Anthya1104/striped-blockdev/internal/parity"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrRebuild is the sentinel for a failed rebuild: fatal, the process exits
// before the transport is started. Partial state left on the rebuild slot
// is not reused by a later run.
var ErrRebuild = errors.New("rebuild: reconstruction failed")

// progressEvery controls how often Run logs a progress line so a rebuild
// against a large device isn't silent for minutes at a time.
const progressEvery = 100

// Driver reconstructs cfg.RebuildSlot's full contents from the XOR of every
// other slot.
type Driver struct {
	cfg *config.Config
	geo geometry.Geometry
}

// New builds a rebuild Driver. It requires a rebuild slot to be set and no
// slot to be marked absent — rebuild and degraded operation are mutually
// exclusive (config.New already enforces this).
func New(cfg *config.Config) (*Driver, error) {
	if cfg.RebuildSlot < 0 {
		return nil, fmt.Errorf("rebuild: no slot marked for rebuild")
	}
	if cfg.Degraded {
		return nil, fmt.Errorf("rebuild: cannot run while the array is degraded")
	}
	geo, err := geometry.New(cfg.BlockSize, cfg.DataDeviceCount)
	if err != nil {
		return nil, err
	}
	return &Driver{cfg: cfg, geo: geo}, nil
}

// Run reconstructs the rebuild slot block by block, treating it as absent
// for the purposes of the XOR. It fails fast on the first I/O error,
// leaving whatever was already written on the rebuild slot in place.
func (d *Driver) Run() error {
	runID := uuid.NewString()
	blockSize := int64(d.cfg.BlockSize)
	numBlocks := d.cfg.VirtualSize / blockSize / int64(d.cfg.DataDeviceCount)

	logrus.Infof("rebuild[%s]: starting rebuild of slot %d (%d blocks)", runID, d.cfg.RebuildSlot, numBlocks)

	for k := int64(0); k < numBlocks; k++ {
		block, err := d.reconstructExcluding(d.cfg.RebuildSlot, k)
		if err != nil {
			return errors.Join(ErrRebuild, fmt.Errorf("slot %d block %d: %w", d.cfg.RebuildSlot, k, err))
		}
		if err := d.cfg.Slots[d.cfg.RebuildSlot].Device.WriteAt(k*blockSize, block); err != nil {
			return errors.Join(ErrRebuild, fmt.Errorf("slot %d block %d: write failed: %w", d.cfg.RebuildSlot, k, err))
		}
		if k > 0 && k%progressEvery == 0 {
			logrus.Infof("rebuild[%s]: progress %d/%d blocks", runID, k, numBlocks)
		}
	}

	logrus.Infof("rebuild[%s]: slot %d rebuilt (%d blocks)", runID, d.cfg.RebuildSlot, numBlocks)
	return nil
}

// reconstructExcluding XORs every slot's block k together except exclude,
// which is treated as absent regardless of its actual Absent flag.
func (d *Driver) reconstructExcluding(exclude int, k int64) ([]byte, error) {
	present := make([][]byte, 0, len(d.cfg.Slots)-1)
	for i, s := range d.cfg.Slots {
		if i == exclude {
			continue
		}
		buf := make([]byte, d.cfg.BlockSize)
		if err := s.Device.ReadAt(k*int64(d.cfg.BlockSize), buf); err != nil {
			return nil, err
		}
		present = append(present, buf)
	}
	return parity.Reconstruct(d.cfg.BlockSize, present)
}
