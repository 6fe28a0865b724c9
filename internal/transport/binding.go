// Package transport wires the four request callbacks an external network
// block device layer invokes — read, write, flush, disconnect — to the
// engine selected at startup. Accepting the kernel's requests and actually
// invoking these callbacks over a socket is out of scope here: Binding only
// exposes the surface a real transport would call into.
package transport

import (
	"fmt"

	"github.com/Anthya1104/striped-blockdev/internal/blockio"
	"github.com/Anthya1104/striped-blockdev/internal/config"
	"github.com/Anthya1104/striped-blockdev/internal/raid"
	"github.com/sirupsen/logrus"
)

// Binding holds the configuration and engine for the lifetime of the
// process: the configuration is owned here and shared read-only with every
// request handler underneath it.
type Binding struct {
	cfg    *config.Config
	engine raid.Engine
}

// New wires engine to cfg. Both must already be fully built and validated;
// New performs no further checks of its own.
func New(cfg *config.Config, engine raid.Engine) *Binding {
	return &Binding{cfg: cfg, engine: engine}
}

// Size is the advertised virtual device size.
func (b *Binding) Size() int64 { return b.cfg.VirtualSize }

// Read implements the read(buffer, length, offset) callback.
func (b *Binding) Read(offset int64, buf []byte) error {
	if err := b.checkBounds(offset, int64(len(buf))); err != nil {
		return err
	}
	logrus.Debugf("transport: read offset=%d length=%d", offset, len(buf))
	if err := b.engine.Read(offset, buf); err != nil {
		logrus.Errorf("transport: read failed offset=%d length=%d: %v", offset, len(buf), err)
		return err
	}
	return nil
}

// Write implements the write(buffer, length, offset) callback.
func (b *Binding) Write(offset int64, buf []byte) error {
	if err := b.checkBounds(offset, int64(len(buf))); err != nil {
		return err
	}
	logrus.Debugf("transport: write offset=%d length=%d", offset, len(buf))
	if err := b.engine.Write(offset, buf); err != nil {
		logrus.Errorf("transport: write failed offset=%d length=%d: %v", offset, len(buf), err)
		return err
	}
	return nil
}

// Flush implements the flush() callback. Per-device flush failures are
// logged by the engine and never turn into a failed status here.
func (b *Binding) Flush() error {
	return b.engine.Flush()
}

// Disconnect implements the disconnect() callback. It is a no-op: backing
// handles remain open until process exit.
func (b *Binding) Disconnect() {
	b.engine.Disconnect()
}

func (b *Binding) checkBounds(offset, length int64) error {
	if offset < 0 || length < 0 || offset+length > b.cfg.VirtualSize {
		return fmt.Errorf("%w: request [%d, %d) outside virtual device of size %d", blockio.ErrIO, offset, offset+length, b.cfg.VirtualSize)
	}
	return nil
}
