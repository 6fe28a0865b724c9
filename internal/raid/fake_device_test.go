package raid_test

import "github.com/Anthya1104/striped-blockdev/internal/blockio"

// memDevice is an in-memory blockio.Device fake for exercising the engines
// without opening real files, the same substitution the design notes call
// for ("polymorphism over backing store... tests can substitute in-memory
// fakes").
type memDevice struct {
	data []byte
}

func newMemDevice(size int64) *memDevice {
	return &memDevice{data: make([]byte, size)}
}

func (d *memDevice) ReadAt(offset int64, buf []byte) error {
	copy(buf, d.data[offset:offset+int64(len(buf))])
	return nil
}

func (d *memDevice) WriteAt(offset int64, buf []byte) error {
	copy(d.data[offset:offset+int64(len(buf))], buf)
	return nil
}

func (d *memDevice) Flush() error { return nil }

var _ blockio.Device = (*memDevice)(nil)
