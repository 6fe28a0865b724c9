package cli

import (
	"path/filepath"
	"testing"

	"github.com/Anthya1104/striped-blockdev/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestBuildArray_TwoDevicesSelectsRAID0(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.img", 64)
	b := writeTempFile(t, dir, "b.img", 64)

	cfg, raidDevice, handles, err := buildArray([]string{"4", "/dev/raid0", a, b})
	assert.NoError(t, err)
	defer closeAll(handles)

	assert.Equal(t, config.RAID0, cfg.Mode)
	assert.Equal(t, "/dev/raid0", raidDevice)
	assert.Equal(t, int64(128), cfg.VirtualSize)
}

func TestBuildArray_ThreeDevicesSelectsRAID4(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.img", 64)
	b := writeTempFile(t, dir, "b.img", 64)
	c := writeTempFile(t, dir, "c.img", 64)

	cfg, _, handles, err := buildArray([]string{"4", "/dev/raid4", a, b, c})
	assert.NoError(t, err)
	defer closeAll(handles)

	assert.Equal(t, config.RAID4, cfg.Mode)
	assert.Equal(t, 2, cfg.DataDeviceCount)
}

func TestBuildArray_RejectsMissingOnRAID0(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.img", 64)

	_, _, _, err := buildArray([]string{"4", "/dev/raid0", a, "MISSING"})
	assert.Error(t, err)
}

func TestBuildArray_RejectsBadBlockSize(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.img", 64)
	b := writeTempFile(t, dir, "b.img", 64)

	_, _, _, err := buildArray([]string{"not-a-number", "/dev/raid0", a, b})
	assert.Error(t, err)
}

func TestBuildArray_RejectsWrongDeviceCount(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.img", 64)

	_, _, _, err := buildArray([]string{"4", "/dev/raidX", a})
	assert.Error(t, err)
}

func TestBuildArray_DegradedRAID4(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.img", 64)
	b := writeTempFile(t, dir, "b.img", 64)

	cfg, _, handles, err := buildArray([]string{"4", "/dev/raid4", a, "MISSING", b})
	assert.NoError(t, err)
	defer closeAll(handles)

	assert.True(t, cfg.Degraded)
}

func TestNewRootCommand_HasServeAndStatus(t *testing.T) {
	root := NewRootCommand()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["status"])
}

func TestStatusCommand_PrintsTable(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.img", 64)
	b := writeTempFile(t, dir, "b.img", 64)

	root := NewRootCommand()
	root.SetArgs([]string{"status", "4", filepath.Join(dir, "raid0"), a, b})
	assert.NoError(t, root.Execute())
}
