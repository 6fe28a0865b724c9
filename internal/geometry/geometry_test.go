package geometry_test

import (
	"testing"

	"github.com/Anthya1104/striped-blockdev/internal/geometry"
	"github.com/stretchr/testify/assert"
)

func TestNew_RejectsNonPositiveParams(t *testing.T) {
	_, err := geometry.New(0, 2)
	assert.Error(t, err)

	_, err = geometry.New(4, 0)
	assert.Error(t, err)
}

func TestLocate_BlockBoundary(t *testing.T) {
	g, err := geometry.New(4, 2)
	assert.NoError(t, err)

	loc := g.Locate(0)
	assert.Equal(t, int64(0), loc.LogicalBlock)
	assert.Equal(t, 0, loc.DeviceIndex)
	assert.Equal(t, int64(0), loc.InDeviceBlock)
	assert.Equal(t, 0, loc.OffsetInBlock)

	loc = g.Locate(4)
	assert.Equal(t, int64(1), loc.LogicalBlock)
	assert.Equal(t, 1, loc.DeviceIndex)
	assert.Equal(t, int64(0), loc.InDeviceBlock)

	loc = g.Locate(9)
	assert.Equal(t, int64(2), loc.LogicalBlock)
	assert.Equal(t, 0, loc.DeviceIndex)
	assert.Equal(t, int64(1), loc.InDeviceBlock)
	assert.Equal(t, 1, loc.OffsetInBlock)
}

func TestFragments_ZeroLength_ReturnsEmpty(t *testing.T) {
	g, err := geometry.New(4, 2)
	assert.NoError(t, err)
	frags := g.Fragments(0, 0)
	assert.NotNil(t, frags)
	assert.Empty(t, frags)
}

// block_size=4, 2 data devices, write of 8 bytes at offset 2: a head
// fragment filling out the first block, a full middle block, and a tail
// fragment starting the third block.
func TestFragments_HeadMiddleTailSplit(t *testing.T) {
	g, err := geometry.New(4, 2)
	assert.NoError(t, err)

	frags := g.Fragments(2, 8)
	assert.Len(t, frags, 3)

	// head fragment: logical block 0, bytes [2,4) -> device 0, block 0, offset 2, len 2
	assert.Equal(t, 0, frags[0].DeviceIndex)
	assert.Equal(t, int64(0), frags[0].InDeviceBlock)
	assert.Equal(t, 2, frags[0].OffsetInBlock)
	assert.Equal(t, 2, frags[0].Length)
	assert.Equal(t, int64(2), frags[0].DeviceOffset)

	// middle fragment: logical block 1, bytes [4,8) -> device 1, block 0, full block
	assert.Equal(t, 1, frags[1].DeviceIndex)
	assert.Equal(t, int64(0), frags[1].InDeviceBlock)
	assert.Equal(t, 0, frags[1].OffsetInBlock)
	assert.Equal(t, 4, frags[1].Length)

	// tail fragment: logical block 2, bytes [8,10) -> device 0, block 1, offset 0, len 2
	assert.Equal(t, 0, frags[2].DeviceIndex)
	assert.Equal(t, int64(1), frags[2].InDeviceBlock)
	assert.Equal(t, 0, frags[2].OffsetInBlock)
	assert.Equal(t, 2, frags[2].Length)

	total := 0
	for _, f := range frags {
		total += f.Length
	}
	assert.Equal(t, 8, total)
}

func TestFragments_OffsetAtBlockBoundary_HeadIsMinLengthBlockSize(t *testing.T) {
	g, err := geometry.New(4, 3)
	assert.NoError(t, err)

	frags := g.Fragments(8, 2)
	assert.Len(t, frags, 1)
	assert.Equal(t, 2, frags[0].Length)
	assert.Equal(t, 0, frags[0].OffsetInBlock)
}

func TestFragments_NoOverlapOrGap(t *testing.T) {
	g, err := geometry.New(7, 5)
	assert.NoError(t, err)

	for _, tc := range []struct{ offset, length int64 }{
		{0, 1}, {3, 29}, {70, 1}, {13, 100}, {0, 700},
	} {
		frags := g.Fragments(tc.offset, tc.length)
		covered := int64(0)
		for _, f := range frags {
			assert.Greater(t, f.Length, 0)
			assert.LessOrEqual(t, f.Length, g.BlockSize)
			covered += int64(f.Length)
		}
		assert.Equal(t, tc.length, covered)
	}
}
