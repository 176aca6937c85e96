package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPixelBoundsArea(t *testing.T) {
	require.Equal(t, 48, PixelBounds{Left: 10, Top: 20, Width: 8, Height: 6}.Area())
	require.Equal(t, 0, PixelBounds{Width: 8}.Area())
}

func TestZoneResultOrigin(t *testing.T) {
	z := &ZoneDescriptor{Row: 1, Col: 2}
	require.Equal(t, "r1c2", ZoneResult{Zone: z}.Origin())
	require.Equal(t, OriginWholeImage, ZoneResult{}.Origin())
}

func TestSizeErrorIs(t *testing.T) {
	var err error = &SizeError{Width: 140, Height: 140, CellWidth: 46, CellHeight: 46}
	require.ErrorIs(t, err, ErrImageTooSmall)
	require.Contains(t, err.Error(), "140x140")
}
