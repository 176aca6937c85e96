package vision

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"recognition-bot/internal/domain/entity"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x ^ y), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFileImageStore_PutCropDelete(t *testing.T) {
	store, err := NewFileImageStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	src, err := store.Put(ctx, pngBytes(t, 300, 200))
	require.NoError(t, err)
	require.Equal(t, 1, store.Live())

	w, h, err := store.Dimensions(ctx, src)
	require.NoError(t, err)
	require.Equal(t, 300, w)
	require.Equal(t, 200, h)

	crop, err := store.Crop(ctx, src, entity.PixelBounds{Left: 200, Top: 100, Width: 100, Height: 100})
	require.NoError(t, err)
	require.NotEqual(t, src, crop)
	require.Equal(t, 2, store.Live())

	cw, ch, err := store.Dimensions(ctx, crop)
	require.NoError(t, err)
	require.Equal(t, 100, cw)
	require.Equal(t, 100, ch)

	data, err := store.Read(ctx, crop)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	require.NoError(t, store.Delete(ctx, crop))
	require.NoError(t, store.Delete(ctx, crop), "second delete is a no-op")
	require.NoError(t, store.Delete(ctx, src))
	require.Equal(t, 0, store.Live())

	_, err = store.Read(ctx, src)
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestFileImageStore_CropOutOfBounds(t *testing.T) {
	store, err := NewFileImageStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	src, err := store.Put(ctx, pngBytes(t, 100, 100))
	require.NoError(t, err)

	_, err = store.Crop(ctx, src, entity.PixelBounds{Left: 50, Top: 50, Width: 60, Height: 10})
	require.Error(t, err)
	require.Equal(t, 1, store.Live())
}

func TestFileImageStore_PutEmpty(t *testing.T) {
	store, err := NewFileImageStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Put(context.Background(), nil)
	require.ErrorIs(t, err, entity.ErrEmptyImage)
}

func TestDHashFingerprinter(t *testing.T) {
	fp := NewDHashFingerprinter()

	a, err := fp.Fingerprint(pngBytes(t, 64, 64))
	require.NoError(t, err)
	b, err := fp.Fingerprint(pngBytes(t, 64, 64))
	require.NoError(t, err)
	require.Equal(t, a, b)

	_, err = fp.Fingerprint([]byte("not an image"))
	require.Error(t, err)
}
