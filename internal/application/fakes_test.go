package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"recognition-bot/internal/domain/entity"
	"recognition-bot/internal/domain/port"
	"recognition-bot/internal/infrastructure/vision"
)

type classifierFunc func(ctx context.Context, imageData []byte) (entity.Predictions, error)

func (f classifierFunc) Classify(ctx context.Context, imageData []byte) (entity.Predictions, error) {
	return f(ctx, imageData)
}

func staticClassifier(items ...entity.Prediction) port.Classifier {
	p := entity.NewPredictions(items...)
	return classifierFunc(func(context.Context, []byte) (entity.Predictions, error) {
		return p, nil
	})
}

// gridImage рисует изображение, где каждая ячейка сетки 3×3 залита своим цветом
func gridImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	cw, ch := max(w/3, 1), max(h/3, 1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			row, col := min(y/ch, 2), min(x/cw, 2)
			img.Set(x, y, color.RGBA{R: uint8(row*50 + 10), G: uint8(col*50 + 10), B: 0, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// sceneClassifier отдаёт global для целого изображения и zones[ячейка] для вырезок
type sceneClassifier struct {
	fullWidth int
	global    entity.Predictions
	zones     map[[2]int]entity.Predictions
	zoneErr   error
	calls     atomic.Int32
}

func newSceneClassifier(fullWidth int, global entity.Predictions) *sceneClassifier {
	return &sceneClassifier{
		fullWidth: fullWidth,
		global:    global,
		zones:     make(map[[2]int]entity.Predictions),
	}
}

func (c *sceneClassifier) Classify(ctx context.Context, imageData []byte) (entity.Predictions, error) {
	c.calls.Add(1)

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() >= c.fullWidth {
		return c.global, nil
	}
	if c.zoneErr != nil {
		return nil, c.zoneErr
	}

	px := color.RGBAModel.Convert(img.At(b.Min.X+b.Dx()/2, b.Min.Y+b.Dy()/2)).(color.RGBA)
	cell := [2]int{(int(px.R) - 10) / 50, (int(px.G) - 10) / 50}
	if p, ok := c.zones[cell]; ok {
		return p, nil
	}
	return entity.NewPredictions(
		pr(entity.CategoryBolt, 20),
		pr(entity.CategoryNut, 10),
		pr(entity.CategoryWasher, 5),
	), nil
}

// flakyStore ломает Crop начиная с заданного вызова
type flakyStore struct {
	port.ImageStore
	failFrom int32
	crops    atomic.Int32
}

func (s *flakyStore) Crop(ctx context.Context, h entity.ImageHandle, b entity.PixelBounds) (entity.ImageHandle, error) {
	if s.crops.Add(1) >= s.failFrom {
		return "", errors.New("disk full")
	}
	return s.ImageStore.Crop(ctx, h, b)
}

func newFileStore(t *testing.T) *vision.FileImageStore {
	t.Helper()
	store, err := vision.NewFileImageStore(t.TempDir())
	require.NoError(t, err)
	return store
}
