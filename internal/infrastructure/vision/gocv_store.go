//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"recognition-bot/internal/domain/entity"
	"recognition-bot/internal/domain/port"
)

// GoCVImageStore хранилище, которое режет изображения через OpenCV.
// Put, Read и Delete работают как у FileImageStore.
type GoCVImageStore struct {
	*FileImageStore
}

// NewGoCVImageStore создаёт хранилище в каталоге dir
func NewGoCVImageStore(dir string) (*GoCVImageStore, error) {
	files, err := NewFileImageStore(dir)
	if err != nil {
		return nil, err
	}
	return &GoCVImageStore{FileImageStore: files}, nil
}

// Dimensions читает изображение в gocv.Mat и берёт его размер
func (s *GoCVImageStore) Dimensions(ctx context.Context, handle entity.ImageHandle) (int, int, error) {
	mat := gocv.IMRead(s.path(handle), gocv.IMReadColor)
	defer mat.Close()

	if mat.Empty() {
		return 0, 0, errors.New("failed to decode image")
	}
	return mat.Cols(), mat.Rows(), nil
}

// Crop вырезает область через Mat.Region и пишет её в PNG
func (s *GoCVImageStore) Crop(ctx context.Context, handle entity.ImageHandle, bounds entity.PixelBounds) (entity.ImageHandle, error) {
	mat := gocv.IMRead(s.path(handle), gocv.IMReadColor)
	defer mat.Close()

	if mat.Empty() {
		return "", errors.New("failed to decode image")
	}

	rect, err := cropRect(image.Rect(0, 0, mat.Cols(), mat.Rows()), bounds)
	if err != nil {
		return "", err
	}

	region := mat.Region(rect)
	defer region.Close()

	out := newHandle(".png")
	if ok := gocv.IMWrite(s.path(out), region); !ok {
		return "", fmt.Errorf("write crop %s", out)
	}
	s.track(out)
	return out, nil
}

// Проверка реализации интерфейса
var _ port.ImageStore = (*GoCVImageStore)(nil)
