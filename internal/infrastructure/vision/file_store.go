package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"recognition-bot/internal/domain/entity"
	"recognition-bot/internal/domain/port"
)

// FileImageStore хранит временные изображения файлами в рабочем каталоге.
// Вырезка и кодирование на чистом Go через imaging.
type FileImageStore struct {
	dir  string
	mu   sync.Mutex
	live map[entity.ImageHandle]struct{}
}

// NewFileImageStore создаёт каталог, если его ещё нет
func NewFileImageStore(dir string) (*FileImageStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	return &FileImageStore{
		dir:  dir,
		live: make(map[entity.ImageHandle]struct{}),
	}, nil
}

// Put сохраняет исходные байты под уникальным именем
func (s *FileImageStore) Put(ctx context.Context, imageData []byte) (entity.ImageHandle, error) {
	if len(imageData) == 0 {
		return "", entity.ErrEmptyImage
	}

	handle := newHandle(".img")
	if err := os.WriteFile(s.path(handle), imageData, 0o600); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	s.track(handle)
	return handle, nil
}

// Read возвращает байты изображения
func (s *FileImageStore) Read(ctx context.Context, handle entity.ImageHandle) ([]byte, error) {
	data, err := os.ReadFile(s.path(handle))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", handle, entity.ErrNotFound)
	}
	return data, err
}

// Dimensions читает только заголовок изображения
func (s *FileImageStore) Dimensions(ctx context.Context, handle entity.ImageHandle) (int, int, error) {
	f, err := os.Open(s.path(handle))
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// Crop вырезает область и сохраняет её в PNG
func (s *FileImageStore) Crop(ctx context.Context, handle entity.ImageHandle, bounds entity.PixelBounds) (entity.ImageHandle, error) {
	img, err := imaging.Open(s.path(handle))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	rect, err := cropRect(img.Bounds(), bounds)
	if err != nil {
		return "", err
	}

	cropped := imaging.Crop(img, rect)
	out := newHandle(".png")
	if err := imaging.Save(cropped, s.path(out)); err != nil {
		return "", fmt.Errorf("encode crop: %w", err)
	}
	s.track(out)
	return out, nil
}

// Delete удаляет файл; удаление уже удалённого не считается ошибкой
func (s *FileImageStore) Delete(ctx context.Context, handle entity.ImageHandle) error {
	s.mu.Lock()
	delete(s.live, handle)
	s.mu.Unlock()

	if err := os.Remove(s.path(handle)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Live количество неудалённых изображений
func (s *FileImageStore) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

func (s *FileImageStore) track(handle entity.ImageHandle) {
	s.mu.Lock()
	s.live[handle] = struct{}{}
	s.mu.Unlock()
}

func (s *FileImageStore) path(handle entity.ImageHandle) string {
	return filepath.Join(s.dir, filepath.Base(string(handle)))
}

func newHandle(ext string) entity.ImageHandle {
	return entity.ImageHandle(uuid.NewString() + ext)
}

// cropRect переводит PixelBounds в прямоугольник и проверяет, что он внутри изображения
func cropRect(imgBounds image.Rectangle, b entity.PixelBounds) (image.Rectangle, error) {
	rect := image.Rect(b.Left, b.Top, b.Left+b.Width, b.Top+b.Height).Add(imgBounds.Min)
	if b.Width <= 0 || b.Height <= 0 || !rect.In(imgBounds) {
		return image.Rectangle{}, fmt.Errorf("crop %v is outside of image %v", rect, imgBounds)
	}
	return rect, nil
}

// Проверка реализации интерфейса
var _ port.ImageStore = (*FileImageStore)(nil)
