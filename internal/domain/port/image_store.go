package port

import (
	"context"

	"recognition-bot/internal/domain/entity"
)

// ImageStore хранилище временных изображений
type ImageStore interface {
	// Put сохраняет байты изображения и возвращает ссылку на него
	Put(ctx context.Context, imageData []byte) (entity.ImageHandle, error)

	// Read возвращает байты изображения
	Read(ctx context.Context, handle entity.ImageHandle) ([]byte, error)

	// Dimensions возвращает ширину и высоту изображения
	Dimensions(ctx context.Context, handle entity.ImageHandle) (width, height int, err error)

	// Crop вырезает область и сохраняет её как новое изображение
	Crop(ctx context.Context, handle entity.ImageHandle, bounds entity.PixelBounds) (entity.ImageHandle, error)

	// Delete удаляет изображение
	Delete(ctx context.Context, handle entity.ImageHandle) error
}
