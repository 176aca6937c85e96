package port

import (
	"context"

	"recognition-bot/internal/domain/entity"
)

// Classifier внешний классификатор одного изображения
type Classifier interface {
	// Classify возвращает предсказания по всем известным категориям, по убыванию уверенности
	Classify(ctx context.Context, imageData []byte) (entity.Predictions, error)
}
