package port

import (
	"context"

	"github.com/google/uuid"

	"recognition-bot/internal/domain/entity"
)

// RecognitionRepository долговременное хранилище результатов распознавания
type RecognitionRepository interface {
	// Save сохраняет готовый результат
	Save(ctx context.Context, r *entity.Recognition) error

	// Get возвращает результат по ID или entity.ErrNotFound
	Get(ctx context.Context, id uuid.UUID) (*entity.Recognition, error)

	// ListByCaller возвращает историю вызывающего, новые записи первыми
	ListByCaller(ctx context.Context, callerID string, limit, offset int) ([]*entity.Recognition, error)
}
