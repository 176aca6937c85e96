package port

import (
	"context"

	"github.com/google/uuid"

	"recognition-bot/internal/domain/entity"
)

// UserRepository хранилище состояний диалога с пользователями бота
type UserRepository interface {
	// Get возвращает пользователя по ID, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save сохраняет пользователя целиком
	Save(ctx context.Context, user *entity.User) error

	// RecordRecognition привязывает результат распознавания к пользователю
	RecordRecognition(ctx context.Context, userID int64, recognitionID uuid.UUID) error
}
