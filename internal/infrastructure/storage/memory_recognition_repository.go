package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"recognition-bot/internal/domain/entity"
	"recognition-bot/internal/domain/port"
)

// MemoryRecognitionRepository in-memory хранилище результатов распознавания
type MemoryRecognitionRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*entity.Recognition
}

// NewMemoryRecognitionRepository создаёт пустое хранилище
func NewMemoryRecognitionRepository() *MemoryRecognitionRepository {
	return &MemoryRecognitionRepository{
		records: make(map[uuid.UUID]*entity.Recognition),
	}
}

// Save сохраняет результат, повторное сохранение перезаписывает запись
func (r *MemoryRecognitionRepository) Save(ctx context.Context, rec *entity.Recognition) error {
	r.mu.Lock()
	r.records[rec.ID] = rec
	r.mu.Unlock()
	return nil
}

// Get возвращает результат по ID
func (r *MemoryRecognitionRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Recognition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return rec, nil
}

// ListByCaller возвращает страницу истории, новые записи первыми
func (r *MemoryRecognitionRepository) ListByCaller(ctx context.Context, callerID string, limit, offset int) ([]*entity.Recognition, error) {
	r.mu.RLock()
	matched := make([]*entity.Recognition, 0)
	for _, rec := range r.records {
		if rec.CallerID == callerID {
			matched = append(matched, rec)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return []*entity.Recognition{}, nil
	}
	end := len(matched)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return matched[offset:end], nil
}

// Проверка реализации интерфейса
var _ port.RecognitionRepository = (*MemoryRecognitionRepository)(nil)
