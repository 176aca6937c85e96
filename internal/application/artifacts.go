package app

import (
	"context"
	"log/slog"
	"sync"

	"recognition-bot/internal/domain/entity"
	"recognition-bot/internal/domain/port"
)

// Artifacts учитывает временные изображения одного распознавания,
// чтобы удалить их все разом на любом пути выхода.
type Artifacts struct {
	store   port.ImageStore
	mu      sync.Mutex
	handles []entity.ImageHandle
}

func NewArtifacts(store port.ImageStore) *Artifacts {
	return &Artifacts{store: store}
}

// Track регистрирует артефакт для последующего удаления
func (a *Artifacts) Track(handle entity.ImageHandle) {
	a.mu.Lock()
	a.handles = append(a.handles, handle)
	a.mu.Unlock()
}

// Len количество ещё не освобождённых артефактов
func (a *Artifacts) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.handles)
}

// Release удаляет все артефакты ровно один раз. Повторный вызов ничего не делает.
func (a *Artifacts) Release(ctx context.Context) int {
	a.mu.Lock()
	handles := a.handles
	a.handles = nil
	a.mu.Unlock()

	for _, h := range handles {
		if err := a.store.Delete(ctx, h); err != nil {
			slog.Warn("artifacts: delete failed", "handle", h, "error", err)
		}
	}
	return len(handles)
}
