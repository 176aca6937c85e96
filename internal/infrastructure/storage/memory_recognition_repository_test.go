package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"recognition-bot/internal/domain/entity"
)

func TestMemoryRecognitionRepository_SaveGet(t *testing.T) {
	repo := NewMemoryRecognitionRepository()
	ctx := context.Background()

	rec := entity.NewRecognition("caller")
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, rec, got)

	_, err = repo.Get(ctx, uuid.New())
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestMemoryRecognitionRepository_ListByCallerPaginates(t *testing.T) {
	repo := NewMemoryRecognitionRepository()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := entity.NewRecognition("alice")
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Save(ctx, rec))
	}
	require.NoError(t, repo.Save(ctx, entity.NewRecognition("bob")))

	page, err := repo.ListByCaller(ctx, "alice", 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, base.Add(4*time.Minute), page[0].CreatedAt)
	require.Equal(t, base.Add(3*time.Minute), page[1].CreatedAt)

	page, err = repo.ListByCaller(ctx, "alice", 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, base, page[0].CreatedAt)

	page, err = repo.ListByCaller(ctx, "alice", 2, 10)
	require.NoError(t, err)
	require.Empty(t, page)
}
