package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"recognition-bot/internal/domain/entity"
)

// TestPostgresRecognitionRepository работает только при заданном TEST_DATABASE_URL.
func TestPostgresRecognitionRepository(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" || testing.Short() {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	repo, err := NewPostgresRecognitionRepository(ctx, dsn)
	require.NoError(t, err)
	defer repo.Close()

	rec := entity.NewRecognition("pg-test-caller")
	rec.Mode = entity.ModeMultiple
	rec.Decision = entity.ModeDecision{Mode: entity.ModeMultiple, Score: 8, MaxScore: 10}
	rec.Objects = []entity.DetectedObject{{
		Category:   entity.CategoryNut,
		Confidence: 62,
		Origins:    []string{"r0c1", "r1c1"},
		Method:     entity.MethodMultiZone,
	}}
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, rec.ID, got.ID)
	require.Equal(t, entity.ModeMultiple, got.Mode)
	require.Equal(t, rec.Objects, got.Objects)
	require.Nil(t, got.Verdict)

	list, err := repo.ListByCaller(ctx, "pg-test-caller", 10, 0)
	require.NoError(t, err)
	require.NotEmpty(t, list)
}
