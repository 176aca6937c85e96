package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"recognition-bot/internal/domain/entity"
)

func TestZoneClassifier_FilterThresholds(t *testing.T) {
	z := NewZoneClassifier(nil, nil, DefaultPolicy())

	tests := []struct {
		name string
		in   entity.Predictions
		want []entity.Category
	}{
		{"nut at threshold", preds(pr(entity.CategoryNut, 45)), nil},
		{"nut above", preds(pr(entity.CategoryNut, 46)), []entity.Category{entity.CategoryNut}},
		{"washer lower threshold", preds(pr(entity.CategoryWasher, 36)), []entity.Category{entity.CategoryWasher}},
		{"bolt default threshold", preds(pr(entity.CategoryBolt, 50)), nil},
		{"mixed", preds(pr(entity.CategoryBolt, 51), pr(entity.CategoryNut, 40), pr(entity.CategoryWasher, 38)),
			[]entity.Category{entity.CategoryBolt, entity.CategoryWasher}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got []entity.Category
			for _, p := range z.Filter(tc.in) {
				got = append(got, p.Category)
			}
			require.Equal(t, tc.want, got)
		})
	}
}

func TestZoneClassifier_ResultsKeepZoneOrder(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	classifier := newSceneClassifier(300, nil)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			classifier.zones[[2]int{row, col}] = preds(pr(entity.CategoryBolt, 51+row*3+col))
		}
	}

	src, err := store.Put(ctx, gridImage(t, 300, 300))
	require.NoError(t, err)
	artifacts := NewArtifacts(store)
	defer artifacts.Release(ctx)

	zones, err := NewZoneTiler(store, DefaultPolicy()).Tile(ctx, src, 3, artifacts)
	require.NoError(t, err)

	results, err := NewZoneClassifier(classifier, store, DefaultPolicy()).ClassifyZones(ctx, zones)
	require.NoError(t, err)
	require.Len(t, results, 9)
	for i, res := range results {
		require.Same(t, &zones[i], res.Zone)
		require.Equal(t, 51+i, res.Predictions.Top(0).Confidence, "zone %s", res.Zone.ID())
	}
	require.EqualValues(t, 9, classifier.calls.Load())
}

func TestZoneClassifier_FirstErrorWins(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)

	src, err := store.Put(ctx, gridImage(t, 300, 300))
	require.NoError(t, err)
	artifacts := NewArtifacts(store)
	defer artifacts.Release(ctx)

	zones, err := NewZoneTiler(store, DefaultPolicy()).Tile(ctx, src, 3, artifacts)
	require.NoError(t, err)

	boom := errors.New("model crashed")
	failing := classifierFunc(func(ctx context.Context, _ []byte) (entity.Predictions, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Millisecond):
			return nil, boom
		}
	})

	_, err = NewZoneClassifier(failing, store, DefaultPolicy()).ClassifyZones(ctx, zones)
	require.ErrorIs(t, err, boom)
}
