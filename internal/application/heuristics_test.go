package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"recognition-bot/internal/domain/entity"
)

func preds(items ...entity.Prediction) entity.Predictions {
	return entity.NewPredictions(items...)
}

func pr(c entity.Category, conf int) entity.Prediction {
	return entity.Prediction{Category: c, Confidence: conf}
}

func TestEvaluateUnknown_LowBalancedIsUnknown(t *testing.T) {
	h := NewHeuristics(DefaultPolicy())

	v := h.EvaluateUnknown(preds(
		pr(entity.CategoryBolt, 38),
		pr(entity.CategoryNut, 25),
		pr(entity.CategoryWasher, 18),
	), nil)

	require.True(t, v.IsUnknown)
	require.Equal(t, 3, v.UncertaintyScore)
	require.Equal(t, pr(entity.CategoryBolt, 38), v.BestGuess)
	require.Nil(t, v.Context)
}

func TestEvaluateUnknown_DominantIsKnown(t *testing.T) {
	h := NewHeuristics(DefaultPolicy())

	v := h.EvaluateUnknown(preds(
		pr(entity.CategoryBolt, 85),
		pr(entity.CategoryNut, 10),
		pr(entity.CategoryWasher, 5),
	), nil)

	require.False(t, v.IsUnknown)
	require.Equal(t, 0, v.UncertaintyScore)
	require.Equal(t, 85, v.BestGuess.Confidence)
}

func TestEvaluateUnknown_MultiObjectContextOverrides(t *testing.T) {
	h := NewHeuristics(DefaultPolicy())
	signals := entity.ImageSignals{ByteSize: 900 << 10, ComplexityScore: 0.45, EstimatedRegionCount: 2}

	v := h.EvaluateUnknown(preds(
		pr(entity.CategoryBolt, 36),
		pr(entity.CategoryNut, 33),
		pr(entity.CategoryWasher, 31),
	), &signals)

	require.False(t, v.IsUnknown)
	require.NotNil(t, v.Context)
	require.True(t, v.Context.IsLikelyMultiObject)
}

func TestEvaluateUnknown_ImpliesLowTop1(t *testing.T) {
	h := NewHeuristics(DefaultPolicy())

	for top1 := 0; top1 <= 100; top1 += 3 {
		for top2 := 0; top2 <= top1; top2 += 7 {
			for top3 := 0; top3 <= top2; top3 += 11 {
				v := h.EvaluateUnknown(preds(
					pr(entity.CategoryBolt, top1),
					pr(entity.CategoryNut, top2),
					pr(entity.CategoryWasher, top3),
				), nil)
				if v.IsUnknown {
					require.Less(t, v.BestGuess.Confidence, 40)
				}
			}
		}
	}
}

func TestEvaluateUnknown_EmptyIsTotal(t *testing.T) {
	h := NewHeuristics(DefaultPolicy())

	v := h.EvaluateUnknown(nil, &entity.ImageSignals{})
	require.True(t, v.IsUnknown)
	require.Equal(t, entity.Prediction{}, v.BestGuess)
	require.False(t, v.Context.IsLikelyMultiObject)
}

func TestAnalyzeContext(t *testing.T) {
	h := NewHeuristics(DefaultPolicy())

	t.Run("balanced small file", func(t *testing.T) {
		ctx := h.AnalyzeContext(preds(
			pr(entity.CategoryBolt, 40),
			pr(entity.CategoryNut, 30),
			pr(entity.CategoryWasher, 30),
		), entity.ImageSignals{ByteSize: 10 << 10, ComplexityScore: 0.005, EstimatedRegionCount: 1})

		require.True(t, ctx.IsLikelyMultiObject)
		require.Equal(t, 10, ctx.Score)
		require.Equal(t, 14, ctx.MaxScore)
		require.False(t, ctx.Indicators[IndicatorLargeFile])
		require.True(t, ctx.Indicators[IndicatorVeryBalanced])
		require.InDelta(t, 10.0/14*100, ctx.ConfidencePercent, 1e-9)
	})

	t.Run("dominant large file", func(t *testing.T) {
		ctx := h.AnalyzeContext(preds(
			pr(entity.CategoryBolt, 85),
			pr(entity.CategoryNut, 10),
			pr(entity.CategoryWasher, 5),
		), entity.ImageSignals{ByteSize: 600 << 10, ComplexityScore: 0.29, EstimatedRegionCount: 2})

		require.False(t, ctx.IsLikelyMultiObject)
		// large_file + all_known
		require.Equal(t, 4, ctx.Score)
	})
}
