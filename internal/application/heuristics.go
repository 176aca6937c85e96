package app

import "recognition-bot/internal/domain/entity"

// Названия индикаторов контекста "несколько объектов"
const (
	IndicatorLargeFile      = "large_file"
	IndicatorHighComplexity = "high_complexity"
	IndicatorDiverse        = "diverse_predictions"
	IndicatorVeryBalanced   = "very_balanced"
	IndicatorTop1MidRange   = "top1_mid_range"
	IndicatorAllKnown       = "all_known"
)

// Heuristics эвристики поверх ранжированного списка предсказаний.
// Все методы тотальны: никогда не возвращают ошибку.
type Heuristics struct {
	policy Policy
}

func NewHeuristics(policy Policy) *Heuristics {
	return &Heuristics{policy: policy}
}

// AnalyzeContext оценивает, похоже ли изображение на несколько известных объектов.
func (h *Heuristics) AnalyzeContext(preds entity.Predictions, signals entity.ImageSignals) entity.ContextAnalysis {
	p := h.policy
	top1, top2, top3 := preds.Top(0), preds.Top(1), preds.Top(2)

	indicators := map[string]bool{
		IndicatorLargeFile:      signals.ByteSize > p.ContextLargeFileBytes,
		IndicatorHighComplexity: signals.ComplexityScore > p.ContextComplexity,
		IndicatorDiverse:        len(preds) > 0 && preds.Diversity() > p.ContextDiversity,
		IndicatorVeryBalanced: len(preds) >= 3 &&
			top1.Confidence < p.BalancedTop1Max && top2.Confidence > p.BalancedTop2Min && top3.Confidence > p.BalancedTop3Min,
		IndicatorTop1MidRange: len(preds) > 0 &&
			top1.Confidence >= p.ContextTop1Min && top1.Confidence < p.ContextTop1Max,
		IndicatorAllKnown: len(preds) > 0 && preds.AllKnown(),
	}

	weights := map[string]int{
		IndicatorLargeFile:      p.ContextWeightLargeFile,
		IndicatorHighComplexity: p.ContextWeightComplexity,
		IndicatorDiverse:        p.ContextWeightDiversity,
		IndicatorVeryBalanced:   p.ContextWeightBalanced,
		IndicatorTop1MidRange:   p.ContextWeightTop1Range,
		IndicatorAllKnown:       p.ContextWeightAllKnown,
	}

	score := 0
	for name, hit := range indicators {
		if hit {
			score += weights[name]
		}
	}

	maxScore := p.contextMaxScore()
	var percent float64
	if maxScore > 0 {
		percent = float64(score) / float64(maxScore) * 100
	}

	return entity.ContextAnalysis{
		IsLikelyMultiObject: score >= p.ContextMinScore,
		Score:               score,
		MaxScore:            maxScore,
		Indicators:          indicators,
		ConfidencePercent:   percent,
	}
}

// EvaluateUnknown решает, стоит ли сообщать результат как "неизвестный объект".
// При переданных сигналах сначала проверяется контекст нескольких объектов:
// если он найден, объект никогда не считается неизвестным.
func (h *Heuristics) EvaluateUnknown(preds entity.Predictions, signals *entity.ImageSignals) entity.UnknownVerdict {
	p := h.policy
	top1, top2 := preds.Top(0), preds.Top(1)

	verdict := entity.UnknownVerdict{BestGuess: top1}

	if signals != nil {
		ctx := h.AnalyzeContext(preds, *signals)
		verdict.Context = &ctx
		if ctx.IsLikelyMultiObject {
			return verdict
		}
	}

	criteria := []bool{
		top1.Confidence < p.UnknownTop1Max,
		top1.Confidence-top2.Confidence < p.UnknownGapMax,
		preds.Diversity() > p.UnknownDiversityMin,
		top1.Confidence < p.UnknownVeryLowTop1,
	}
	for _, met := range criteria {
		if met {
			verdict.UncertaintyScore++
		}
	}

	// оба условия обязательны
	verdict.IsUnknown = verdict.UncertaintyScore >= p.UnknownMinCriteria && top1.Confidence < p.UnknownTop1Max
	return verdict
}
