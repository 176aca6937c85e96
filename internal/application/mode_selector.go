package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"recognition-bot/internal/domain/entity"
	"recognition-bot/internal/domain/port"
)

// Названия критериев выбора режима
const (
	CriterionHighComplexity   = "high_complexity"
	CriterionManyRegions      = "many_regions"
	CriterionTop1MidRange     = "top1_mid_range"
	CriterionDiverse          = "diverse_predictions"
	CriterionPrescanMultiple  = "prescan_multiple"
	CriterionPrescanConfident = "prescan_confident"
	CriterionLargeFile        = "large_file"
)

// Prescan грубая оценка числа объектов по быстрому проходу
type Prescan struct {
	EstimatedObjects int
	Confidence       int
}

// Selection всё, что селектор узнал об изображении
type Selection struct {
	Decision entity.ModeDecision
	Signals  entity.ImageSignals
	Quick    entity.Predictions // nil, если быстрый проход не удался или не состоялся
	QuickErr error              // ошибка классификатора в быстром проходе
	Verdict  entity.UnknownVerdict
}

// ModeSelector решает, обрабатывать изображение как один объект или как несколько
type ModeSelector struct {
	classifier port.Classifier
	signals    *SignalAnalyzer
	heuristics *Heuristics
	policy     Policy
}

func NewModeSelector(classifier port.Classifier, signals *SignalAnalyzer, heuristics *Heuristics, policy Policy) *ModeSelector {
	return &ModeSelector{
		classifier: classifier,
		signals:    signals,
		heuristics: heuristics,
		policy:     policy,
	}
}

// Select никогда не возвращает ошибку: любой сбой превращается в одиночный режим с fallback.
func (s *ModeSelector) Select(ctx context.Context, imageData []byte) Selection {
	return s.SelectWithSignals(ctx, imageData, s.signals.Analyze(imageData))
}

// SelectWithSignals как Select, но с сигналами, посчитанными вызывающим
func (s *ModeSelector) SelectWithSignals(ctx context.Context, imageData []byte, signals entity.ImageSignals) (sel Selection) {
	sel.Signals = signals

	defer func() {
		if r := recover(); r != nil {
			slog.Warn("mode: selection panicked", "panic", r)
			sel = Selection{
				Signals:  sel.Signals,
				Decision: s.fallback(fmt.Sprintf("mode selection panic: %v", r)),
			}
		}
	}()

	quick, err := classify(ctx, s.classifier, imageData)
	if err != nil {
		slog.Warn("mode: quick classification failed", "error", err)
		sel.QuickErr = err
		sel.Decision = s.fallback(err.Error())
		return sel
	}
	sel.Quick = quick

	sel.Verdict = s.heuristics.EvaluateUnknown(quick, &sel.Signals)
	sel.Decision = s.decide(quick, sel.Signals, sel.Verdict)
	return sel
}

func (s *ModeSelector) decide(quick entity.Predictions, signals entity.ImageSignals, verdict entity.UnknownVerdict) entity.ModeDecision {
	p := s.policy

	if verdict.Context != nil && verdict.Context.IsLikelyMultiObject {
		return entity.ModeDecision{
			Mode:     entity.ModeMultiple,
			Score:    p.ModeForcedMultiScore,
			MaxScore: p.ModeForcedMaxScore,
			Criteria: map[string]bool{"multi_object_context": true},
			Context:  verdict.Context,
			Reason:   "multi-object context",
		}
	}

	if verdict.IsUnknown {
		return entity.ModeDecision{
			Mode:     entity.ModeSingle,
			Score:    0,
			MaxScore: p.ModeForcedMaxScore,
			Criteria: map[string]bool{"unknown_object": true},
			Context:  verdict.Context,
			Reason:   "unknown object",
		}
	}

	prescan := s.Prescan(quick, signals)
	top1 := quick.Top(0).Confidence

	criteria := map[string]bool{
		CriterionHighComplexity:   signals.ComplexityScore > p.ModeComplexity,
		CriterionManyRegions:      signals.EstimatedRegionCount > p.ModeRegionCount,
		CriterionTop1MidRange:     top1 >= p.ModeTop1Min && top1 < p.ModeTop1Max,
		CriterionDiverse:          quick.Diversity() > p.ModeDiversity,
		CriterionPrescanMultiple:  prescan.EstimatedObjects > 1,
		CriterionPrescanConfident: prescan.Confidence > p.ModePrescanConfidence,
		CriterionLargeFile:        signals.ByteSize > p.ModeLargeFileBytes,
	}

	score, maxScore := 0, 0
	for name, w := range p.ModeWeights {
		maxScore += w
		if criteria[name] {
			score += w
		}
	}

	mode := entity.ModeSingle
	if float64(score) >= p.ModeThreshold*float64(maxScore) {
		mode = entity.ModeMultiple
	}

	return entity.ModeDecision{
		Mode:     mode,
		Score:    score,
		MaxScore: maxScore,
		Criteria: criteria,
		Context:  verdict.Context,
	}
}

// Prescan оценивает число объектов: предсказания не ниже PrescanMinConfidence,
// не больше оценки числа областей; уверенность = среднее по ним плюс надбавка
// за каждый дополнительный объект.
func (s *ModeSelector) Prescan(quick entity.Predictions, signals entity.ImageSignals) Prescan {
	p := s.policy

	count, sum := 0, 0
	for _, pr := range quick {
		if pr.Confidence >= p.PrescanMinConfidence {
			count++
			sum += pr.Confidence
		}
	}
	if count == 0 {
		return Prescan{EstimatedObjects: 1}
	}

	objects := count
	if signals.EstimatedRegionCount > 0 && objects > signals.EstimatedRegionCount {
		objects = signals.EstimatedRegionCount
	}
	if objects < 1 {
		objects = 1
	}

	mean := int(math.Round(float64(sum) / float64(count)))
	confidence := min(mean+(objects-1)*p.PrescanExtraObjectGain, 100)

	return Prescan{EstimatedObjects: objects, Confidence: confidence}
}

func (s *ModeSelector) fallback(reason string) entity.ModeDecision {
	return entity.ModeDecision{
		Mode:     entity.ModeSingle,
		Score:    0,
		MaxScore: s.policy.ModeForcedMaxScore,
		Criteria: map[string]bool{},
		Fallback: true,
		Reason:   reason,
	}
}
