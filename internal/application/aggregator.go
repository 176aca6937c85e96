package app

import (
	"fmt"
	"sort"

	"recognition-bot/internal/domain/entity"
)

// Aggregator сводит результаты зон и прохода по всему изображению
// в список объектов без повторов категорий.
type Aggregator struct {
	policy     Policy
	heuristics *Heuristics
}

func NewAggregator(policy Policy, heuristics *Heuristics) *Aggregator {
	return &Aggregator{policy: policy, heuristics: heuristics}
}

// Aggregate объединяет результаты в порядке приоритета:
// зоны, усиление глобальным проходом, восстановление пропущенных зонами категорий,
// доминирующая глобальная категория.
func (a *Aggregator) Aggregate(global entity.Predictions, zones []entity.ZoneResult) ([]entity.DetectedObject, error) {
	objects := make([]entity.DetectedObject, 0, len(entity.AllCategories()))
	index := make(map[entity.Category]int)

	for _, zr := range zones {
		if len(zr.Predictions) == 0 {
			continue
		}
		top := zr.Predictions.Top(0)
		if !top.Category.IsKnown() {
			continue
		}
		origin := zr.Origin()

		if i, ok := index[top.Category]; ok {
			obj := &objects[i]
			if top.Confidence > obj.Confidence {
				obj.Confidence = top.Confidence
			}
			if !obj.HasOrigin(origin) {
				obj.Origins = append(obj.Origins, origin)
			}
			obj.Method = entity.MethodMultiZone
			continue
		}

		index[top.Category] = len(objects)
		objects = append(objects, entity.DetectedObject{
			Category:   top.Category,
			Confidence: top.Confidence,
			Origins:    []string{origin},
			Method:     entity.MethodZone,
		})
	}

	dominant := global.Top(0)
	hasDominant := dominant.Category.IsKnown() && dominant.Confidence > a.policy.DominantMinConfidence

	for _, g := range global {
		if !g.Category.IsKnown() {
			continue
		}

		if i, ok := index[g.Category]; ok {
			obj := &objects[i]
			if g.Confidence > obj.Confidence {
				obj.Confidence = g.Confidence
				obj.Method = entity.MethodEnhanced
				if !obj.HasOrigin(entity.OriginWholeImage) {
					obj.Origins = append(obj.Origins, entity.OriginWholeImage)
				}
			}
			continue
		}

		// сильная глобальная категория достаётся следующему шагу
		if hasDominant && g.Category == dominant.Category {
			continue
		}
		if g.Confidence <= a.policy.RecoveryMinConfidence {
			continue
		}

		index[g.Category] = len(objects)
		objects = append(objects, entity.DetectedObject{
			Category:   g.Category,
			Confidence: max(g.Confidence, a.policy.RecoveryFloorConfidence),
			Origins:    []string{entity.OriginWholeImage},
			Method:     entity.MethodGlobalRecovery,
		})
	}

	if _, ok := index[dominant.Category]; hasDominant && !ok {
		index[dominant.Category] = len(objects)
		objects = append(objects, entity.DetectedObject{
			Category:   dominant.Category,
			Confidence: dominant.Confidence,
			Origins:    []string{entity.OriginWholeImage},
			Method:     entity.MethodGlobalDominant,
		})
	}

	sort.SliceStable(objects, func(i, j int) bool {
		zi, zj := objects[i].Method.FromZones(), objects[j].Method.FromZones()
		if zi != zj {
			return zi
		}
		return objects[i].Confidence > objects[j].Confidence
	})

	seen := make(map[entity.Category]struct{}, len(objects))
	for _, o := range objects {
		if _, dup := seen[o.Category]; dup {
			return nil, fmt.Errorf("%w: duplicate category %s", entity.ErrAggregation, o.Category)
		}
		seen[o.Category] = struct{}{}
	}

	return objects, nil
}

// Assess проверяет каждый объект эвристикой неизвестного объекта
// на синтезированном наборе из трёх кандидатов.
func (a *Aggregator) Assess(objects []entity.DetectedObject, global entity.Predictions) {
	for i := range objects {
		candidates := candidatesFor(objects[i], global)
		verdict := a.heuristics.EvaluateUnknown(candidates, nil)
		objects[i].IsUnknown = verdict.IsUnknown
		objects[i].Verdict = &verdict
	}
}

// candidatesFor: сам объект, затем две лучшие другие категории глобального прохода,
// недостающие дополняются оставшимися категориями с нулевой уверенностью.
// Уверенность остальных кандидатов не выше уверенности объекта, поэтому объект
// всегда остаётся первым и эвристика оценивает именно его.
func candidatesFor(obj entity.DetectedObject, global entity.Predictions) entity.Predictions {
	const size = 3

	out := []entity.Prediction{{Category: obj.Category, Confidence: obj.Confidence}}
	used := map[entity.Category]bool{obj.Category: true}

	for _, g := range global {
		if len(out) == size {
			break
		}
		if used[g.Category] || !g.Category.IsKnown() {
			continue
		}
		used[g.Category] = true
		out = append(out, entity.Prediction{
			Category:   g.Category,
			Confidence: min(g.Confidence, obj.Confidence),
		})
	}
	for _, c := range entity.AllCategories() {
		if len(out) == size {
			break
		}
		if used[c] {
			continue
		}
		used[c] = true
		out = append(out, entity.Prediction{Category: c})
	}

	// сортировка устойчивая: при равенстве объект остаётся первым
	return entity.NewPredictions(out...)
}
