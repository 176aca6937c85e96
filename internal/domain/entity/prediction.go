package entity

import "sort"

// Prediction одна пара (категория, уверенность в процентах)
type Prediction struct {
	Category   Category `json:"category"`
	Confidence int      `json:"confidence"` // 0..100
}

// Predictions ранжированный список предсказаний, всегда по убыванию уверенности
type Predictions []Prediction

// NewPredictions копирует список, обрезает уверенность до 0..100 и сортирует его.
func NewPredictions(items ...Prediction) Predictions {
	out := make(Predictions, len(items))
	copy(out, items)
	for i := range out {
		out[i].Confidence = clampPercent(out[i].Confidence)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// Top возвращает i-е по рангу предсказание или нулевое значение
func (p Predictions) Top(i int) Prediction {
	if i < 0 || i >= len(p) {
		return Prediction{}
	}
	return p[i]
}

// Diversity = 1 - (top1 - top2)/100, в пределах [0,1].
// Для списка из одного элемента разрыв считается равным top1.
func (p Predictions) Diversity() float64 {
	if len(p) == 0 {
		return 0
	}
	gap := p.Top(0).Confidence - p.Top(1).Confidence
	d := 1 - float64(gap)/100
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}

// ConfidenceOf возвращает уверенность для категории и признак её наличия
func (p Predictions) ConfidenceOf(c Category) (int, bool) {
	for _, pr := range p {
		if pr.Category == c {
			return pr.Confidence, true
		}
	}
	return 0, false
}

// AllKnown проверяет, что все категории списка из закрытого набора
func (p Predictions) AllKnown() bool {
	for _, pr := range p {
		if !pr.Category.IsKnown() {
			return false
		}
	}
	return true
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
