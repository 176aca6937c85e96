package entity

// ContextAnalysis оценка "на изображении несколько известных объектов"
type ContextAnalysis struct {
	IsLikelyMultiObject bool            `json:"is_likely_multi_object"`
	Score               int             `json:"score"`
	MaxScore            int             `json:"max_score"`
	Indicators          map[string]bool `json:"indicators"`
	ConfidencePercent   float64         `json:"confidence_percent"`
}

// UnknownVerdict вердикт "объект не распознан"
type UnknownVerdict struct {
	IsUnknown        bool             `json:"is_unknown"`
	UncertaintyScore int              `json:"uncertainty_score"` // 0..4
	BestGuess        Prediction       `json:"best_guess"`
	Context          *ContextAnalysis `json:"context,omitempty"`
}
