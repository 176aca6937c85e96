package entity

// Mode режим обработки изображения
type Mode string

const (
	ModeSingle   Mode = "single"
	ModeMultiple Mode = "multiple"
)

// ModeDecision решение селектора режима; создаётся один раз на запрос
type ModeDecision struct {
	Mode     Mode             `json:"mode"`
	Score    int              `json:"score"`
	MaxScore int              `json:"max_score"`
	Criteria map[string]bool  `json:"criteria"`
	Context  *ContextAnalysis `json:"context,omitempty"`
	Fallback bool             `json:"fallback"`
	Reason   string           `json:"reason,omitempty"`
}
