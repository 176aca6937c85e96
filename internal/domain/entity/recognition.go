package entity

import (
	"time"

	"github.com/google/uuid"
)

// Recognition итог обработки одного изображения
type Recognition struct {
	ID             uuid.UUID        `json:"id"`
	CallerID       string           `json:"caller_id"`
	Mode           Mode             `json:"mode"`
	Objects        []DetectedObject `json:"objects"`
	Decision       ModeDecision     `json:"decision"`
	Verdict        *UnknownVerdict  `json:"verdict,omitempty"` // только для одиночного режима
	Signals        ImageSignals     `json:"signals"`
	Fallback       bool             `json:"fallback"`
	FallbackReason string           `json:"fallback_reason,omitempty"`
	Fingerprint    string           `json:"fingerprint,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// NewRecognition создаёт запись с новым идентификатором
func NewRecognition(callerID string) *Recognition {
	return &Recognition{
		ID:        uuid.New(),
		CallerID:  callerID,
		CreatedAt: time.Now().UTC(),
	}
}

// KnownObjects возвращает объекты, которые не помечены как неизвестные
func (r *Recognition) KnownObjects() []DetectedObject {
	out := make([]DetectedObject, 0, len(r.Objects))
	for _, o := range r.Objects {
		if !o.IsUnknown {
			out = append(out, o)
		}
	}
	return out
}
