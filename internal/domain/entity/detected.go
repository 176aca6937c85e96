package entity

// DetectionMethod способ, которым объект попал в итоговый список
type DetectionMethod string

const (
	MethodZone           DetectionMethod = "zone"
	MethodMultiZone      DetectionMethod = "multi-zone"
	MethodEnhanced       DetectionMethod = "enhanced"
	MethodGlobalRecovery DetectionMethod = "global-recovery"
	MethodGlobalDominant DetectionMethod = "global-dominant"
	MethodSingle         DetectionMethod = "single"
)

// OriginWholeImage источник "всё изображение"
const OriginWholeImage = "whole-image"

// FromZones сообщает, найден ли объект хотя бы одной зоной
func (m DetectionMethod) FromZones() bool {
	switch m {
	case MethodZone, MethodMultiZone, MethodEnhanced:
		return true
	}
	return false
}

// DetectedObject итоговый объект; одна запись на категорию
type DetectedObject struct {
	Category   Category        `json:"category"`
	Confidence int             `json:"confidence"`
	Origins    []string        `json:"origins"`
	Method     DetectionMethod `json:"method"`
	IsUnknown  bool            `json:"is_unknown"`
	Verdict    *UnknownVerdict `json:"verdict,omitempty"`
}

// HasOrigin проверяет, содержит ли объект указанный источник
func (o *DetectedObject) HasOrigin(origin string) bool {
	for _, existing := range o.Origins {
		if existing == origin {
			return true
		}
	}
	return false
}
