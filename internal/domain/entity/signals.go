package entity

// ImageSignals дешёвые несемантические признаки изображения
type ImageSignals struct {
	ByteSize             int64   `json:"byte_size"`
	ComplexityScore      float64 `json:"complexity_score"`       // 0..1
	EstimatedRegionCount int     `json:"estimated_region_count"` // 1..5
}

// DefaultSignals значения, подставляемые при ошибке чтения
func DefaultSignals() ImageSignals {
	return ImageSignals{
		ComplexityScore:      0.3,
		EstimatedRegionCount: 1,
	}
}
