package app

import (
	"log/slog"
	"math"
	"os"

	"recognition-bot/internal/domain/entity"
)

// SignalAnalyzer считает дешёвые признаки изображения без классификатора
type SignalAnalyzer struct {
	policy Policy
}

func NewSignalAnalyzer(policy Policy) *SignalAnalyzer {
	return &SignalAnalyzer{policy: policy}
}

// Analyze считает признаки по байтам изображения.
func (a *SignalAnalyzer) Analyze(imageData []byte) entity.ImageSignals {
	return a.fromSize(int64(len(imageData)))
}

// AnalyzeFile считает признаки по файлу. Ошибка чтения не пробрасывается:
// возвращаются сигналы по умолчанию.
func (a *SignalAnalyzer) AnalyzeFile(path string) entity.ImageSignals {
	info, err := os.Stat(path)
	if err != nil {
		slog.Warn("signals: stat failed, using defaults", "path", path, "error", err)
		return entity.DefaultSignals()
	}
	return a.fromSize(info.Size())
}

func (a *SignalAnalyzer) fromSize(size int64) entity.ImageSignals {
	if a.policy.ComplexityCap <= 0 || size < 0 {
		return entity.DefaultSignals()
	}

	complexity := math.Min(float64(size)/float64(a.policy.ComplexityCap), 1)
	regions := int(math.Floor(complexity*4)) + 1
	if regions < 1 {
		regions = 1
	}
	if regions > 5 {
		regions = 5
	}

	return entity.ImageSignals{
		ByteSize:             size,
		ComplexityScore:      complexity,
		EstimatedRegionCount: regions,
	}
}
