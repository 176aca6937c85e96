package app

import "recognition-bot/internal/domain/entity"

// Policy собирает в одном месте все настраиваемые пороги и веса эвристик.
// Значения подобраны под модель из трёх категорий и не являются инвариантами.
type Policy struct {
	// Сигналы изображения
	ComplexityCap int64 // размер файла, при котором сложность достигает 1

	// Нарезка на зоны
	GridSize       int
	MinImageSide   int
	MinCellSide    int
	RejectCellSide int

	// Адаптивные пороги зон
	ZoneThresholds       map[entity.Category]int
	DefaultZoneThreshold int
	ZoneWorkers          int

	// Контекст "несколько объектов"
	ContextLargeFileBytes   int64
	ContextComplexity       float64
	ContextDiversity        float64
	ContextMinScore         int
	ContextTop1Min          int
	ContextTop1Max          int
	BalancedTop1Max         int
	BalancedTop2Min         int
	BalancedTop3Min         int
	ContextWeightLargeFile  int
	ContextWeightComplexity int
	ContextWeightDiversity  int
	ContextWeightBalanced   int
	ContextWeightTop1Range  int
	ContextWeightAllKnown   int

	// Неизвестный объект
	UnknownTop1Max      int
	UnknownGapMax       int
	UnknownDiversityMin float64
	UnknownVeryLowTop1  int
	UnknownMinCriteria  int

	// Выбор режима
	ModeThreshold          float64
	ModeForcedMultiScore   int
	ModeForcedMaxScore     int
	ModeWeights            map[string]int
	ModeComplexity         float64
	ModeRegionCount        int
	ModeTop1Min            int
	ModeTop1Max            int
	ModeDiversity          float64
	ModePrescanConfidence  int
	ModeLargeFileBytes     int64
	PrescanMinConfidence   int
	PrescanExtraObjectGain int

	// Агрегация
	RecoveryMinConfidence   int
	RecoveryFloorConfidence int
	DominantMinConfidence   int
}

// DefaultPolicy значения, с которыми работает сервис по умолчанию
func DefaultPolicy() Policy {
	return Policy{
		ComplexityCap: 2 << 20,

		GridSize:       3,
		MinImageSide:   150,
		MinCellSide:    50,
		RejectCellSide: 30,

		ZoneThresholds: map[entity.Category]int{
			entity.CategoryNut:    45,
			entity.CategoryWasher: 35,
		},
		DefaultZoneThreshold: 50,
		ZoneWorkers:          4,

		ContextLargeFileBytes:   500 << 10,
		ContextComplexity:       0.4,
		ContextDiversity:        0.8,
		ContextMinScore:         6,
		ContextTop1Min:          25,
		ContextTop1Max:          60,
		BalancedTop1Max:         60,
		BalancedTop2Min:         25,
		BalancedTop3Min:         15,
		ContextWeightLargeFile:  2,
		ContextWeightComplexity: 2,
		ContextWeightDiversity:  3,
		ContextWeightBalanced:   3,
		ContextWeightTop1Range:  2,
		ContextWeightAllKnown:   2,

		UnknownTop1Max:      40,
		UnknownGapMax:       15,
		UnknownDiversityMin: 0.85,
		UnknownVeryLowTop1:  30,
		UnknownMinCriteria:  3,

		ModeThreshold:          0.35,
		ModeForcedMultiScore:   8,
		ModeForcedMaxScore:     10,
		ModeComplexity:         0.5,
		ModeRegionCount:        2,
		ModeTop1Min:            30,
		ModeTop1Max:            70,
		ModeDiversity:          0.6,
		ModePrescanConfidence:  40,
		ModeLargeFileBytes:     300 << 10,
		PrescanMinConfidence:   20,
		PrescanExtraObjectGain: 10,
		ModeWeights: map[string]int{
			CriterionHighComplexity:   2,
			CriterionManyRegions:      2,
			CriterionTop1MidRange:     2,
			CriterionDiverse:          3,
			CriterionPrescanMultiple:  3,
			CriterionPrescanConfident: 1,
			CriterionLargeFile:        2,
		},

		RecoveryMinConfidence:   25,
		RecoveryFloorConfidence: 30,
		DominantMinConfidence:   60,
	}
}

// zoneThreshold порог для категории в зоне
func (p Policy) zoneThreshold(c entity.Category) int {
	if t, ok := p.ZoneThresholds[c]; ok {
		return t
	}
	return p.DefaultZoneThreshold
}

func (p Policy) contextMaxScore() int {
	return p.ContextWeightLargeFile + p.ContextWeightComplexity + p.ContextWeightDiversity +
		p.ContextWeightBalanced + p.ContextWeightTop1Range + p.ContextWeightAllKnown
}
