package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"recognition-bot/internal/domain/entity"
	"recognition-bot/internal/domain/port"
)

// ZoneClassifier отвечает на вопрос "что в этой ячейке" с порогом по категории
type ZoneClassifier struct {
	classifier port.Classifier
	store      port.ImageStore
	policy     Policy
}

func NewZoneClassifier(classifier port.Classifier, store port.ImageStore, policy Policy) *ZoneClassifier {
	return &ZoneClassifier{classifier: classifier, store: store, policy: policy}
}

// Filter оставляет предсказания, строго превышающие порог своей категории
func (z *ZoneClassifier) Filter(preds entity.Predictions) entity.Predictions {
	out := make(entity.Predictions, 0, len(preds))
	for _, p := range preds {
		if p.Confidence > z.policy.zoneThreshold(p.Category) {
			out = append(out, p)
		}
	}
	return out
}

// ClassifyZone классифицирует одну ячейку
func (z *ZoneClassifier) ClassifyZone(ctx context.Context, zone *entity.ZoneDescriptor) (entity.ZoneResult, error) {
	data, err := z.store.Read(ctx, zone.Image)
	if err != nil {
		return entity.ZoneResult{}, fmt.Errorf("read zone %s: %w", zone.ID(), err)
	}

	preds, err := classify(ctx, z.classifier, data)
	if err != nil {
		return entity.ZoneResult{}, fmt.Errorf("classify zone %s: %w", zone.ID(), err)
	}

	return entity.ZoneResult{Zone: zone, Predictions: z.Filter(preds)}, nil
}

// ClassifyZones классифицирует ячейки параллельно. Результаты лежат в порядке зон,
// а не в порядке завершения. Первая ошибка отменяет остальные.
func (z *ZoneClassifier) ClassifyZones(ctx context.Context, zones []entity.ZoneDescriptor) ([]entity.ZoneResult, error) {
	results := make([]entity.ZoneResult, len(zones))

	g, gctx := errgroup.WithContext(ctx)
	if z.policy.ZoneWorkers > 0 {
		g.SetLimit(z.policy.ZoneWorkers)
	}

	for i := range zones {
		g.Go(func() error {
			res, err := z.ClassifyZone(gctx, &zones[i])
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// classify вызывает внешний классификатор и восстанавливает сортировку ответа
func classify(ctx context.Context, c port.Classifier, data []byte) (entity.Predictions, error) {
	preds, err := c.Classify(ctx, data)
	if err != nil {
		return nil, err
	}
	return entity.NewPredictions(preds...), nil
}
