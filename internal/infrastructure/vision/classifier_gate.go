package vision

import (
	"context"
	"sync"

	"recognition-bot/internal/domain/entity"
	"recognition-bot/internal/domain/port"
)

// SerializedClassifier пропускает к классификатору не больше одного вызова за раз.
// Нужен, когда реализация классификатора не потокобезопасна.
type SerializedClassifier struct {
	mu    sync.Mutex
	inner port.Classifier
}

func NewSerializedClassifier(inner port.Classifier) *SerializedClassifier {
	return &SerializedClassifier{inner: inner}
}

func (c *SerializedClassifier) Classify(ctx context.Context, imageData []byte) (entity.Predictions, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.inner.Classify(ctx, imageData)
}

var _ port.Classifier = (*SerializedClassifier)(nil)
