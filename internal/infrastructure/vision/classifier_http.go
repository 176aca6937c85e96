package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"recognition-bot/internal/domain/entity"
	"recognition-bot/internal/domain/port"
)

// HTTPClassifier клиент внешнего сервиса классификации.
// Протокол: POST multipart/form-data с полем "file",
// ответ {"predictions":[{"label":"bolt","confidence":0.87}, ...]}.
type HTTPClassifier struct {
	url        string
	client     *http.Client
	maxRetries uint64
	backoff    time.Duration
}

// NewHTTPClassifier создаёт клиент; client может быть nil.
func NewHTTPClassifier(url string, client *http.Client) *HTTPClassifier {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPClassifier{
		url:        url,
		client:     client,
		maxRetries: 3,
		backoff:    200 * time.Millisecond,
	}
}

type classifyResponse struct {
	Predictions []struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	} `json:"predictions"`
}

// Classify отправляет изображение и повторяет запрос при сетевых ошибках и 5xx.
func (c *HTTPClassifier) Classify(ctx context.Context, imageData []byte) (entity.Predictions, error) {
	var preds entity.Predictions

	b := retry.NewFibonacci(c.backoff)
	err := retry.Do(ctx, retry.WithMaxRetries(c.maxRetries, b), func(ctx context.Context) error {
		var err error
		preds, err = c.predict(ctx, imageData)
		var transient *transientError
		if errors.As(err, &transient) {
			slog.Debug("classifier: transient failure, will retry", "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return preds, nil
}

func (c *HTTPClassifier) predict(ctx context.Context, imageData []byte) (entity.Predictions, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "image")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(imageData)); err != nil {
		return nil, fmt.Errorf("copy image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, &transientError{err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &transientError{err: fmt.Errorf("classifier failed with status: %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier failed with status: %d", resp.StatusCode)
	}

	var result classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return toPredictions(result), nil
}

// toPredictions переводит ответ в перечисление категорий. Незнакомые метки
// отбрасываются, отсутствующие категории дополняются нулевой уверенностью.
func toPredictions(result classifyResponse) entity.Predictions {
	seen := make(map[entity.Category]bool)
	items := make([]entity.Prediction, 0, len(entity.AllCategories()))

	for _, p := range result.Predictions {
		cat, ok := entity.ParseCategory(strings.ToLower(strings.TrimSpace(p.Label)))
		if !ok {
			slog.Debug("classifier: unknown label dropped", "label", p.Label)
			continue
		}
		if seen[cat] {
			continue
		}
		seen[cat] = true
		items = append(items, entity.Prediction{
			Category:   cat,
			Confidence: int(math.Round(p.Confidence * 100)),
		})
	}

	for _, cat := range entity.AllCategories() {
		if !seen[cat] {
			items = append(items, entity.Prediction{Category: cat})
		}
	}

	return entity.NewPredictions(items...)
}

// CheckHealth проверяет доступность сервиса классификации
func (c *HTTPClassifier) CheckHealth(ctx context.Context) error {
	healthURL := strings.TrimSuffix(strings.TrimSuffix(c.url, "/"), "/predict") + "/health"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("classifier unhealthy: %d", resp.StatusCode)
	}
	return nil
}

type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Проверка реализации интерфейса
var _ port.Classifier = (*HTTPClassifier)(nil)
