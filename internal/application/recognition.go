package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"recognition-bot/internal/domain/entity"
	"recognition-bot/internal/domain/port"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// RecognitionService единая точка входа распознавания
type RecognitionService struct {
	classifier    port.Classifier
	store         port.ImageStore
	repo          port.RecognitionRepository
	fingerprinter port.Fingerprinter
	policy        Policy

	signals    *SignalAnalyzer
	heuristics *Heuristics
	selector   *ModeSelector
	tiler      *ZoneTiler
	zones      *ZoneClassifier
	aggregator *Aggregator
}

// NewRecognitionService собирает сервис. repo и fingerprinter могут быть nil.
func NewRecognitionService(
	classifier port.Classifier,
	store port.ImageStore,
	repo port.RecognitionRepository,
	fingerprinter port.Fingerprinter,
	policy Policy,
) *RecognitionService {
	heuristics := NewHeuristics(policy)
	signals := NewSignalAnalyzer(policy)
	return &RecognitionService{
		classifier:    classifier,
		store:         store,
		repo:          repo,
		fingerprinter: fingerprinter,
		policy:        policy,
		signals:       signals,
		heuristics:    heuristics,
		selector:      NewModeSelector(classifier, signals, heuristics, policy),
		tiler:         NewZoneTiler(store, policy),
		zones:         NewZoneClassifier(classifier, store, policy),
		aggregator:    NewAggregator(policy, heuristics),
	}
}

// Recognize распознаёт изображение. Ошибку возвращает только недоступный классификатор
// (entity.ErrClassifierUnavailable) или пустой вход; проблемы нарезки сводятся
// к одиночному режиму с флагом Fallback.
func (s *RecognitionService) Recognize(ctx context.Context, imageData []byte, callerID string) (*entity.Recognition, error) {
	return s.recognize(ctx, imageData, callerID, s.signals.Analyze(imageData))
}

// RecognizeFile распознаёт файл с диска. Сигналы считаются по метаданным файла;
// если их прочитать не удалось, подставляются значения по умолчанию.
func (s *RecognitionService) RecognizeFile(ctx context.Context, path, callerID string) (*entity.Recognition, error) {
	signals := s.signals.AnalyzeFile(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return s.recognize(ctx, data, callerID, signals)
}

func (s *RecognitionService) recognize(ctx context.Context, imageData []byte, callerID string, signals entity.ImageSignals) (*entity.Recognition, error) {
	if len(imageData) == 0 {
		return nil, entity.ErrEmptyImage
	}

	rec := entity.NewRecognition(callerID)

	sel := s.selector.SelectWithSignals(ctx, imageData, signals)
	rec.Signals = sel.Signals
	rec.Decision = sel.Decision
	if sel.Decision.Fallback {
		rec.Fallback = true
		rec.FallbackReason = sel.Decision.Reason
	}

	if sel.Decision.Mode == entity.ModeMultiple {
		objects, err := s.detectMultiple(ctx, imageData, sel.Quick)
		if err == nil {
			rec.Mode = entity.ModeMultiple
			rec.Objects = objects
			s.finish(ctx, rec, imageData)
			return rec, nil
		}

		slog.Warn("recognition: multi-object path failed, falling back", "caller", callerID, "error", err)
		rec.Fallback = true
		rec.FallbackReason = err.Error()
	}

	if err := s.recognizeSingle(ctx, rec, imageData, sel); err != nil {
		return nil, err
	}
	s.finish(ctx, rec, imageData)
	return rec, nil
}

// History возвращает прошлые распознавания вызывающего
func (s *RecognitionService) History(ctx context.Context, callerID string, limit, offset int) ([]*entity.Recognition, error) {
	if s.repo == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByCaller(ctx, callerID, limit, offset)
}

// Get возвращает распознавание по ID
func (s *RecognitionService) Get(ctx context.Context, id uuid.UUID) (*entity.Recognition, error) {
	if s.repo == nil {
		return nil, entity.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *RecognitionService) recognizeSingle(ctx context.Context, rec *entity.Recognition, imageData []byte, sel Selection) error {
	preds := sel.Quick
	switch {
	case sel.QuickErr != nil:
		// классификатор уже исчерпал свои повторы в быстром проходе
		return fmt.Errorf("%w: %v", entity.ErrClassifierUnavailable, sel.QuickErr)
	case preds == nil:
		var err error
		preds, err = classify(ctx, s.classifier, imageData)
		if err != nil {
			return fmt.Errorf("%w: %v", entity.ErrClassifierUnavailable, err)
		}
	}

	signals := rec.Signals
	verdict := s.heuristics.EvaluateUnknown(preds, &signals)

	rec.Mode = entity.ModeSingle
	rec.Verdict = &verdict
	rec.Objects = nil
	if len(preds) > 0 {
		top := preds.Top(0)
		rec.Objects = []entity.DetectedObject{{
			Category:   top.Category,
			Confidence: top.Confidence,
			Origins:    []string{entity.OriginWholeImage},
			Method:     entity.MethodSingle,
			IsUnknown:  verdict.IsUnknown,
			Verdict:    &verdict,
		}}
	}
	return nil
}

// detectMultiple нарезка, классификация зон и агрегация. Все временные изображения
// удаляются при любом исходе.
func (s *RecognitionService) detectMultiple(ctx context.Context, imageData []byte, global entity.Predictions) (objects []entity.DetectedObject, err error) {
	artifacts := NewArtifacts(s.store)
	defer artifacts.Release(context.WithoutCancel(ctx))

	defer func() {
		if r := recover(); r != nil {
			objects, err = nil, fmt.Errorf("multi-object detection panic: %v", r)
		}
	}()

	if len(global) == 0 {
		return nil, errors.New("global pass is empty")
	}

	source, err := s.store.Put(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("store source image: %w", err)
	}
	artifacts.Track(source)

	zones, err := s.tiler.Tile(ctx, source, s.policy.GridSize, artifacts)
	if err != nil {
		return nil, err
	}

	results, err := s.zones.ClassifyZones(ctx, zones)
	if err != nil {
		return nil, err
	}

	objects, err = s.aggregator.Aggregate(global, results)
	if err != nil {
		return nil, err
	}
	s.aggregator.Assess(objects, global)

	slog.Debug("recognition: multi-object detection done", "zones", len(zones), "objects", len(objects))
	return objects, nil
}

// finish отпечаток и сохранение; ошибки здесь не влияют на ответ
func (s *RecognitionService) finish(ctx context.Context, rec *entity.Recognition, imageData []byte) {
	if s.fingerprinter != nil {
		fp, err := s.fingerprinter.Fingerprint(imageData)
		if err != nil {
			slog.Debug("recognition: fingerprint failed", "error", err)
		} else {
			rec.Fingerprint = fp
		}
	}

	if s.repo != nil {
		if err := s.repo.Save(ctx, rec); err != nil {
			slog.Warn("recognition: save failed", "id", rec.ID, "error", err)
		}
	}
}
