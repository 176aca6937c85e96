package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"recognition-bot/internal/domain/entity"
	"recognition-bot/internal/domain/port"
)

// PostgresRecognitionRepository хранит результаты распознавания в PostgreSQL
type PostgresRecognitionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRecognitionRepository подключается к базе и создаёт схему (auto-migration)
func NewPostgresRecognitionRepository(ctx context.Context, connString string) (*PostgresRecognitionRepository, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	return &PostgresRecognitionRepository{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS recognitions (
			id UUID PRIMARY KEY,
			caller_id TEXT NOT NULL,
			mode TEXT NOT NULL,
			fallback BOOLEAN NOT NULL DEFAULT FALSE,
			fallback_reason TEXT NOT NULL DEFAULT '',
			fingerprint TEXT NOT NULL DEFAULT '',
			signals JSONB NOT NULL,
			decision JSONB NOT NULL,
			verdict JSONB,
			objects JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS recognitions_caller_created_idx ON recognitions (caller_id, created_at DESC);
	`
	_, err := pool.Exec(ctx, query)
	return err
}

// Close закрывает пул соединений
func (r *PostgresRecognitionRepository) Close() {
	r.pool.Close()
}

// Save сохраняет результат; повторное сохранение перезаписывает запись
func (r *PostgresRecognitionRepository) Save(ctx context.Context, rec *entity.Recognition) error {
	signals, err := json.Marshal(rec.Signals)
	if err != nil {
		return fmt.Errorf("encode signals: %w", err)
	}
	decision, err := json.Marshal(rec.Decision)
	if err != nil {
		return fmt.Errorf("encode decision: %w", err)
	}
	objects, err := json.Marshal(rec.Objects)
	if err != nil {
		return fmt.Errorf("encode objects: %w", err)
	}
	var verdict []byte
	if rec.Verdict != nil {
		if verdict, err = json.Marshal(rec.Verdict); err != nil {
			return fmt.Errorf("encode verdict: %w", err)
		}
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO recognitions (id, caller_id, mode, fallback, fallback_reason, fingerprint, signals, decision, verdict, objects, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			mode = EXCLUDED.mode,
			fallback = EXCLUDED.fallback,
			fallback_reason = EXCLUDED.fallback_reason,
			fingerprint = EXCLUDED.fingerprint,
			signals = EXCLUDED.signals,
			decision = EXCLUDED.decision,
			verdict = EXCLUDED.verdict,
			objects = EXCLUDED.objects
	`, rec.ID.String(), rec.CallerID, string(rec.Mode), rec.Fallback, rec.FallbackReason, rec.Fingerprint,
		signals, decision, verdict, objects, rec.CreatedAt)
	return err
}

const selectColumns = `id::text, caller_id, mode, fallback, fallback_reason, fingerprint, signals, decision, verdict, objects, created_at`

// Get возвращает результат по ID
func (r *PostgresRecognitionRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Recognition, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM recognitions WHERE id = $1`, id.String())
	rec, err := scanRecognition(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	return rec, err
}

// ListByCaller возвращает страницу истории, новые записи первыми
func (r *PostgresRecognitionRepository) ListByCaller(ctx context.Context, callerID string, limit, offset int) ([]*entity.Recognition, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+selectColumns+` FROM recognitions
		WHERE caller_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, callerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Recognition, 0, limit)
	for rows.Next() {
		rec, err := scanRecognition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecognition(row pgx.Row) (*entity.Recognition, error) {
	var (
		rec                                 entity.Recognition
		id, mode                            string
		signals, decision, verdict, objects []byte
		createdAt                           time.Time
	)
	if err := row.Scan(&id, &rec.CallerID, &mode, &rec.Fallback, &rec.FallbackReason, &rec.Fingerprint,
		&signals, &decision, &verdict, &objects, &createdAt); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse id: %w", err)
	}
	rec.ID = parsed
	rec.Mode = entity.Mode(mode)
	rec.CreatedAt = createdAt

	if err := json.Unmarshal(signals, &rec.Signals); err != nil {
		return nil, fmt.Errorf("decode signals: %w", err)
	}
	if err := json.Unmarshal(decision, &rec.Decision); err != nil {
		return nil, fmt.Errorf("decode decision: %w", err)
	}
	if err := json.Unmarshal(objects, &rec.Objects); err != nil {
		return nil, fmt.Errorf("decode objects: %w", err)
	}
	if len(verdict) > 0 {
		rec.Verdict = &entity.UnknownVerdict{}
		if err := json.Unmarshal(verdict, rec.Verdict); err != nil {
			return nil, fmt.Errorf("decode verdict: %w", err)
		}
	}
	return &rec, nil
}

// Проверка реализации интерфейса
var _ port.RecognitionRepository = (*PostgresRecognitionRepository)(nil)
