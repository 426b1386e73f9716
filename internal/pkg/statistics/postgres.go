package statistics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore хранит историю генераций в PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore создает подключение к PostgreSQL по DSN и инициализирует схему
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Проверяем подключение
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.InitSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// InitSchema инициализирует схему базы данных
func (p *PostgresStore) InitSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS generation_logs (
			id UUID PRIMARY KEY,
			timestamp TIMESTAMP WITH TIME ZONE NOT NULL,
			company TEXT NOT NULL,
			document_type TEXT NOT NULL,
			file_name TEXT NOT NULL,
			size_bytes BIGINT NOT NULL,
			duration_ns BIGINT NOT NULL,
			success BOOLEAN NOT NULL,
			error TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS overlay_logs (
			id UUID PRIMARY KEY,
			timestamp TIMESTAMP WITH TIME ZONE NOT NULL,
			session_id UUID NOT NULL,
			source TEXT NOT NULL,
			output TEXT NOT NULL,
			embedded INTEGER NOT NULL,
			failed INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_generation_logs_timestamp ON generation_logs(timestamp);
		CREATE INDEX IF NOT EXISTS idx_overlay_logs_timestamp ON overlay_logs(timestamp);
	`)
	return err
}

func (p *PostgresStore) RecordGeneration(ctx context.Context, rec GenerationRecord) error {
	normalize(&rec)
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO generation_logs
			(id, timestamp, company, document_type, file_name, size_bytes, duration_ns, success, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.Timestamp, rec.Company, rec.DocumentType, rec.FileName,
		rec.SizeBytes, rec.Duration.Nanoseconds(), rec.Success, rec.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to insert generation log: %w", err)
	}
	return nil
}

func (p *PostgresStore) RecordOverlay(ctx context.Context, rec OverlayRecord) error {
	normalizeOverlay(&rec)
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO overlay_logs (id, timestamp, session_id, source, output, embedded, failed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Timestamp, rec.SessionID, rec.Source, rec.Output, rec.Embedded, rec.Failed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert overlay log: %w", err)
	}
	return nil
}

func (p *PostgresStore) History(ctx context.Context, limit int) ([]GenerationRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT id, timestamp, company, document_type, file_name, size_bytes, duration_ns, success, error
		FROM generation_logs
		ORDER BY timestamp DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	out := make([]GenerationRecord, 0, limit)
	for rows.Next() {
		var rec GenerationRecord
		var durationNs int64
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Company, &rec.DocumentType,
			&rec.FileName, &rec.SizeBytes, &durationNs, &rec.Success, &rec.Error); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		rec.Duration = time.Duration(durationNs)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *PostgresStore) Summary(ctx context.Context, since time.Time) (*Summary, error) {
	s := newSummary()

	rows, err := p.db.QueryContext(ctx, `
		SELECT document_type,
			COUNT(*),
			COUNT(*) FILTER (WHERE NOT success),
			COALESCE(SUM(size_bytes), 0)
		FROM generation_logs
		WHERE timestamp >= $1
		GROUP BY document_type`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query type stats: %w", err)
	}
	for rows.Next() {
		var docType string
		var ts TypeStats
		if err := rows.Scan(&docType, &ts.Total, &ts.Failed, &ts.TotalSize); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan type stats: %w", err)
		}
		s.ByType[docType] = ts
		s.Generations += ts.Total
		s.Failed += ts.Failed
		s.TotalSize += ts.TotalSize
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hourRows, err := p.db.QueryContext(ctx, `
		SELECT EXTRACT(HOUR FROM timestamp AT TIME ZONE 'UTC')::int, COUNT(*)
		FROM generation_logs
		WHERE timestamp >= $1
		GROUP BY 1`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly stats: %w", err)
	}
	for hourRows.Next() {
		var hour int
		var count uint64
		if err := hourRows.Scan(&hour, &count); err != nil {
			hourRows.Close()
			return nil, fmt.Errorf("failed to scan hourly stats: %w", err)
		}
		s.ByHour[hour] = count
	}
	hourRows.Close()

	var total, minD, maxD sql.NullInt64
	var last sql.NullTime
	err = p.db.QueryRowContext(ctx, `
		SELECT SUM(duration_ns), MIN(duration_ns), MAX(duration_ns), MAX(timestamp)
		FROM generation_logs
		WHERE timestamp >= $1`, since.UTC()).Scan(&total, &minD, &maxD, &last)
	if err != nil {
		return nil, fmt.Errorf("failed to query duration stats: %w", err)
	}
	s.setDurations(time.Duration(total.Int64), time.Duration(minD.Int64), time.Duration(maxD.Int64), s.Generations)
	if last.Valid {
		t := last.Time.UTC()
		s.LastGeneration = &t
	}

	err = p.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(embedded), 0), COALESCE(SUM(failed), 0)
		FROM overlay_logs
		WHERE timestamp >= $1`, since.UTC()).Scan(&s.OverlaySaves, &s.OverlayItems, &s.OverlayFailures)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlay stats: %w", err)
	}

	return s, nil
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}
