package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
}

type PostgresResultSink struct {
	db DBTX
}

// NewPostgresDatabase opens and pings a postgres connection pool.
func NewPostgresDatabase(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func NewPostgresResultSink(db DBTX) *PostgresResultSink {
	return &PostgresResultSink{db: db}
}

const createResultTable = `CREATE TABLE IF NOT EXISTS file_results (
    file_id      TEXT PRIMARY KEY,
    processed_at BIGINT NOT NULL,
    status       TEXT NOT NULL,
    lines        BIGINT,
    size_bytes   BIGINT,
    error        TEXT
)`

// EnsureSchema creates the results table when it does not exist yet.
func (p *PostgresResultSink) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createResultTable); err != nil {
		return fmt.Errorf("failed to create file_results table: %w", err)
	}
	return nil
}

const upsertResult = `-- name: UpsertResult :exec
INSERT INTO file_results (file_id, processed_at, status, lines, size_bytes, error)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (file_id) DO UPDATE SET
    processed_at = EXCLUDED.processed_at,
    status       = EXCLUDED.status,
    lines        = EXCLUDED.lines,
    size_bytes   = EXCLUDED.size_bytes,
    error        = EXCLUDED.error
`

func (p *PostgresResultSink) Put(ctx context.Context, record ResultRecord) error {
	var lines, size sql.NullInt64
	if record.Result != nil {
		lines = sql.NullInt64{Int64: record.Result.Lines, Valid: true}
		size = sql.NullInt64{Int64: record.Result.SizeBytes, Valid: true}
	}
	errText := sql.NullString{String: record.Error, Valid: record.Error != ""}

	_, err := p.db.ExecContext(ctx, upsertResult,
		record.Key,
		record.ProcessedAt,
		string(record.Status),
		lines,
		size,
		errText,
	)
	return err
}
