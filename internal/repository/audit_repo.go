package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"fsgate/internal/model"
)

const auditSchema = `
CREATE TABLE IF NOT EXISTS audit_log (
	id          TEXT PRIMARY KEY,
	action      TEXT NOT NULL,
	path        TEXT NOT NULL,
	detail      TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	occurred_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_occurred_at ON audit_log (occurred_at);
`

// AuditRepository stores the operation audit trail in an embedded sqlite
// database so the service stays a single self-contained binary.
type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(dbFile string) (*AuditRepository, error) {
	if dir := filepath.Dir(dbFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("prepare audit database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbFile)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}

	// The sqlite driver serializes writes; one connection avoids lock churn.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(auditSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure audit schema: %w", err)
	}

	return &AuditRepository{db: db}, nil
}

func (r *AuditRepository) Close() error {
	return r.db.Close()
}

func (r *AuditRepository) Insert(ctx context.Context, entry model.AuditEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, action, path, detail, status, occurred_at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Action, entry.Path, entry.Detail, entry.Status,
		entry.OccurredAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, action, path, detail, status, occurred_at FROM audit_log ORDER BY occurred_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]model.AuditEntry, 0, limit)
	for rows.Next() {
		var entry model.AuditEntry
		var occurredAt string
		if err := rows.Scan(&entry.ID, &entry.Action, &entry.Path, &entry.Detail, &entry.Status, &occurredAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}

		parsed, parseErr := time.Parse(time.RFC3339Nano, occurredAt)
		if parseErr == nil {
			entry.OccurredAt = parsed
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
