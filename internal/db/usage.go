package db

import (
	"context"
	"fmt"

	"atelier/internal/models"
	"atelier/internal/usage"
)

// UsageLedger stores usage records in the usage_records table.
type UsageLedger struct {
	db *DB
}

// NewUsageLedger returns a ledger backed by the database.
func (d *DB) NewUsageLedger() *UsageLedger {
	return &UsageLedger{db: d}
}

// Append inserts one usage record.
func (l *UsageLedger) Append(ctx context.Context, rec models.UsageRecord) error {
	if err := usage.Validate(rec); err != nil {
		return err
	}

	query := `
		INSERT INTO usage_records (recorded_at, user_key, language, activity, attempts)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := l.db.Pool.Exec(ctx, query,
		rec.Timestamp.UTC(),
		rec.User,
		string(rec.Language),
		string(rec.Activity),
		rec.Attempts,
	); err != nil {
		return fmt.Errorf("failed to insert usage record: %w", err)
	}
	return nil
}

// All returns every usage record in insertion order.
func (l *UsageLedger) All(ctx context.Context) ([]models.UsageRecord, error) {
	query := `
		SELECT recorded_at, user_key, language, activity, attempts
		FROM usage_records
		ORDER BY id
	`

	rows, err := l.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage records: %w", err)
	}
	defer rows.Close()

	var records []models.UsageRecord
	for rows.Next() {
		var rec models.UsageRecord
		var lang, activity string
		if err := rows.Scan(&rec.Timestamp, &rec.User, &lang, &activity, &rec.Attempts); err != nil {
			return nil, err
		}
		rec.Language = models.Language(lang)
		rec.Activity = models.Activity(activity)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// MaxAttemptsByUser returns the highest recorded attempt count per user.
func (l *UsageLedger) MaxAttemptsByUser(ctx context.Context) (map[string]int, error) {
	query := `SELECT user_key, MAX(attempts) FROM usage_records GROUP BY user_key`

	rows, err := l.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var user string
		var n int
		if err := rows.Scan(&user, &n); err != nil {
			return nil, err
		}
		out[user] = n
	}

	return out, rows.Err()
}
