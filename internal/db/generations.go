package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"atelier/internal/models"
)

// SaveGeneration archives a generated text.
func (d *DB) SaveGeneration(ctx context.Context, g *models.Generation) error {
	query := `
		INSERT INTO generations (id, user_key, author, language, activity, answers, body, model, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`

	answers := g.Answers
	if answers == nil {
		answers = []string{}
	}

	_, err := d.Pool.Exec(ctx, query,
		g.ID,
		g.User,
		g.Author,
		string(g.Language),
		string(g.Activity),
		answers,
		g.Text,
		g.Model,
		g.Attempts,
		g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save generation: %w", err)
	}
	return nil
}

// GetGeneration retrieves an archived generation owned by user.
func (d *DB) GetGeneration(ctx context.Context, id uuid.UUID, user string) (*models.Generation, error) {
	query := `
		SELECT id, user_key, author, language, activity, answers, body, model, attempts, created_at
		FROM generations WHERE id = $1 AND user_key = $2
	`

	var g models.Generation
	var lang, activity string
	err := d.Pool.QueryRow(ctx, query, id, user).Scan(
		&g.ID,
		&g.User,
		&g.Author,
		&lang,
		&activity,
		&g.Answers,
		&g.Text,
		&g.Model,
		&g.Attempts,
		&g.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrGenerationNotFound
	}
	if err != nil {
		return nil, err
	}

	g.Language = models.Language(lang)
	g.Activity = models.Activity(activity)
	return &g, nil
}

// DeleteGenerationsBefore removes archived generations created before cutoff.
// Usage records are kept; only the texts expire.
func (d *DB) DeleteGenerationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM generations WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune generations: %w", err)
	}
	return tag.RowsAffected(), nil
}
