package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cre_underwriting/pkg/models"
)

// Repo stores scenarios in Postgres, one row per named snapshot. It owns
// its connection pool; Close releases it.
//
// Schema assumption:
//
//	CREATE TABLE IF NOT EXISTS scenarios (
//	  id UUID PRIMARY KEY,
//	  name TEXT UNIQUE NOT NULL,
//	  inputs_json JSONB NOT NULL,
//	  updated_at TIMESTAMPTZ NOT NULL
//	);
type Repo struct {
	pool *pgxpool.Pool
}

// OpenRepo connects to the shared scenario library using the DATABASE_URL
// environment variable.
func OpenRepo(ctx context.Context) (*Repo, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario database: %w", err)
	}
	return &Repo{pool: pool}, nil
}

// NewRepo wraps an existing pool, for callers managing their own
// connections.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Close releases the repository's connection pool.
func (r *Repo) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

// Save upserts by name; a new name gets a fresh UUID.
func (r *Repo) Save(ctx context.Context, name string, in *models.DealInputs) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}

	query := `
		INSERT INTO scenarios (id, name, inputs_json, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name)
		DO UPDATE SET
			inputs_json = EXCLUDED.inputs_json,
			updated_at = EXCLUDED.updated_at;
	`
	_, err = r.pool.Exec(ctx, query, uuid.New(), name, data, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save scenario %q: %w", name, err)
	}
	return nil
}

// Load retrieves one scenario by name.
func (r *Repo) Load(ctx context.Context, name string) (*models.DealInputs, error) {
	var data []byte
	err := r.pool.QueryRow(ctx, `SELECT inputs_json FROM scenarios WHERE name = $1`, name).Scan(&data)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no scenario named %q", name)
		}
		return nil, fmt.Errorf("failed to load scenario %q: %w", name, err)
	}

	var in models.DealInputs
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scenario %q: %w", name, err)
	}
	return &in, nil
}

// List returns saved scenario names, most recently updated first.
func (r *Repo) List(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM scenarios ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan scenario name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes one scenario by name.
func (r *Repo) Delete(ctx context.Context, name string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM scenarios WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete scenario %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no scenario named %q", name)
	}
	return nil
}
