package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/fiascohq/fiasco/backend/internal/model/profile"
	"github.com/fiascohq/fiasco/backend/internal/model/session"
)

// Postgres implements Store on a single table with one row per session.
// URLs and results are kept as JSONB; merges run inside a transaction with
// a row lock, so concurrent merges for the same id serialize on the
// database while different ids proceed independently.
type Postgres struct {
	db *sql.DB
}

// Connect opens a pooled connection and verifies it with a bounded ping.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, err
	}
	return db, nil
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates the session table when it does not exist yet.
func (p *Postgres) Migrate(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS profile_sessions (
  id           TEXT PRIMARY KEY,
  urls         JSONB NOT NULL DEFAULT '[]',
  results      JSONB NOT NULL DEFAULT '{}',
  last_updated TIMESTAMPTZ NOT NULL
);`
	_, err := p.db.ExecContext(ctx, q)
	return err
}

func (p *Postgres) GetOrCreate(ctx context.Context, id string) (string, error) {
	if id == "" {
		fresh := uuid.NewString()
		const q = `
INSERT INTO profile_sessions (id, urls, results, last_updated)
VALUES ($1, '[]', '{}', $2);`
		if _, err := p.db.ExecContext(ctx, q, fresh, time.Now().UTC()); err != nil {
			return "", fmt.Errorf("create session: %w", err)
		}
		return fresh, nil
	}

	var found string
	err := p.db.QueryRowContext(ctx, `SELECT id FROM profile_sessions WHERE id = $1;`, id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup session: %w", err)
	}
	return found, nil
}

func (p *Postgres) Merge(ctx context.Context, id string, urls []string, results map[string]profile.Analysis) (session.Session, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return session.Session{}, fmt.Errorf("begin merge: %w", err)
	}
	defer tx.Rollback()

	merged := session.Session{ID: id, Results: make(map[string]profile.Analysis)}

	var rawURLs, rawResults []byte
	err = tx.QueryRowContext(ctx,
		`SELECT urls, results FROM profile_sessions WHERE id = $1 FOR UPDATE;`, id,
	).Scan(&rawURLs, &rawResults)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// create-or-append: a merge against a new id creates the session
	case err != nil:
		return session.Session{}, fmt.Errorf("read session: %w", err)
	default:
		if err := json.Unmarshal(rawURLs, &merged.URLs); err != nil {
			return session.Session{}, fmt.Errorf("decode urls: %w", err)
		}
		if err := json.Unmarshal(rawResults, &merged.Results); err != nil {
			return session.Session{}, fmt.Errorf("decode results: %w", err)
		}
	}

	merged.URLs = append(merged.URLs, urls...)
	for url, analysis := range results {
		merged.Results[url] = analysis
	}
	merged.LastUpdated = time.Now().UTC()

	encodedURLs, err := json.Marshal(merged.URLs)
	if err != nil {
		return session.Session{}, fmt.Errorf("encode urls: %w", err)
	}
	encodedResults, err := json.Marshal(merged.Results)
	if err != nil {
		return session.Session{}, fmt.Errorf("encode results: %w", err)
	}

	const q = `
INSERT INTO profile_sessions (id, urls, results, last_updated)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
 urls = EXCLUDED.urls,
 results = EXCLUDED.results,
 last_updated = EXCLUDED.last_updated;`
	if _, err := tx.ExecContext(ctx, q, id, encodedURLs, encodedResults, merged.LastUpdated); err != nil {
		return session.Session{}, fmt.Errorf("write session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return session.Session{}, fmt.Errorf("commit merge: %w", err)
	}
	return merged, nil
}

func (p *Postgres) Get(ctx context.Context, id string) (session.Session, error) {
	const q = `SELECT urls, results, last_updated FROM profile_sessions WHERE id = $1;`

	out := session.Session{ID: id}
	var rawURLs, rawResults []byte
	err := p.db.QueryRowContext(ctx, q, id).Scan(&rawURLs, &rawResults, &out.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("read session: %w", err)
	}

	if err := json.Unmarshal(rawURLs, &out.URLs); err != nil {
		return session.Session{}, fmt.Errorf("decode urls: %w", err)
	}
	if err := json.Unmarshal(rawResults, &out.Results); err != nil {
		return session.Session{}, fmt.Errorf("decode results: %w", err)
	}
	if out.Results == nil {
		out.Results = make(map[string]profile.Analysis)
	}
	return out, nil
}

func (p *Postgres) Clear(ctx context.Context, id string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM profile_sessions WHERE id = $1;`, id)
	return err
}
