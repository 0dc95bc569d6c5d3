package repopg

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jrsteele09/go-event-portal/internal/errors"
	"github.com/jrsteele09/go-event-portal/users"
	_ "github.com/lib/pq"
)

var _ users.Repo = (*Repo)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL DEFAULT '',
	name       TEXT NOT NULL DEFAULT '',
	metadata   JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Repo stores profiles in the hosted Postgres database
type Repo struct {
	db *sql.DB
}

// Open connects to Postgres and ensures the profiles table exists
func Open(ctx context.Context, databaseURL string) (*Repo, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("[repopg Open] open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("[repopg Open] ping: %w", err)
	}
	r := New(db)
	if err := r.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("[repopg Migrate] %w", err)
	}
	return nil
}

func (r *Repo) Close() error {
	return r.db.Close()
}

func (r *Repo) Get(ctx context.Context, id string) (*users.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, metadata, created_at, updated_at FROM profiles WHERE id = $1`, id)
	return scanUser(row)
}

func (r *Repo) Upsert(ctx context.Context, user *users.User) error {
	if user.ID == "" {
		return errors.Wrapf(errors.ErrInvalidRequest, "user id is required")
	}
	// A nil metadata map keeps whatever is stored
	var metadata []byte
	if user.Metadata != nil {
		var err error
		if metadata, err = json.Marshal(user.Metadata); err != nil {
			return fmt.Errorf("[repopg Upsert] encode metadata: %w", err)
		}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, email, name, metadata)
		VALUES ($1, $2, $3, COALESCE($4::jsonb, '{}'::jsonb))
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			metadata = COALESCE($4::jsonb, profiles.metadata),
			updated_at = now()`,
		user.ID, user.Email, user.Name, nullableJSON(metadata))
	if err != nil {
		return fmt.Errorf("[repopg Upsert] user %s: %w", user.ID, err)
	}
	return nil
}

func (r *Repo) MergeMetadata(ctx context.Context, id string, patch map[string]any) (*users.User, error) {
	encoded, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("[repopg MergeMetadata] encode patch: %w", err)
	}
	row := r.db.QueryRowContext(ctx, `
		UPDATE profiles SET metadata = metadata || $2::jsonb, updated_at = now()
		WHERE id = $1
		RETURNING id, email, name, metadata, created_at, updated_at`,
		id, string(encoded))
	return scanUser(row)
}

func scanUser(row *sql.Row) (*users.User, error) {
	var (
		u        users.User
		metadata []byte
	)
	err := row.Scan(&u.ID, &u.Email, &u.Name, &metadata, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[repopg] scan profile: %w", err)
	}
	if err := json.Unmarshal(metadata, &u.Metadata); err != nil {
		return nil, fmt.Errorf("[repopg] decode metadata: %w", err)
	}
	return &u, nil
}

func nullableJSON(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
