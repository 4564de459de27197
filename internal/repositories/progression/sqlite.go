package progression

import (
	"context"
	"database/sql"
	stderrors "errors"
	"path/filepath"
	"strings"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/clock"
)

const schema = `CREATE TABLE IF NOT EXISTS progression_records (
	profile_id TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteConfig holds the configuration for the SQLite repository
type SQLiteConfig struct {
	DB    *sql.DB
	Clock clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *SQLiteConfig) Validate() error {
	if c.DB == nil {
		return errors.InvalidArgument("database is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

// SQLiteRepository keeps records in a single table
type SQLiteRepository struct {
	db    *sql.DB
	clock clock.Clock
}

// OpenSQLite opens the database file at path and prepares the schema
func OpenSQLite(ctx context.Context, path string, clk clock.Clock) (*SQLiteRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.InvalidArgument("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to open sqlite database")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to ping sqlite database")
	}

	repo, err := NewSQLite(ctx, &SQLiteConfig{DB: db, Clock: clk})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// NewSQLite wraps an open database and prepares the schema
func NewSQLite(ctx context.Context, cfg *SQLiteConfig) (*SQLiteRepository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	if _, err := cfg.DB.ExecContext(ctx, schema); err != nil {
		return nil, errors.Wrap(err, "failed to create progression schema")
	}

	return &SQLiteRepository{db: cfg.DB, clock: cfg.Clock}, nil
}

// Ensure SQLiteRepository implements Repository
var _ Repository = (*SQLiteRepository)(nil)

// Close closes the database handle
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Get reads a profile's record
func (r *SQLiteRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if strings.TrimSpace(input.ProfileID) == "" {
		return nil, errors.InvalidArgument(errProfileIDEmpty)
	}

	var data []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM progression_records WHERE profile_id = ?`, input.ProfileID,
	).Scan(&data)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundf("no progression record for profile %s", input.ProfileID)
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read progression record")
	}

	return &GetOutput{Data: data}, nil
}

// Put upserts a profile's record
func (r *SQLiteRepository) Put(ctx context.Context, input *PutInput) (*PutOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if strings.TrimSpace(input.ProfileID) == "" {
		return nil, errors.InvalidArgument(errProfileIDEmpty)
	}
	if len(input.Data) == 0 {
		return nil, errors.InvalidArgument(errDataEmpty)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO progression_records (profile_id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(profile_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		input.ProfileID, input.Data, r.clock.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to store progression record")
	}

	return &PutOutput{}, nil
}

// Delete removes a profile's record
func (r *SQLiteRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if strings.TrimSpace(input.ProfileID) == "" {
		return nil, errors.InvalidArgument(errProfileIDEmpty)
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM progression_records WHERE profile_id = ?`, input.ProfileID)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to delete progression record")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "failed to count deleted records")
	}

	return &DeleteOutput{Existed: n > 0}, nil
}
