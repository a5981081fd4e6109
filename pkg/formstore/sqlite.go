package formstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// SQLiteConfig holds the settings of the SQLite backend.
type SQLiteConfig struct {
	Path        string        `env:"PATH" envDefault:"formrules.db"`
	BusyTimeout time.Duration `env:"BUSY_TIMEOUT" envDefault:"5s"`
}

const sqliteSchema = `CREATE TABLE IF NOT EXISTS forms (
	name       TEXT PRIMARY KEY,
	definition TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore keeps each definition as a JSON document in a single table.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens or creates the database at cfg.Path and prepares the schema.
func OpenSQLite(ctx context.Context, cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, errors.Join(ErrStoreUnavailable, errors.New("sqlite path is empty"))
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		cfg.Path, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	// single writer; readers queue behind it
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, def Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	def.UpdatedAt = s.now().UTC()

	blob, err := json.Marshal(def)
	if err != nil {
		return errors.Join(ErrEncodeDefinition, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO forms (name, definition, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET definition = excluded.definition, updated_at = excluded.updated_at`,
		def.Name, string(blob), def.UpdatedAt.UnixMilli())
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, name string) (Definition, error) {
	if !ValidName(name) {
		return Definition{}, ErrNotFound
	}
	var blob string
	err := s.db.QueryRowContext(ctx, `SELECT definition FROM forms WHERE name = ?`, name).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return Definition{}, ErrNotFound
	}
	if err != nil {
		return Definition{}, errors.Join(ErrStoreUnavailable, err)
	}

	var def Definition
	if err := json.Unmarshal([]byte(blob), &def); err != nil {
		return Definition{}, errors.Join(ErrDecodeDefinition, err)
	}
	return def, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	if !ValidName(name) {
		return ErrNotFound
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM forms WHERE name = ?`, name)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM forms ORDER BY name`)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Join(ErrStoreUnavailable, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return names, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
