// Package userstore keeps the remote user table in a SQL database. SQLite and
// Postgres (through pgx) are supported.
package userstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"github.com/Veraticus/smartspend/internal/model"
)

// Dialect selects driver-specific SQL.
type Dialect string

// Supported dialects.
const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

type queries struct {
	create string
	rows   string
	insert string
	update string
}

var dialectQueries = map[Dialect]queries{
	SQLite: {
		create: `CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			password TEXT NOT NULL,
			data TEXT NOT NULL DEFAULT '{}',
			last_updated DATETIME NOT NULL
		)`,
		rows:   `SELECT id, username, password, data, last_updated FROM users ORDER BY id`,
		insert: `INSERT INTO users (username, password, data, last_updated) VALUES (?, ?, ?, ?)`,
		update: `UPDATE users SET data = ?, last_updated = ? WHERE id = ?`,
	},
	Postgres: {
		create: `CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL,
			password TEXT NOT NULL,
			data TEXT NOT NULL DEFAULT '{}',
			last_updated TIMESTAMPTZ NOT NULL
		)`,
		rows:   `SELECT id, username, password, data, last_updated FROM users ORDER BY id`,
		insert: `INSERT INTO users (username, password, data, last_updated) VALUES ($1, $2, $3, $4)`,
		update: `UPDATE users SET data = $1, last_updated = $2 WHERE id = $3`,
	},
}

// Store is a user table in a SQL database.
type Store struct {
	db      *sql.DB
	q       queries
	dialect Dialect
	// ids maps row positions from the last Rows call to primary keys.
	ids []int64
}

// OpenSQLite opens (creating if needed) a SQLite user table at path.
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return newStore(ctx, db, SQLite)
}

// OpenPostgres connects to the database named by dsn through pgx.
func OpenPostgres(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open db connection: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return newStore(ctx, db, Postgres)
}

func newStore(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	q, ok := dialectQueries[dialect]
	if !ok {
		_ = db.Close()
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not connect to the database: %w", err)
	}
	if _, err := db.ExecContext(ctx, q.create); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create users table: %w", err)
	}

	return &Store{db: db, q: q, dialect: dialect}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dialect reports which SQL dialect the store speaks.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Rows returns every user in insertion order.
func (s *Store) Rows(ctx context.Context) ([]model.UserRow, error) {
	rows, err := s.db.QueryContext(ctx, s.q.rows)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var (
		out []model.UserRow
		ids []int64
	)
	for rows.Next() {
		var (
			id  int64
			row model.UserRow
		)
		if err := rows.Scan(&id, &row.Username, &row.Password, &row.Data, &row.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		out = append(out, row)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.ids = ids
	return out, nil
}

// Append adds a user row.
func (s *Store) Append(ctx context.Context, row model.UserRow) error {
	if _, err := s.db.ExecContext(ctx, s.q.insert, row.Username, row.Password, row.Data, row.LastUpdated.UTC()); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateData replaces the blob of the row at index, as returned by the most
// recent Rows call.
func (s *Store) UpdateData(ctx context.Context, index int, data string, at time.Time) error {
	if index < 0 || index >= len(s.ids) {
		return fmt.Errorf("row %d out of range", index)
	}
	if _, err := s.db.ExecContext(ctx, s.q.update, data, at.UTC(), s.ids[index]); err != nil {
		return fmt.Errorf("failed to update user data: %w", err)
	}
	return nil
}
