package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/msomdec/daybook/internal/domain"
	"github.com/msomdec/daybook/internal/repository/sqlite/migrations"
)

var _ domain.Database = (*DB)(nil)

// DB wraps a SQLite database handle and exposes the repositories backed
// by it.
type DB struct {
	sqlDB   *sql.DB
	users   *UserRepository
	entries *EntryRepository
}

// New opens a SQLite database at the given path and configures it for
// use. It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := sqlDB.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Enable foreign key enforcement.
	if _, err := sqlDB.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// Set a reasonable connection pool for SQLite.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(context.Background()); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := &DB{sqlDB: sqlDB}
	db.users = &UserRepository{db: sqlDB}
	db.entries = &EntryRepository{db: sqlDB}
	return db, nil
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.sqlDB)
}

// Close closes the underlying database handle.
func (db *DB) Close() error {
	return db.sqlDB.Close()
}

// Users returns the user repository.
func (db *DB) Users() *UserRepository {
	return db.users
}

// Entries returns the diary entry repository.
func (db *DB) Entries() *EntryRepository {
	return db.entries
}
