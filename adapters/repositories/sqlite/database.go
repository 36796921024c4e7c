package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ZanzyTHEbar/spendr-go/internal"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pocketbase/dbx"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Options controls how the ledger database is opened.
type Options struct {
	BusyTimeoutMS int
}

// DSN builds the go-sqlite3 connection string for path.
// Foreign keys are enforced and write transactions take the database lock up front.
func DSN(path string, opts Options) string {
	busy := opts.BusyTimeoutMS
	if busy <= 0 {
		busy = 5000
	}
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_busy_timeout", strconv.Itoa(busy))
	params.Set("_journal_mode", "WAL")
	params.Set("_txlock", "immediate")
	return path + "?" + params.Encode()
}

// Database owns the dbx handle and hands out the unit of work.
type Database struct {
	db  *dbx.DB
	uow *UnitOfWork
}

// Open creates the parent directory, applies pending migrations and opens the database at path.
func Open(path string, opts Options) (*Database, error) {
	logger := internal.GetLogger()

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := DSN(path, opts)
	if err := RunMigrations(dsn); err != nil {
		return nil, err
	}

	db, err := dbx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.DB().Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Debug(internal.ComponentStorage, "Opened ledger database at %s", path)

	return &Database{db: db, uow: NewUnitOfWork(db)}, nil
}

// UnitOfWork returns the transactional entry point over every repository.
func (d *Database) UnitOfWork() *UnitOfWork {
	return d.uow
}

// DB exposes the underlying dbx handle.
func (d *Database) DB() *dbx.DB {
	return d.db
}

// Close closes the underlying connection pool.
func (d *Database) Close() error {
	return d.db.Close()
}

// RunMigrations applies the embedded schema migrations on a dedicated connection.
func RunMigrations(dsn string) error {
	migrateDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := migratesqlite.WithInstance(migrateDB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
