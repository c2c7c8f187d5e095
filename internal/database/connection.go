package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. DB_TYPE selects the
// backend: "sqlite" (default, file at DATABASE_PATH or data/wanokuni.db)
// or "postgres" (DSN from DATABASE_URL).
func Connect() error {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	switch dbType {
	case "sqlite":
		dbPath := os.Getenv("DATABASE_PATH")
		if dbPath == "" {
			dbPath = filepath.Join("data", "wanokuni.db")
		}
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}

		db, err := sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %w", err)
		}

		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		DB = db

	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL is not set")
		}
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		DB = db

	default:
		return fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}

	return initializeSchema()
}

// ConnectSQLite opens the database at an explicit path, bypassing the
// environment. Used by tests.
func ConnectSQLite(path string) error {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	DB = db
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		err := DB.Close()
		DB = nil
		return err
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	// Curriculum tables. List-valued columns (meanings, readings,
	// dependency ids) are stored as JSON text.
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS radicals (
			id INTEGER PRIMARY KEY,
			level INTEGER NOT NULL,
			character TEXT NOT NULL,
			meanings TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create radicals table: %w", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS kanji (
			id INTEGER PRIMARY KEY,
			level INTEGER NOT NULL,
			character TEXT NOT NULL,
			meanings TEXT NOT NULL,
			on_readings TEXT NOT NULL,
			kun_readings TEXT NOT NULL,
			primary_on_reading TEXT NOT NULL DEFAULT '',
			primary_kun_reading TEXT NOT NULL DEFAULT '',
			component_radical_ids TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create kanji table: %w", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS vocabulary (
			id INTEGER PRIMARY KEY,
			level INTEGER NOT NULL,
			characters TEXT NOT NULL,
			meanings TEXT NOT NULL,
			readings TEXT NOT NULL,
			component_kanji_ids TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create vocabulary table: %w", err)
	}

	// Progress records, one per (item, question). next_review_at is
	// epoch milliseconds to match the engine's clock; NULL while the
	// item is a pending lesson or burned.
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS progress (
			item_type TEXT NOT NULL,
			item_id INTEGER NOT NULL,
			question_type TEXT NOT NULL,
			srs_stage INTEGER NOT NULL DEFAULT -1,
			next_review_at BIGINT,
			incorrect_count INTEGER NOT NULL DEFAULT 0,
			correct_streak INTEGER NOT NULL DEFAULT 0,
			lesson_completed BOOLEAN NOT NULL DEFAULT FALSE,
			PRIMARY KEY (item_type, item_id, question_type)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create progress table: %w", err)
	}

	// Single-row account state: the learner's level and the chat bound
	// for reminders.
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS account_state (
			id INTEGER PRIMARY KEY,
			current_level INTEGER NOT NULL DEFAULT 1,
			chat_id BIGINT NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create account_state table: %w", err)
	}

	return nil
}
