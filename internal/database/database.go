// Package database stores chat history in SQLite.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"perplexica/internal/logging"
	"perplexica/internal/migrations"
)

// ErrNotFound is returned when a chat does not exist
var ErrNotFound = errors.New("not found")

// DB wraps the chat history database
type DB struct {
	db *sql.DB
}

// Open opens the database at path, creating its directory if needed, and applies migrations
func Open(ctx context.Context, path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrations.Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logging.Info("Database initialized successfully at %s", path)
	return &DB{db: db}, nil
}

// Close closes the database
func (d *DB) Close() error {
	return d.db.Close()
}
