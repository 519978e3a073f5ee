package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// createdAtLayout matches JavaScript's Date.toISOString
const createdAtLayout = "2006-01-02T15:04:05.000Z"

// now is replaced in tests
var now = time.Now

// ListChats returns all chats, newest first
func (d *DB) ListChats(ctx context.Context) ([]Chat, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, title, created_at, focus_mode, files
		FROM chats
		ORDER BY rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Cleanup, error not critical

	chats := []Chat{}
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chats: %w", err)
	}
	return chats, nil
}

// GetChat returns a single chat or ErrNotFound
func (d *DB) GetChat(ctx context.Context, id string) (Chat, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, title, created_at, focus_mode, files
		FROM chats
		WHERE id = ?
	`, id)
	chat, err := scanChat(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Chat{}, ErrNotFound
	}
	return chat, err
}

// CreateChat inserts a chat and returns its ID.
// An empty ID gets a new UUID, an empty focus mode gets DefaultFocusMode.
func (d *DB) CreateChat(ctx context.Context, chat Chat) (string, error) {
	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}
	if chat.FocusMode == "" {
		chat.FocusMode = DefaultFocusMode
	}
	if chat.CreatedAt == "" {
		chat.CreatedAt = now().UTC().Format(createdAtLayout)
	}
	files := chat.Files
	if files == nil {
		files = []File{}
	}
	filesJSON, err := json.Marshal(files)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat files: %w", err)
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO chats (id, title, created_at, focus_mode, files)
		VALUES (?, ?, ?, ?, ?)
	`, chat.ID, chat.Title, chat.CreatedAt, chat.FocusMode, string(filesJSON))
	if err != nil {
		return "", fmt.Errorf("failed to create chat: %w", err)
	}
	return chat.ID, nil
}

// DeleteChat removes a chat and all of its messages, or returns ErrNotFound
func (d *DB) DeleteChat(ctx context.Context, id string) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	res, err := tx.ExecContext(ctx, `DELETE FROM chats WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE chat_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete chat messages: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chat deletion: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanChat(s scanner) (Chat, error) {
	var chat Chat
	var files string
	if err := s.Scan(&chat.ID, &chat.Title, &chat.CreatedAt, &chat.FocusMode, &files); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Chat{}, err
		}
		return Chat{}, fmt.Errorf("failed to scan chat: %w", err)
	}
	if err := json.Unmarshal([]byte(files), &chat.Files); err != nil {
		return Chat{}, fmt.Errorf("failed to decode files of chat %s: %w", chat.ID, err)
	}
	if chat.Files == nil {
		chat.Files = []File{}
	}
	return chat, nil
}
