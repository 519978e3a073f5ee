package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ChatMessages returns the messages of a chat in insertion order
func (d *DB) ChatMessages(ctx context.Context, chatID string) ([]Message, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, content, chat_id, message_id, role, metadata
		FROM messages
		WHERE chat_id = ?
		ORDER BY id
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Cleanup, error not critical

	messages := []Message{}
	for rows.Next() {
		var m Message
		var metadata string
		if err := rows.Scan(&m.ID, &m.Content, &m.ChatID, &m.MessageID, &m.Role, &metadata); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Metadata = json.RawMessage(metadata)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return messages, nil
}

// AddMessage appends a message to a chat and returns its row ID.
// An empty MessageID gets a new UUID and empty metadata is stored as {}.
func (d *DB) AddMessage(ctx context.Context, m Message) (int64, error) {
	if m.Role != RoleUser && m.Role != RoleAssistant {
		return 0, fmt.Errorf("invalid message role %q", m.Role)
	}
	if m.MessageID == "" {
		m.MessageID = uuid.New().String()
	}
	metadata := "{}"
	if len(m.Metadata) > 0 {
		if !json.Valid(m.Metadata) {
			return 0, fmt.Errorf("message metadata is not valid JSON")
		}
		metadata = string(m.Metadata)
	}

	res, err := d.db.ExecContext(ctx, `
		INSERT INTO messages (content, chat_id, message_id, role, metadata)
		VALUES (?, ?, ?, ?, ?)
	`, m.Content, m.ChatID, m.MessageID, m.Role, metadata)
	if err != nil {
		return 0, fmt.Errorf("failed to create message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read message id: %w", err)
	}
	return id, nil
}
