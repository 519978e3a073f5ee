package database

import "encoding/json"

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultFocusMode is used when a chat is created without one
const DefaultFocusMode = "default"

// File is a document attached to a chat
type File struct {
	Name   string `json:"name"`
	FileID string `json:"fileId"`
}

// Chat is a saved conversation
type Chat struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"createdAt"`
	FocusMode string `json:"focusMode"`
	Files     []File `json:"files"`
}

// Message is one turn of a chat
type Message struct {
	ID        int64           `json:"id"`
	Content   string          `json:"content"`
	ChatID    string          `json:"chatId"`
	MessageID string          `json:"messageId"`
	Role      string          `json:"role"`
	Metadata  json.RawMessage `json:"metadata"`
}
