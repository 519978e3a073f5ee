package database

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// setupTestDB opens a migrated database in a temporary directory
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestCreateChatDefaults(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	fixed := time.Date(2024, 5, 1, 12, 30, 0, 123000000, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	id, err := db.CreateChat(ctx, Chat{Title: "What is Go?"})
	if err != nil {
		t.Fatalf("CreateChat() error = %v", err)
	}
	if len(id) != 36 {
		t.Errorf("CreateChat() id = %q, want a UUID", id)
	}

	chat, err := db.GetChat(ctx, id)
	if err != nil {
		t.Fatalf("GetChat() error = %v", err)
	}
	if chat.Title != "What is Go?" {
		t.Errorf("Title = %q, want %q", chat.Title, "What is Go?")
	}
	if chat.FocusMode != DefaultFocusMode {
		t.Errorf("FocusMode = %q, want %q", chat.FocusMode, DefaultFocusMode)
	}
	if chat.CreatedAt != "2024-05-01T12:30:00.123Z" {
		t.Errorf("CreatedAt = %q, want %q", chat.CreatedAt, "2024-05-01T12:30:00.123Z")
	}
	if chat.Files == nil || len(chat.Files) != 0 {
		t.Errorf("Files = %#v, want empty slice", chat.Files)
	}
}

func TestCreateChatWithIDAndFiles(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	files := []File{{Name: "report.pdf", FileID: "f1"}}
	id, err := db.CreateChat(ctx, Chat{ID: "chat-1", Title: "t", FocusMode: "academicSearch", Files: files})
	if err != nil {
		t.Fatalf("CreateChat() error = %v", err)
	}
	if id != "chat-1" {
		t.Errorf("CreateChat() id = %q, want %q", id, "chat-1")
	}

	chat, err := db.GetChat(ctx, id)
	if err != nil {
		t.Fatalf("GetChat() error = %v", err)
	}
	if chat.FocusMode != "academicSearch" {
		t.Errorf("FocusMode = %q, want %q", chat.FocusMode, "academicSearch")
	}
	if len(chat.Files) != 1 || chat.Files[0] != files[0] {
		t.Errorf("Files = %#v, want %#v", chat.Files, files)
	}

	if _, err := db.CreateChat(ctx, Chat{ID: "chat-1", Title: "dup"}); err == nil {
		t.Error("CreateChat() with duplicate id: want error, got nil")
	}
}

func TestListChatsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	chats, err := db.ListChats(ctx)
	if err != nil {
		t.Fatalf("ListChats() error = %v", err)
	}
	if chats == nil || len(chats) != 0 {
		t.Fatalf("ListChats() on empty db = %#v, want empty slice", chats)
	}

	for _, id := range []string{"a", "b", "c"} {
		if _, err := db.CreateChat(ctx, Chat{ID: id, Title: id}); err != nil {
			t.Fatalf("CreateChat(%s) error = %v", id, err)
		}
	}

	chats, err = db.ListChats(ctx)
	if err != nil {
		t.Fatalf("ListChats() error = %v", err)
	}
	var got []string
	for _, c := range chats {
		got = append(got, c.ID)
	}
	want := []string{"c", "b", "a"}
	if len(got) != len(want) {
		t.Fatalf("ListChats() ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListChats() ids = %v, want %v", got, want)
			break
		}
	}
}

func TestGetChatNotFound(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.GetChat(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetChat() error = %v, want ErrNotFound", err)
	}
}

func TestMessages(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.CreateChat(ctx, Chat{ID: "chat", Title: "t"}); err != nil {
		t.Fatalf("CreateChat() error = %v", err)
	}

	first, err := db.AddMessage(ctx, Message{ChatID: "chat", Content: "hello", Role: RoleUser})
	if err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	second, err := db.AddMessage(ctx, Message{
		ChatID:    "chat",
		Content:   "hi there",
		Role:      RoleAssistant,
		MessageID: "m2",
		Metadata:  json.RawMessage(`{"sources":[]}`),
	})
	if err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	if second <= first {
		t.Errorf("AddMessage() ids = %d, %d, want increasing", first, second)
	}

	msgs, err := db.ChatMessages(ctx, "chat")
	if err != nil {
		t.Fatalf("ChatMessages() error = %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("ChatMessages() returned %d messages, want 2", len(msgs))
	}
	if msgs[0].Content != "hello" || string(msgs[0].Metadata) != "{}" || msgs[0].MessageID == "" {
		t.Errorf("first message = %+v", msgs[0])
	}
	if msgs[1].MessageID != "m2" || string(msgs[1].Metadata) != `{"sources":[]}` {
		t.Errorf("second message = %+v", msgs[1])
	}
}

func TestAddMessageRejectsBadInput(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name string
		msg  Message
	}{
		{name: "unknown role", msg: Message{ChatID: "c", Content: "x", Role: "system"}},
		{name: "invalid metadata", msg: Message{ChatID: "c", Content: "x", Role: RoleUser, Metadata: json.RawMessage(`{`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := db.AddMessage(ctx, tt.msg); err == nil {
				t.Error("AddMessage() error = nil, want error")
			}
		})
	}
}

func TestDeleteChatRemovesMessages(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, id := range []string{"keep", "drop"} {
		if _, err := db.CreateChat(ctx, Chat{ID: id, Title: id}); err != nil {
			t.Fatalf("CreateChat(%s) error = %v", id, err)
		}
		if _, err := db.AddMessage(ctx, Message{ChatID: id, Content: id, Role: RoleUser}); err != nil {
			t.Fatalf("AddMessage(%s) error = %v", id, err)
		}
	}

	if err := db.DeleteChat(ctx, "drop"); err != nil {
		t.Fatalf("DeleteChat() error = %v", err)
	}
	if _, err := db.GetChat(ctx, "drop"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetChat() after delete error = %v, want ErrNotFound", err)
	}
	if msgs, _ := db.ChatMessages(ctx, "drop"); len(msgs) != 0 {
		t.Errorf("ChatMessages() after delete = %d messages, want 0", len(msgs))
	}
	if msgs, _ := db.ChatMessages(ctx, "keep"); len(msgs) != 1 {
		t.Errorf("ChatMessages(keep) = %d messages, want 1", len(msgs))
	}

	if err := db.DeleteChat(ctx, "drop"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteChat() twice error = %v, want ErrNotFound", err)
	}
}
