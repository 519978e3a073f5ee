package server

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perplexica/internal/config"
	"perplexica/internal/database"
	"perplexica/internal/providers"
	"perplexica/internal/version"
)

func newChatTestServer(t *testing.T) (*database.DB, http.Handler) {
	t.Helper()
	db, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "chats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := New(config.NewStore(nil), providers.NewRegistry(nil), version.Info{Version: "test"}, WithChatStore(db))
	return db, s.Handler()
}

func TestChatRoutesDisabledWithoutStore(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/chats", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAndListChats(t *testing.T) {
	_, h := newChatTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/chats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"chats":[]}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/chats", `{"chatId":"first","title":"First"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"chatId":"first"}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/chats",
		`{"title":"Second","focusMode":"writingAssistant","files":[{"name":"a.pdf","fileId":"f1"}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	secondID := created["chatId"]
	assert.Len(t, secondID, 36, "generated chat id should be a UUID")

	rec = do(t, h, http.MethodGet, "/api/chats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Chats []database.Chat `json:"chats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Chats, 2)
	assert.Equal(t, secondID, list.Chats[0].ID, "newest chat comes first")
	assert.Equal(t, "writingAssistant", list.Chats[0].FocusMode)
	assert.Equal(t, []database.File{{Name: "a.pdf", FileID: "f1"}}, list.Chats[0].Files)
	assert.Equal(t, "first", list.Chats[1].ID)
	assert.Equal(t, database.DefaultFocusMode, list.Chats[1].FocusMode)
}

func TestCreateChatErrors(t *testing.T) {
	_, h := newChatTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/chats", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/chats", `{"chatId":"dup","title":"x"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/chats", `{"chatId":"dup","title":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to create chat"}`, rec.Body.String())
}

func TestGetChatWithMessages(t *testing.T) {
	_, h := newChatTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/chats/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Chat not found"}`, rec.Body.String())

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/chats", `{"chatId":"c1","title":"Q"}`).Code)

	rec = do(t, h, http.MethodPost, "/api/chats/c1/messages", `{"content":"What is Go?","role":"user","messageId":"m1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/chats/c1/messages", `{"content":"A language.","role":"assistant","metadata":{"sources":[]}}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/chats/c1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Chat     database.Chat      `json:"chat"`
		Messages []database.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Q", resp.Chat.Title)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "m1", resp.Messages[0].MessageID)
	assert.Equal(t, database.RoleUser, resp.Messages[0].Role)
	assert.JSONEq(t, `{}`, string(resp.Messages[0].Metadata))
	assert.Equal(t, database.RoleAssistant, resp.Messages[1].Role)
	assert.JSONEq(t, `{"sources":[]}`, string(resp.Messages[1].Metadata))
}

func TestAddMessageErrors(t *testing.T) {
	_, h := newChatTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/chats", `{"chatId":"c1","title":"Q"}`).Code)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"unknown chat", "/api/chats/nope/messages", `{"content":"x","role":"user"}`, http.StatusNotFound, `{"error":"Chat not found"}`},
		{"bad json", "/api/chats/c1/messages", `{`, http.StatusBadRequest, `{"error":"Invalid request body"}`},
		{"bad role", "/api/chats/c1/messages", `{"content":"x","role":"system"}`, http.StatusBadRequest, `{"error":"Invalid message role"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestDeleteChat(t *testing.T) {
	db, h := newChatTestServer(t)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/chats", `{"chatId":"c1","title":"Q"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/chats/c1/messages", `{"content":"x","role":"user"}`).Code)

	rec := do(t, h, http.MethodDelete, "/api/chats/c1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Chat deleted successfully"}`, rec.Body.String())

	msgs, err := db.ChatMessages(context.Background(), "c1")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	rec = do(t, h, http.MethodDelete, "/api/chats/c1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Chat not found"}`, rec.Body.String())
}
