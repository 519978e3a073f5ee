package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"perplexica/internal/database"
)

// ChatStore persists chats and their messages
type ChatStore interface {
	ListChats(ctx context.Context) ([]database.Chat, error)
	GetChat(ctx context.Context, id string) (database.Chat, error)
	ChatMessages(ctx context.Context, chatID string) ([]database.Message, error)
	CreateChat(ctx context.Context, chat database.Chat) (string, error)
	DeleteChat(ctx context.Context, id string) error
	AddMessage(ctx context.Context, m database.Message) (int64, error)
}

// CreateChatRequest is the body of POST /api/chats
type CreateChatRequest struct {
	ChatID    string          `json:"chatId"`
	Title     string          `json:"title"`
	FocusMode string          `json:"focusMode"`
	Files     []database.File `json:"files"`
}

// AddMessageRequest is the body of POST /api/chats/{id}/messages
type AddMessageRequest struct {
	MessageID string          `json:"messageId"`
	Content   string          `json:"content"`
	Role      string          `json:"role"`
	Metadata  json.RawMessage `json:"metadata"`
}

func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := s.chats.ListChats(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("Error in getting chats")
		writeError(w, http.StatusInternalServerError, "Failed to get chats")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"chats": chats})
}

// handleGetChat returns a chat together with its messages
func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	chat, err := s.chats.GetChat(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("chat_id", id).Msg("Error in getting chat")
		writeError(w, http.StatusInternalServerError, "Failed to get chat")
		return
	}

	messages, err := s.chats.ChatMessages(r.Context(), id)
	if err != nil {
		s.log.Error().Err(err).Str("chat_id", id).Msg("Error in getting chat messages")
		writeError(w, http.StatusInternalServerError, "Failed to get chat")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"chat": chat, "messages": messages})
}

func (s *Server) handleDeleteChat(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := s.chats.DeleteChat(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("chat_id", id).Msg("Error in deleting chat")
		writeError(w, http.StatusInternalServerError, "Failed to delete chat")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat deleted successfully"})
}

func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	var req CreateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := s.chats.CreateChat(r.Context(), database.Chat{
		ID:        req.ChatID,
		Title:     req.Title,
		FocusMode: req.FocusMode,
		Files:     req.Files,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("Error in creating chat")
		writeError(w, http.StatusInternalServerError, "Failed to create chat")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"chatId": id})
}

// handleAddMessage appends a message to an existing chat
func (s *Server) handleAddMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AddMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Role != database.RoleUser && req.Role != database.RoleAssistant {
		writeError(w, http.StatusBadRequest, "Invalid message role")
		return
	}
	if len(req.Metadata) > 0 && !json.Valid(req.Metadata) {
		writeError(w, http.StatusBadRequest, "Invalid message metadata")
		return
	}

	if _, err := s.chats.GetChat(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Chat not found")
			return
		}
		s.log.Error().Err(err).Str("chat_id", id).Msg("Error in adding message")
		writeError(w, http.StatusInternalServerError, "Failed to add message")
		return
	}

	msgID, err := s.chats.AddMessage(r.Context(), database.Message{
		ChatID:    id,
		MessageID: req.MessageID,
		Content:   req.Content,
		Role:      req.Role,
		Metadata:  req.Metadata,
	})
	if err != nil {
		s.log.Error().Err(err).Str("chat_id", id).Msg("Error in adding message")
		writeError(w, http.StatusInternalServerError, "Failed to add message")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": msgID})
}
