package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"

	"perplexica/internal/config"
	"perplexica/internal/metrics"
	"perplexica/internal/providers"
	"perplexica/internal/telemetry"
)

// ModelInfo is one entry of a provider's model list in the config response
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// ConfigResponse is the body of GET /api/config
type ConfigResponse struct {
	ChatModelProviders      map[string][]ModelInfo `json:"chatModelProviders"`
	EmbeddingModelProviders map[string][]ModelInfo `json:"embeddingModelProviders"`
	OpenAIAPIKey            string                 `json:"openaiApiKey"`
	OllamaAPIURL            string                 `json:"ollamaApiUrl"`
	AnthropicAPIKey         string                 `json:"anthropicApiKey"`
	GroqAPIKey              string                 `json:"groqApiKey"`
	GeminiAPIKey            string                 `json:"geminiApiKey"`
	KeepAlive               string                 `json:"keepAlive"`
}

// UpdateConfigRequest is the body of POST /api/config.
// Omitted or null fields keep their current value; an empty body changes nothing.
type UpdateConfigRequest struct {
	OpenAIAPIKey    *string `json:"openaiApiKey"`
	OllamaAPIURL    *string `json:"ollamaApiUrl"`
	AnthropicAPIKey *string `json:"anthropicApiKey"`
	GroqAPIKey      *string `json:"groqApiKey"`
	GeminiAPIKey    *string `json:"geminiApiKey"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.version)
}

// handleGetConfig returns the provider settings and the models they unlock
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.store.Load()

	available, err := s.registry.Available(r.Context(), cfg)
	if err != nil {
		s.log.Error().Err(err).Msg("Error getting config")
		writeError(w, http.StatusInternalServerError, "Failed to get config")
		return
	}

	writeJSON(w, http.StatusOK, ConfigResponse{
		ChatModelProviders:      toModelInfo(available.Chat),
		EmbeddingModelProviders: toModelInfo(available.Embedding),
		OpenAIAPIKey:            cfg.GetOpenAIAPIKey(),
		OllamaAPIURL:            cfg.GetOllamaAPIURL(),
		AnthropicAPIKey:         cfg.GetAnthropicAPIKey(),
		GroqAPIKey:              cfg.GetGroqAPIKey(),
		GeminiAPIKey:            cfg.GetGeminiAPIKey(),
		KeepAlive:               cfg.GetKeepAlive(),
	})
}

// handleUpdateConfig applies new provider settings
func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	_, span := telemetry.StartSpan(r.Context(), "config.Update")
	defer span.End()

	var req UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		span.RecordError(err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.store.Update(config.Update{
		OpenAIAPIKey:    req.OpenAIAPIKey,
		AnthropicAPIKey: req.AnthropicAPIKey,
		GroqAPIKey:      req.GroqAPIKey,
		GeminiAPIKey:    req.GeminiAPIKey,
		OllamaAPIURL:    req.OllamaAPIURL,
	})
	s.registry.Invalidate()
	metrics.ConfigUpdatesTotal.Inc()
	s.log.Info().Msg("Config updated")

	writeJSON(w, http.StatusOK, map[string]string{"message": "Config updated"})
}

// handleGetModels returns every usable model grouped by provider
func (s *Server) handleGetModels(w http.ResponseWriter, r *http.Request) {
	available, err := s.registry.Available(r.Context(), s.store.Load())
	if err != nil {
		s.log.Error().Err(err).Msg("Error getting models")
		writeError(w, http.StatusInternalServerError, "Failed to get models")
		return
	}
	writeJSON(w, http.StatusOK, available)
}

func toModelInfo(in providers.ProviderModels) map[string][]ModelInfo {
	out := make(map[string][]ModelInfo, len(in))
	for provider, models := range in {
		list := make([]ModelInfo, 0, len(models))
		for name, m := range models {
			list = append(list, ModelInfo{Name: name, DisplayName: m.DisplayName})
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		out[provider] = list
	}
	return out
}
