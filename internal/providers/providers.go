// Package providers reports which chat and embedding models are usable
// with a given configuration.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"perplexica/internal/cache"
	"perplexica/internal/config"
	"perplexica/internal/logging"
	"perplexica/internal/metrics"
	"perplexica/internal/telemetry"
)

// Model describes one model offered by a provider
type Model struct {
	DisplayName string `json:"displayName"`
}

// ModelSet maps a model key to its description
type ModelSet map[string]Model

// ProviderModels maps a provider name to its models
type ProviderModels map[string]ModelSet

// Providers is the full set of usable chat and embedding providers
type Providers struct {
	Chat      ProviderModels `json:"chatModelProviders"`
	Embedding ProviderModels `json:"embeddingModelProviders"`
}

// ollamaCacheTTL bounds how stale a discovered Ollama model list can be
const ollamaCacheTTL = 30 * time.Second

type loader func(ctx context.Context, cfg *config.Config) (ModelSet, error)

// Registry resolves providers for a configuration
type Registry struct {
	client *http.Client
	ollama *cache.Cache[ModelSet] // keyed by endpoint
	group  singleflight.Group
	log    zerolog.Logger
}

// NewRegistry creates a registry. A nil client gets a 5 second timeout client.
func NewRegistry(client *http.Client) *Registry {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Registry{
		client: client,
		ollama: cache.New[ModelSet](ollamaCacheTTL),
		log:    logging.WithComponent("providers"),
	}
}

func (r *Registry) chatLoaders() map[string]loader {
	return map[string]loader{
		OpenAI:    staticLoader(openAIChatModels, (*config.Config).GetOpenAIAPIKey),
		Groq:      staticLoader(groqChatModels, (*config.Config).GetGroqAPIKey),
		Ollama:    r.loadOllamaModels,
		Anthropic: staticLoader(anthropicChatModels, (*config.Config).GetAnthropicAPIKey),
		Gemini:    staticLoader(geminiChatModels, (*config.Config).GetGeminiAPIKey),
	}
}

func (r *Registry) embeddingLoaders() map[string]loader {
	return map[string]loader{
		OpenAI: staticLoader(openAIEmbeddingModels, (*config.Config).GetOpenAIAPIKey),
		Local:  staticLoader(localEmbeddingModels, nil),
		Ollama: r.loadOllamaModels,
		Gemini: staticLoader(geminiEmbeddingModels, (*config.Config).GetGeminiAPIKey),
	}
}

// Invalidate drops cached discovery results so the next lookup queries providers again
func (r *Registry) Invalidate() {
	r.ollama.Clear()
}

// Available resolves chat and embedding providers concurrently
func (r *Registry) Available(ctx context.Context, cfg *config.Config) (Providers, error) {
	ctx, span := telemetry.StartSpan(ctx, "providers.Available")
	defer span.End()

	var out Providers
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		chat, err := r.ChatProviders(gctx, cfg)
		out.Chat = chat
		return err
	})
	g.Go(func() error {
		embedding, err := r.EmbeddingProviders(gctx, cfg)
		out.Embedding = embedding
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return Providers{}, err
	}
	return out, nil
}

// ChatProviders returns the chat providers with at least one model.
// custom_openai is always listed, with no models.
func (r *Registry) ChatProviders(ctx context.Context, cfg *config.Config) (ProviderModels, error) {
	models, err := r.collect(ctx, cfg, r.chatLoaders())
	if err != nil {
		return nil, err
	}
	models[CustomOpenAI] = ModelSet{}
	return models, nil
}

// EmbeddingProviders returns the embedding providers with at least one model
func (r *Registry) EmbeddingProviders(ctx context.Context, cfg *config.Config) (ProviderModels, error) {
	return r.collect(ctx, cfg, r.embeddingLoaders())
}

func (r *Registry) collect(ctx context.Context, cfg *config.Config, loaders map[string]loader) (ProviderModels, error) {
	out := make(ProviderModels, len(loaders))
	for name, load := range loaders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		models, err := load(ctx, cfg)
		if err != nil {
			metrics.ProviderDiscoveryErrorsTotal.WithLabelValues(name).Inc()
			r.log.Error().Err(err).Str("provider", name).Msg("Error loading models")
			continue
		}
		if len(models) > 0 {
			out[name] = models
		}
	}
	return out, nil
}

// staticLoader returns a fixed catalogue when key reports a non-empty credential.
// A nil key means the catalogue needs no credential.
func staticLoader(models ModelSet, key func(*config.Config) string) loader {
	return func(_ context.Context, cfg *config.Config) (ModelSet, error) {
		if key != nil && key(cfg) == "" {
			return nil, nil
		}
		return models.clone(), nil
	}
}

func (m ModelSet) clone() ModelSet {
	out := make(ModelSet, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type ollamaTagsResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

func (r *Registry) loadOllamaModels(ctx context.Context, cfg *config.Config) (ModelSet, error) {
	endpoint := strings.TrimRight(cfg.GetOllamaAPIURL(), "/")
	if endpoint == "" {
		return nil, nil
	}
	if models, ok := r.ollama.Get(endpoint); ok {
		return models.clone(), nil
	}

	// Chat and embedding discovery run concurrently; share one request per endpoint.
	v, err, _ := r.group.Do(endpoint, func() (interface{}, error) {
		if models, ok := r.ollama.Get(endpoint); ok {
			return models, nil
		}
		models, err := r.fetchOllamaModels(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		r.ollama.Set(endpoint, models)
		return models, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(ModelSet).clone(), nil
}

func (r *Registry) fetchOllamaModels(ctx context.Context, endpoint string) (ModelSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query ollama: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Cleanup, error not critical

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var data ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode ollama response: %w", err)
	}

	models := make(ModelSet, len(data.Models))
	for _, m := range data.Models {
		key := strings.TrimSpace(m.Model)
		if key == "" {
			key = strings.TrimSpace(m.Name)
		}
		if key == "" {
			continue
		}
		models[key] = Model{DisplayName: m.Name}
	}
	return models, nil
}
