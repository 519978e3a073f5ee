// Package config holds the runtime settings of the backend.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Config holds all configuration settings for the application.
// A Config is never modified after New returns; Update produces a new value.
type Config struct {
	port         int
	host         string
	keepAlive    string
	databasePath string
	searxngURL   string

	openaiAPIKey    string
	anthropicAPIKey string
	groqAPIKey      string
	geminiAPIKey    string
	ollamaAPIURL    string
}

// Option overrides a default setting at construction time
type Option func(*Config)

// WithPort sets the listen port
func WithPort(port int) Option {
	return func(c *Config) { c.port = port }
}

// WithHost sets the listen host. An empty host listens on all interfaces.
func WithHost(host string) Option {
	return func(c *Config) { c.host = host }
}

// WithOpenAIAPIKey sets the OpenAI API key
func WithOpenAIAPIKey(key string) Option {
	return func(c *Config) { c.openaiAPIKey = key }
}

// WithAnthropicAPIKey sets the Anthropic API key
func WithAnthropicAPIKey(key string) Option {
	return func(c *Config) { c.anthropicAPIKey = key }
}

// WithGroqAPIKey sets the Groq API key
func WithGroqAPIKey(key string) Option {
	return func(c *Config) { c.groqAPIKey = key }
}

// WithGeminiAPIKey sets the Gemini API key
func WithGeminiAPIKey(key string) Option {
	return func(c *Config) { c.geminiAPIKey = key }
}

// WithOllamaAPIURL sets the base URL of the Ollama API
func WithOllamaAPIURL(url string) Option {
	return func(c *Config) { c.ollamaAPIURL = url }
}

// WithKeepAlive sets the Ollama keep-alive duration string
func WithKeepAlive(keepAlive string) Option {
	return func(c *Config) { c.keepAlive = keepAlive }
}

// WithDatabasePath sets the SQLite file that stores chat history
func WithDatabasePath(path string) Option {
	return func(c *Config) { c.databasePath = path }
}

// WithSearxngAPIURL sets the base URL of the SearxNG instance used for discovery
func WithSearxngAPIURL(url string) Option {
	return func(c *Config) { c.searxngURL = url }
}

// defaultConfig returns the configuration used when no options are given
func defaultConfig() *Config {
	return &Config{
		port:         DefaultPort,
		keepAlive:    DefaultKeepAlive,
		databasePath: DefaultDatabasePath,
	}
}

// New builds a Config from the defaults and the given overrides
func New(opts ...Option) *Config {
	config := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(config)
		}
	}
	return config
}

// GetPort returns the configured listen port
func (c *Config) GetPort() int {
	return c.port
}

// GetHost returns the configured listen host
func (c *Config) GetHost() string {
	return c.host
}

// GetListenAddr returns the host:port pair the server binds to
func (c *Config) GetListenAddr() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// GetKeepAlive returns the Ollama keep-alive duration
func (c *Config) GetKeepAlive() string {
	return c.keepAlive
}

// GetDatabasePath returns the chat history database file
func (c *Config) GetDatabasePath() string {
	return c.databasePath
}

// GetSearxngAPIURL returns the SearxNG base URL
func (c *Config) GetSearxngAPIURL() string {
	return c.searxngURL
}

// GetOpenAIAPIKey returns the OpenAI API key
func (c *Config) GetOpenAIAPIKey() string {
	return c.openaiAPIKey
}

// GetAnthropicAPIKey returns the Anthropic API key
func (c *Config) GetAnthropicAPIKey() string {
	return c.anthropicAPIKey
}

// GetGroqAPIKey returns the Groq API key
func (c *Config) GetGroqAPIKey() string {
	return c.groqAPIKey
}

// GetGeminiAPIKey returns the Gemini API key
func (c *Config) GetGeminiAPIKey() string {
	return c.geminiAPIKey
}

// GetOllamaAPIURL returns the Ollama API base URL
func (c *Config) GetOllamaAPIURL() string {
	return c.ollamaAPIURL
}

// Update is a partial change to the provider settings.
// A nil field keeps the current value; a non-nil field replaces it, including with "".
type Update struct {
	OpenAIAPIKey    *string
	AnthropicAPIKey *string
	GroqAPIKey      *string
	GeminiAPIKey    *string
	OllamaAPIURL    *string
}

// Update returns a copy of c with u applied. The listen address is not affected.
func (c *Config) Update(u Update) *Config {
	next := *c
	apply(&next.openaiAPIKey, u.OpenAIAPIKey)
	apply(&next.anthropicAPIKey, u.AnthropicAPIKey)
	apply(&next.groqAPIKey, u.GroqAPIKey)
	apply(&next.geminiAPIKey, u.GeminiAPIKey)
	apply(&next.ollamaAPIURL, u.OllamaAPIURL)
	return &next
}

func apply(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// String returns a string representation of the configuration with secrets masked
func (c *Config) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("ListenAddr: %s", c.GetListenAddr()))
	parts = append(parts, fmt.Sprintf("OllamaAPIURL: %s", c.ollamaAPIURL))
	parts = append(parts, fmt.Sprintf("KeepAlive: %s", c.keepAlive))
	parts = append(parts, fmt.Sprintf("DatabasePath: %s", c.databasePath))
	parts = append(parts, fmt.Sprintf("SearxngAPIURL: %s", c.searxngURL))
	parts = append(parts, fmt.Sprintf("OpenAIAPIKey: %s", mask(c.openaiAPIKey)))
	parts = append(parts, fmt.Sprintf("AnthropicAPIKey: %s", mask(c.anthropicAPIKey)))
	parts = append(parts, fmt.Sprintf("GroqAPIKey: %s", mask(c.groqAPIKey)))
	parts = append(parts, fmt.Sprintf("GeminiAPIKey: %s", mask(c.geminiAPIKey)))
	return strings.Join(parts, ", ")
}

func mask(secret string) string {
	if secret == "" {
		return "<unset>"
	}
	return "<redacted>"
}
