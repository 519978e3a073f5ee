// Package logging provides unified logging infrastructure for the backend
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config captures options for the process logger
type Config struct {
	Level   string    // "debug", "info", "warn", "error"; defaults to info
	Output  io.Writer // defaults to os.Stdout
	Service string    // attached to every entry; defaults to "perplexica"
}

var (
	mu   sync.RWMutex
	base = newLogger(Config{})
	file *os.File
)

func newLogger(cfg Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
			level = parsed
		}
	}

	writer := cfg.Output
	if writer == nil {
		writer = os.Stdout
	}

	service := cfg.Service
	if service == "" {
		service = "perplexica"
	}

	return zerolog.New(writer).Level(level).With().
		Timestamp().
		Str("service", service).
		Logger()
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

// Configure replaces the process logger
func Configure(cfg Config) {
	l := newLogger(cfg)
	mu.Lock()
	base = l
	mu.Unlock()
}

// Initialize sets up logging to stdout and to a file in logDir
func Initialize(logDir string, cfg Config) error {
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "perplexica.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) //nolint:gosec // path built from operator flag
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	cfg.Output = io.MultiWriter(out, f)

	mu.Lock()
	prev := file
	file = f
	base = newLogger(cfg)
	mu.Unlock()

	if prev != nil {
		_ = prev.Close()
	}

	Info("Logging initialized: %s", logPath)
	return nil
}

// Close closes the log file, if any
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

// Base returns the process logger
func Base() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// WithComponent returns a child logger annotated with the component name
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str("component", component).Logger()
}

// Info logs an info message
func Info(format string, v ...interface{}) {
	l := Base()
	l.Info().Msgf(format, v...)
}

// Warning logs a warning message
func Warning(format string, v ...interface{}) {
	l := Base()
	l.Warn().Msgf(format, v...)
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	l := Base()
	l.Error().Msgf(format, v...)
}

// Debug logs a debug message, dropped unless the level is debug
func Debug(format string, v ...interface{}) {
	l := Base()
	l.Debug().Msgf(format, v...)
}
