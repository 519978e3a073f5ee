package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"perplexica/internal/config"
	"perplexica/internal/logging"
	"perplexica/internal/version"
)

// settingsFlags are the command-line overrides for config.New
type settingsFlags struct {
	port            int
	host            string
	keepAlive       string
	openaiAPIKey    string
	anthropicAPIKey string
	groqAPIKey      string
	geminiAPIKey    string
	ollamaAPIURL    string
	databasePath    string
	searxngURL      string
}

func (f *settingsFlags) register(fs *pflag.FlagSet) {
	fs.IntVarP(&f.port, "port", "p", config.DefaultPort, "Port to listen on")
	fs.StringVar(&f.host, "host", "", "Host to listen on (empty for all interfaces)")
	fs.StringVar(&f.keepAlive, "keep-alive", config.DefaultKeepAlive, "Ollama keep-alive duration")
	fs.StringVar(&f.openaiAPIKey, "openai-api-key", "", "OpenAI API key")
	fs.StringVar(&f.anthropicAPIKey, "anthropic-api-key", "", "Anthropic API key")
	fs.StringVar(&f.groqAPIKey, "groq-api-key", "", "Groq API key")
	fs.StringVar(&f.geminiAPIKey, "gemini-api-key", "", "Gemini API key")
	fs.StringVar(&f.ollamaAPIURL, "ollama-url", "", "Ollama API base URL")
	fs.StringVar(&f.databasePath, "db-path", config.DefaultDatabasePath, "SQLite file for chat history")
	fs.StringVar(&f.searxngURL, "searxng-url", "", "SearxNG base URL used by the discover feed")
}

// build turns the flags the user actually set into a Config; unset flags keep the defaults
func (f *settingsFlags) build(fs *pflag.FlagSet) *config.Config {
	var opts []config.Option
	if fs.Changed("port") {
		opts = append(opts, config.WithPort(f.port))
	}
	if fs.Changed("host") {
		opts = append(opts, config.WithHost(f.host))
	}
	if fs.Changed("keep-alive") {
		opts = append(opts, config.WithKeepAlive(f.keepAlive))
	}
	if fs.Changed("openai-api-key") {
		opts = append(opts, config.WithOpenAIAPIKey(f.openaiAPIKey))
	}
	if fs.Changed("anthropic-api-key") {
		opts = append(opts, config.WithAnthropicAPIKey(f.anthropicAPIKey))
	}
	if fs.Changed("groq-api-key") {
		opts = append(opts, config.WithGroqAPIKey(f.groqAPIKey))
	}
	if fs.Changed("gemini-api-key") {
		opts = append(opts, config.WithGeminiAPIKey(f.geminiAPIKey))
	}
	if fs.Changed("ollama-url") {
		opts = append(opts, config.WithOllamaAPIURL(f.ollamaAPIURL))
	}
	if fs.Changed("db-path") {
		opts = append(opts, config.WithDatabasePath(f.databasePath))
	}
	if fs.Changed("searxng-url") {
		opts = append(opts, config.WithSearxngAPIURL(f.searxngURL))
	}
	return config.New(opts...)
}

func newRootCommand() *cobra.Command {
	var logLevel string
	var logDir string

	rootCmd := &cobra.Command{
		Use:           "perplexica",
		Short:         "AI search backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logCfg := logging.Config{Level: logLevel, Output: cmd.ErrOrStderr()}
			if logDir == "" {
				logging.Configure(logCfg)
				return nil
			}
			return logging.Initialize(logDir, logCfg)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Also write logs to perplexica.log in this directory")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newConfigCommand() *cobra.Command {
	var flags settingsFlags

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := flags.build(cmd.Flags())
			_, err := fmt.Fprintln(cmd.OutOrStdout(), cfg.String())
			return err
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), version.Get().String())
			return err
		},
	}
}
