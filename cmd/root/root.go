// Package root contains the root command for the application
package root

import (
	"context"

	"fjacquet/receipt-processor/internal/config"
	"fjacquet/receipt-processor/internal/container"
	"fjacquet/receipt-processor/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// AppConfig holds the configuration loaded by PersistentPreRun
	AppConfig *config.Config

	// AppContainer holds the dependency container built by PersistentPreRun
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "receipt-processor",
		Short: "A CLI tool to categorize, validate and export receipt expenses.",
		Long: `receipt-processor turns extracted receipt data into categorized, validated
expense records ready for accounting export. Records are loaded from JSON
files or extracted from raw receipt text with the Gemini model.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to receipt-processor!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Failed to load configuration: %v", err)
			}
			if LogLevel != "" {
				cfg.Log.Level = LogLevel
			}
			if LogFormat != "" {
				cfg.Log.Format = LogFormat
			}
			AppConfig = cfg

			// Context() is nil when hooks run outside Execute
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			AppContainer, err = container.NewContainer(ctx, cfg)
			if err != nil {
				Log.Fatalf("Failed to initialize application container: %v", err)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.Warnf("Failed to close container: %v", err)
			}
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// LogLevel and LogFormat override the configured logging when set
	LogLevel  string
	LogFormat string
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Override configured log level (debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&LogFormat, "log-format", "", "Override configured log format (text, json)")
}

// GetConfig returns the configuration loaded by PersistentPreRun, or nil
// before any command ran.
func GetConfig() *config.Config {
	return AppConfig
}

// GetContainer returns the dependency container built by PersistentPreRun,
// or nil before any command ran.
func GetContainer() *container.Container {
	return AppContainer
}

// GetLogrusAdapter returns the container's structured logger when the
// container exists, falling back to an adapter around the shared logger.
func GetLogrusAdapter() logging.Logger {
	if AppContainer != nil {
		return AppContainer.GetLogger()
	}
	return logging.NewLogrusAdapterFromLogger(Log)
}
