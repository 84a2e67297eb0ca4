package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/jchantrell/wmset/internal/config"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	cfgFile string

	outputDir  string
	dbPath     string
	formats    []string
	workers    int
	logLevel   string
	logFormat  string
	noProgress bool
)

var rootCmd = &cobra.Command{
	Use:   "wmset",
	Short: "Final Fantasy VIII worldmap data extraction tool",
	Long: `wmset decodes the worldmap set container (wmsetXX.obj) into its models,
textures, dialog, location names, draw points and event scripts.

Decoded entities can be exported as OBJ, glTF, PNG, text and JSON files
and stored in a queryable SQLite database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cmd.Flags().Changed("output") {
			cfg.Output = outputDir
		}
		if cmd.Flags().Changed("database") {
			cfg.Database = dbPath
		}
		if cmd.Flags().Changed("formats") {
			cfg.Formats = formats
		}
		if cmd.Flags().Changed("workers") {
			cfg.Workers = workers
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		var level slog.Level
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		var handler slog.Handler
		if cfg.LogFormat == "json" {
			handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})
		} else {
			handler = tint.NewHandler(os.Stderr, &tint.Options{
				Level: level,
			})
		}

		logger := slog.New(handler)
		slog.SetDefault(logger)

		slog.Debug("Configuration",
			"output", cfg.Output,
			"database", cfg.Database,
			"formats", cfg.Formats,
			"script_sections", cfg.ScriptSections,
			"workers", cfg.Workers,
			"vertex_scale", cfg.VertexScale,
			"texture_scale", cfg.TextureScale,
			"log_level", cfg.LogLevel,
			"log_format", cfg.LogFormat)

		return nil
	},
}

// showProgress reports whether progress bars should be drawn over log output
func showProgress() bool {
	return !(noProgress || cfg.LogFormat == "json" || cfg.LogLevel == "debug")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is wmset.yaml in $HOME or pwd)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "output directory (default is the cache directory keyed by file hash)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "database", "d", "", "SQLite database file path")
	rootCmd.PersistentFlags().StringSliceVar(&formats, "formats", nil, "comma-separated list of output formats (obj, glb, png, txt, json)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "number of parallel decode workers (default is the CPU count)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress bar")
}
