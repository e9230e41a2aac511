package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/surveyforge/surveyd/internal/httpapi"
	"github.com/surveyforge/surveyd/internal/schema"
	"github.com/surveyforge/surveyd/internal/sheet"
	"github.com/surveyforge/surveyd/internal/survey"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	ConfigPath    string
	Listen        string
	Database      string
	SchemaOverlay string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the submission backend",
		Long: `Start the HTTP backend for survey submissions.

The server opens (creating if needed) a SQLite row store and exposes the
ingest and retrieve endpoints. Flags override config file values.

Example:
  surveyd serve --db ./surveyd.db --listen :8080
  surveyd serve --config ./surveyd.yaml --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.Flags().StringVar(&opts.Listen, "listen", "", "HTTP listen address")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.SchemaOverlay, "schema", "", "path to CUE schema overlay")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	cfg := DefaultConfig()
	if opts.ConfigPath != "" {
		loaded, err := LoadConfig(opts.ConfigPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
	}
	if opts.Listen != "" {
		cfg.Listen = opts.Listen
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	if opts.SchemaOverlay != "" {
		cfg.SchemaOverlay = opts.SchemaOverlay
	}

	def, err := loadDefinition(cfg.SchemaOverlay)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load table definition", err)
	}
	slog.Info("table definition loaded", "table", def.Table, "columns", len(def.Headers))

	slog.Info("opening row store", "path", cfg.Database)
	store, err := sheet.Open(cfg.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open row store", err)
	}
	defer store.Close()

	svc := survey.NewService(store, def, nil)
	server := httpapi.NewServer(svc, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx, cfg.Listen); err != nil {
		return WrapExitError(ExitFailure, "http server failed", err)
	}

	slog.Info("server stopped")
	return nil
}

// loadDefinition loads the table definition, with an optional overlay.
func loadDefinition(overlay string) (*schema.Definition, error) {
	if overlay != "" {
		return schema.LoadWithOverlay(overlay)
	}
	return schema.Load()
}
