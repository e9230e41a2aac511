package cli

import (
	"github.com/spf13/cobra"

	"github.com/surveyforge/surveyd/internal/sheet"
	"github.com/surveyforge/surveyd/internal/survey"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Database      string
	SchemaOverlay string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print all stored submissions as JSON",
		Long: `Read every submission from the row store and print the JSON array the
retrieve endpoint would serve.

Example:
  surveyd export --db ./surveyd.db
  surveyd export --db ./surveyd.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.SchemaOverlay, "schema", "", "path to CUE schema overlay")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	def, err := loadDefinition(opts.SchemaOverlay)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load table definition", err)
	}

	formatter.VerboseLog("opening row store at %s", opts.Database)
	store, err := sheet.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open row store", err)
	}
	defer store.Close()

	svc := survey.NewService(store, def, nil)
	subs, err := svc.Retrieve(cmd.Context(), survey.ActionGetAll)
	if err != nil {
		_ = formatter.Error(err.Error())
		return WrapExitError(ExitFailure, "retrieve failed", err)
	}

	formatter.VerboseLog("exporting %d submissions", len(subs))
	return formatter.Success(subs)
}
