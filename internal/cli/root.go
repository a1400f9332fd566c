package cli

import (
	"fmt"
	"strings"

	"casedesk/internal/format"

	"github.com/spf13/cobra"
)

type App struct {
	BaseURL    string
	Dir        string
	LogLevel   string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "casedesk",
		Short:        "casedesk case-management CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  casedesk

  # Select the active case (shortcut for: casedesk case set <case-id>)
  casedesk 1842

  # Attach a vehicle record to the active case
  casedesk vehicle add --db tx --ed 2019 --rec 88812

  # Objection text for two labels, rendered for reading
  casedesk objection text overbroad vague --request 3 --render
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive dashboard.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	// Flags default to empty; unset flags fall back to CASEDESK_* via config.Load.
	cmd.PersistentFlags().StringVar(&app.BaseURL, "base-url", "", "Backend origin (env CASEDESK_BASE_URL)")
	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "State dir (advanced: overrides the per-origin dir; env CASEDESK_DIR)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level: debug|info|warn|error (env CASEDESK_LOG_LEVEL)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("CASEDESK_FORMAT", "json"), "Output format (json|text)")

	cmd.AddCommand(newCaseCmd(app))
	cmd.AddCommand(newVehicleCmd(app))
	cmd.AddCommand(newTemplateCmd(app, templateObjection))
	cmd.AddCommand(newTemplateCmd(app, templateResponse))
	cmd.AddCommand(newAttorneyCmd(app))
	cmd.AddCommand(newDiscoveryCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
