package cli

import (
	"fmt"

	"casedesk/internal/docs"
	"casedesk/internal/tui"

	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var raw bool
	var render bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show on-demand reference documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"topics": docs.Topics()}})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `casedesk docs` to list topics)", topic))
			}

			switch {
			case raw:
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			case render:
				_, err := fmt.Fprintln(cmd.OutOrStdout(), tui.RenderMarkdown(body, 100))
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"topic": topic, "markdown": body}})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown")
	cmd.Flags().BoolVar(&render, "render", false, "Print rendered markdown for a terminal")
	return cmd
}
