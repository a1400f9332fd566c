package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
)

func newAttorneyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attorney",
		Short: "Attorney directory",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "find <bar-number>",
		Short: "Look up an attorney by bar number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) (map[string]any, error) {
				a, err := rt.ctrl.LookupAttorney(ctx, args[0], nil)
				if err != nil {
					return nil, err
				}
				if a != nil {
					rt.rememberBarNumber(args[0])
				}
				return map[string]any{"attorney": a}, nil
			})
		},
	})
	return cmd
}

func (rt *runtime) rememberBarNumber(bar string) {
	st, err := rt.store.LoadTUIState()
	if err != nil {
		rt.logger.Warn("load tui state", slog.String("error", err.Error()))
		return
	}
	st.LastBarNumber = bar
	if err := rt.store.SaveTUIState(st); err != nil {
		rt.logger.Warn("save tui state", slog.String("error", err.Error()))
	}
}
