package cli

import (
	"context"
	"strings"

	"casedesk/internal/controller"
	"casedesk/internal/view"

	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Bindable view events",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every event a view can bind to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, app, func(_ context.Context, rt *runtime) (map[string]any, error) {
				cfg := view.DefaultConfig()
				evs := rt.ctrl.Events()
				out := make([]map[string]string, 0, len(evs))
				for _, ev := range evs {
					out = append(out, map[string]string{
						"event":   string(ev),
						"binding": cfg.EventAttr("click") + `="controller.` + string(ev) + `"`,
					})
				}
				return map[string]any{"events": out}, nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "fire <event> [data-attr=value...]",
		Short: "Fire an event as if a bound element was clicked",
		Example: strings.TrimSpace(`
  casedesk events fire setCase data-id=1842 data-cause-number=2019-CI-0042
  casedesk events fire updateCaseItems data-db=tx data-ed=2019 data-rec=7 data-op=add data-category=PROPERTY:REAL
`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseTarget(args[1:])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) (map[string]any, error) {
				models := view.Models{Data: rt.state, Controller: rt.ctrl}
				ev := controller.Event(args[0])
				if err := view.DefaultConfig().Invoke(ctx, ev, t, models); err != nil {
					return nil, err
				}
				return map[string]any{"event": ev, "target": t}, nil
			})
		},
	})

	return cmd
}

// parseTarget reads attr=value pairs. Attribute names without a "data-" prefix get one.
func parseTarget(pairs []string) (controller.Target, error) {
	t := controller.Target{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, errUsage(p, "want attr=value")
		}
		if !strings.HasPrefix(k, "data-") {
			k = "data-" + k
		}
		t[k] = v
	}
	return t, nil
}
