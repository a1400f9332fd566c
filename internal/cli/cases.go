package cli

import (
	"context"
	"log/slog"
	"strings"

	"casedesk/internal/controller"
	"casedesk/internal/model"

	"github.com/spf13/cobra"
)

func newCaseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "case",
		Short: "Active case (session-scoped)",
	}
	cmd.AddCommand(newCaseShowCmd(app))
	cmd.AddCommand(newCaseSetCmd(app))
	cmd.AddCommand(newCaseClearCmd(app))
	cmd.AddCommand(newCaseItemsCmd(app))
	cmd.AddCommand(newCaseItemCmd(app))
	return cmd
}

func newCaseShowCmd(app *App) *cobra.Command {
	var withStorage bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the active case from local state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) (map[string]any, error) {
				snap := rt.state.Snapshot()
				out := map[string]any{
					"set":                      snap.Case.IsSet(),
					"discovery_request_number": snap.DiscoveryRequestNumber,
					"origin":                   rt.client.BaseURL(),
				}
				if withStorage {
					all, err := rt.storage.All(ctx)
					if err != nil {
						return nil, err
					}
					out["storage"] = all
				}
				return out, nil
			})
		},
	}

	cmd.Flags().BoolVar(&withStorage, "storage", false, "Include every persisted session key")
	return cmd
}

func newCaseSetCmd(app *App) *cobra.Command {
	var causeNumber string
	var description string

	cmd := &cobra.Command{
		Use:   "set <case-id>",
		Short: "Select the active case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if id == "" {
				return writeErr(cmd, errUsage("<case-id>", "empty (use: casedesk case clear)"))
			}
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) (map[string]any, error) {
				err := rt.ctrl.SetCase(ctx, controller.Target{
					controller.AttrID:          id,
					controller.AttrCauseNumber: causeNumber,
					controller.AttrDescription: description,
				})
				if err != nil {
					return nil, err
				}
				rt.touchRecentCase(id)
				return nil, nil
			})
		},
	}

	cmd.Flags().StringVar(&causeNumber, "cause-number", "", "Cause number to show for the case")
	cmd.Flags().StringVar(&description, "description", "", "Case description to show for the case")
	return cmd
}

func newCaseClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the active case",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) (map[string]any, error) {
				return nil, rt.ctrl.SetCase(ctx, controller.Target{controller.AttrID: ""})
			})
		},
	}
}

func newCaseItemsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "items",
		Short: "Print the case items page URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) (map[string]any, error) {
				return nil, rt.ctrl.ShowCaseItems(ctx)
			})
		},
	}
}

func completeCategory(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, c := range model.KnownCategories() {
		if strings.HasPrefix(c, strings.ToUpper(toComplete)) {
			out = append(out, c)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// itemFlags are the public-data record coordinates shared by item commands.
type itemFlags struct {
	db  string
	ed  string
	rec string
}

func (f *itemFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.db, "db", "", "Public-data database (required)")
	cmd.Flags().StringVar(&f.ed, "ed", "", "Public-data edition (required)")
	cmd.Flags().StringVar(&f.rec, "rec", "", "Public-data record (required)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("ed")
	_ = cmd.MarkFlagRequired("rec")
}

func (f *itemFlags) target() controller.Target {
	return controller.Target{
		controller.AttrDB:  strings.TrimSpace(f.db),
		controller.AttrED:  strings.TrimSpace(f.ed),
		controller.AttrRec: strings.TrimSpace(f.rec),
	}
}

func (f *itemFlags) key() string {
	t := f.target()
	return model.ItemKey(t[controller.AttrDB], t[controller.AttrED], t[controller.AttrRec])
}

func newCaseItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Attach, detach, or update public-data items on the active case",
	}
	cmd.AddCommand(newCaseItemMutateCmd(app, "add", "Attach an item to the active case"))
	cmd.AddCommand(newCaseItemMutateCmd(app, "del", "Detach an item from the active case"))
	cmd.AddCommand(newCaseItemUpdateCmd(app))
	return cmd
}

func newCaseItemMutateCmd(app *App, use, short string) *cobra.Command {
	var f itemFlags
	var category string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			category = strings.TrimSpace(category)
			if category == "" {
				return writeErr(cmd, errUsage("--category", "required"))
			}
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) (map[string]any, error) {
				var err error
				if use == "add" {
					err = rt.ctrl.AddCaseItem(ctx, category, f.target())
				} else {
					err = rt.ctrl.DeleteCaseItem(ctx, category, f.target())
				}
				if err != nil {
					return nil, err
				}
				return map[string]any{"key": f.key(), "category": category}, nil
			})
		},
	}

	f.bind(cmd)
	cmd.Flags().StringVar(&category, "category", "", "Item category (e.g. "+model.CategoryRealEstate+")")
	_ = cmd.RegisterFlagCompletionFunc("category", completeCategory)
	return cmd
}

func newCaseItemUpdateCmd(app *App) *cobra.Command {
	var f itemFlags
	var category string
	var op string
	var description string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Include (--op add) or exclude (--op del) an item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) (map[string]any, error) {
				t := f.target()
				t[controller.AttrCategory] = strings.TrimSpace(category)
				t[controller.AttrOp] = strings.TrimSpace(op)
				t[controller.AttrDescription] = description
				if err := rt.ctrl.UpdateCaseItems(ctx, t); err != nil {
					return nil, err
				}
				return map[string]any{"key": f.key(), "op": strings.ToLower(t[controller.AttrOp])}, nil
			})
		},
	}

	f.bind(cmd)
	cmd.Flags().StringVar(&category, "category", "", "Item category")
	_ = cmd.RegisterFlagCompletionFunc("category", completeCategory)
	cmd.Flags().StringVar(&op, "op", "", "Operation: add|del (required)")
	cmd.Flags().StringVar(&description, "description", "", "Description stored with the item")
	_ = cmd.MarkFlagRequired("op")
	return cmd
}

func newVehicleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vehicle",
		Short: "Attach or detach vehicle records on the active case",
	}
	for _, use := range []string{"add", "del"} {
		use := use
		var f itemFlags
		sub := &cobra.Command{
			Use:   use,
			Short: map[string]string{"add": "Attach a vehicle", "del": "Detach a vehicle"}[use],
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) (map[string]any, error) {
					var err error
					if use == "add" {
						err = rt.ctrl.AddVehicleToCase(ctx, f.target())
					} else {
						err = rt.ctrl.DeleteVehicleFromCase(ctx, f.target())
					}
					if err != nil {
						return nil, err
					}
					return map[string]any{"key": f.key(), "category": model.CategoryVehicle}, nil
				})
			},
		}
		f.bind(sub)
		cmd.AddCommand(sub)
	}
	return cmd
}

// touchRecentCase records id in the dashboard's recent list. Failures only log.
func (rt *runtime) touchRecentCase(id string) {
	st, err := rt.store.LoadTUIState()
	if err != nil {
		rt.logger.Warn("load tui state", slog.String("error", err.Error()))
		return
	}
	st.TouchCase(id)
	if err := rt.store.SaveTUIState(st); err != nil {
		rt.logger.Warn("save tui state", slog.String("error", err.Error()))
	}
}
