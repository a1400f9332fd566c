package cli

import (
	"context"
	"strconv"
	"strings"

	"casedesk/internal/model"

	"github.com/spf13/cobra"
)

func newDiscoveryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discovery",
		Short: "Discovery requests and documents",
	}
	cmd.AddCommand(newDiscoveryRequestCmd(app))
	cmd.AddCommand(newDiscoveryDocumentCmd(app))
	return cmd
}

func newDiscoveryRequestCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Discovery request text",
	}
	cmd.AddCommand(newDiscoveryRequestSaveCmd(app))
	cmd.AddCommand(newDiscoveryRequestDeleteCmd(app))
	return cmd
}

func newDiscoveryRequestSaveCmd(app *App) *cobra.Command {
	var r model.DiscoveryRequest

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save request and response text for one request number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(r.ID) == "" {
				return writeErr(cmd, errUsage("--id", "required"))
			}
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) (map[string]any, error) {
				rt.ctrl.SelectDiscoveryRequest(r.RequestNumber)
				if err := rt.ctrl.SaveDiscoveryRequestText(ctx, r); err != nil {
					return nil, err
				}
				return map[string]any{"request": r}, nil
			})
		},
	}

	cmd.Flags().StringVar(&r.ID, "id", "", "Discovery id")
	cmd.Flags().IntVar(&r.RequestNumber, "request-number", 0, "Request number")
	cmd.Flags().StringVar(&r.RequestText, "request-text", "", "Request text")
	cmd.Flags().StringVar(&r.ResponseText, "response-text", "", "Response text")
	_ = cmd.MarkFlagRequired("request-number")
	return cmd
}

func newDiscoveryRequestDeleteCmd(app *App) *cobra.Command {
	var id string
	var n int

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete one request from a discovery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) (map[string]any, error) {
				if err := rt.ctrl.DeleteDiscoveryRequest(ctx, id, n); err != nil {
					return nil, err
				}
				return map[string]any{"id": id, "request_number": n}, nil
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Discovery id")
	cmd.Flags().IntVar(&n, "request-number", 0, "Request number")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("request-number")
	return cmd
}

func newDiscoveryDocumentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "document",
		Short: "Discovery documents",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <document-id>",
		Short: "Delete a discovery document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) (map[string]any, error) {
				if err := rt.ctrl.DeleteDiscoveryDocument(ctx, args[0]); err != nil {
					return nil, err
				}
				return map[string]any{"deleted": args[0]}, nil
			})
		},
	})

	var cleaned string
	cleanedCmd := &cobra.Command{
		Use:   "cleaned <document-id>",
		Short: "Set the cleaned-up flag of a discovery document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseBool(strings.TrimSpace(cleaned))
			if err != nil {
				return writeErr(cmd, errUsage("--value", "want true or false"))
			}
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) (map[string]any, error) {
				if err := rt.ctrl.SetDiscoveryDocumentCleanedUp(ctx, args[0], v); err != nil {
					return nil, err
				}
				return map[string]any{"document": model.DiscoveryDocument{ID: args[0], CleanedUp: v}}, nil
			})
		},
	}
	cleanedCmd.Flags().StringVar(&cleaned, "value", "", "true|false")
	_ = cleanedCmd.MarkFlagRequired("value")
	cmd.AddCommand(cleanedCmd)

	var key, value string
	fieldCmd := &cobra.Command{
		Use:   "set-field <document-id>",
		Short: "Set one field on a discovery document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(key) == "" {
				return writeErr(cmd, errUsage("--key", "required"))
			}
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) (map[string]any, error) {
				if err := rt.ctrl.SetDiscoveryDocumentField(ctx, args[0], key, value); err != nil {
					return nil, err
				}
				return map[string]any{"id": args[0], "key": key, "value": value}, nil
			})
		},
	}
	fieldCmd.Flags().StringVar(&key, "key", "", "Field name")
	fieldCmd.Flags().StringVar(&value, "value", "", "Field value")
	cmd.AddCommand(fieldCmd)

	return cmd
}
