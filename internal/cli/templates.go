package cli

import (
	"context"
	"strings"

	"casedesk/internal/model"
	"casedesk/internal/tui"

	"github.com/spf13/cobra"
)

// templateFamily binds one template family (objections or responses) to its controller calls.
type templateFamily struct {
	kind    model.TemplateKind
	short   string
	list    func(ctx context.Context, rt *runtime, discoveryType string) ([]model.TemplateEntry, error)
	text    func(ctx context.Context, rt *runtime, labels []string, n int) (textResult, error)
	destroy func(ctx context.Context, rt *runtime, id string) error
}

type textResult struct {
	message string
	entries []model.TemplateEntry
	local   bool
}

var templateObjection = templateFamily{
	kind:  model.TemplateObjection,
	short: "Objection templates",
	list: func(ctx context.Context, rt *runtime, discoveryType string) ([]model.TemplateEntry, error) {
		return rt.ctrl.ObjectionOptions(ctx, discoveryType, nil)
	},
	text: func(ctx context.Context, rt *runtime, labels []string, n int) (textResult, error) {
		var res textResult
		lk, err := rt.ctrl.ObjectionText(ctx, labels, n, nil)
		if err != nil {
			return res, err
		}
		res.message, res.entries, res.local = lk.Message, lk.Entries, lk.Local
		return res, nil
	},
	destroy: func(ctx context.Context, rt *runtime, id string) error {
		return rt.ctrl.DeleteObjectionTemplate(ctx, id)
	},
}

var templateResponse = templateFamily{
	kind:  model.TemplateResponse,
	short: "Response templates",
	list: func(ctx context.Context, rt *runtime, discoveryType string) ([]model.TemplateEntry, error) {
		return rt.ctrl.ResponseOptions(ctx, discoveryType, nil)
	},
	text: func(ctx context.Context, rt *runtime, labels []string, n int) (textResult, error) {
		var res textResult
		lk, err := rt.ctrl.ResponseText(ctx, labels, n, nil)
		if err != nil {
			return res, err
		}
		res.message, res.entries, res.local = lk.Message, lk.Entries, lk.Local
		return res, nil
	},
	destroy: func(ctx context.Context, rt *runtime, id string) error {
		return rt.ctrl.DeleteResponseTemplate(ctx, id)
	},
}

func newTemplateCmd(app *App, fam templateFamily) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(fam.kind),
		Short: fam.short,
	}
	cmd.AddCommand(newTemplateListCmd(app, fam))
	cmd.AddCommand(newTemplateTextCmd(app, fam))
	cmd.AddCommand(newTemplateDeleteCmd(app, fam))
	return cmd
}

func newTemplateListCmd(app *App, fam templateFamily) *cobra.Command {
	var discoveryType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + string(fam.kind) + " options for a discovery type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) (map[string]any, error) {
				entries, err := fam.list(ctx, rt, strings.TrimSpace(discoveryType))
				if err != nil {
					return nil, err
				}
				return map[string]any{"type": discoveryType, "entries": entries}, nil
			})
		},
	}

	cmd.Flags().StringVar(&discoveryType, "type", "", "Discovery type (e.g. interrogatories)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newTemplateTextCmd(app *App, fam templateFamily) *cobra.Command {
	var requestNumber int
	var render bool
	var width int

	cmd := &cobra.Command{
		Use:   "text [label...]",
		Short: "Fetch " + string(fam.kind) + " text for the given labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) (map[string]any, error) {
				if cmd.Flags().Changed("request") {
					rt.ctrl.SelectDiscoveryRequest(requestNumber)
				}
				res, err := fam.text(ctx, rt, args, requestNumber)
				if err != nil {
					return nil, err
				}
				out := map[string]any{
					"message":        res.message,
					"entries":        res.entries,
					"request_number": requestNumber,
				}
				if res.local {
					out["local"] = true
				}
				if render && len(res.entries) > 0 {
					out["rendered"] = tui.RenderMarkdownPlain(tui.TemplateMarkdown(res.entries), width)
				}
				return out, nil
			})
		},
	}

	cmd.Flags().IntVar(&requestNumber, "request", 0, "Discovery request number the text is for")
	cmd.Flags().BoolVar(&render, "render", false, "Include a rendered plain-text version of the entries")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for --render")
	return cmd
}

func newTemplateDeleteCmd(app *App, fam templateFamily) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <template-id>",
		Short: "Delete a " + string(fam.kind) + " template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, app, func(ctx context.Context, rt *runtime) (map[string]any, error) {
				if err := fam.destroy(ctx, rt, args[0]); err != nil {
					return nil, err
				}
				return map[string]any{"deleted": args[0]}, nil
			})
		},
	}
}
