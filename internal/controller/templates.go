package controller

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"casedesk/internal/model"
	"casedesk/internal/remote"
)

// TextLookup is the outcome of a template text lookup.
// Local reports that no backend call was made (empty label list).
type TextLookup struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Entries []model.TemplateEntry `json:"entries"`
	Local   bool                  `json:"local,omitempty"`
}

func templatePath(kind model.TemplateKind, tail string) string {
	return "/" + string(kind) + "/" + tail
}

// replyField is where the backend puts template rows for kind. Older backends used
// "objections" for both families, so it is the fallback.
func replyField(kind model.TemplateKind) string {
	if kind == model.TemplateResponse {
		return "responses"
	}
	return "objections"
}

func decodeEntries(env *remote.Envelope, kind model.TemplateKind) ([]model.TemplateEntry, error) {
	var out []model.TemplateEntry
	ok, err := env.Field(replyField(kind), &out)
	if err != nil {
		return nil, err
	}
	if !ok && kind != model.TemplateObjection {
		if _, err := env.Field("objections", &out); err != nil {
			return nil, err
		}
	}
	if out == nil {
		out = []model.TemplateEntry{}
	}
	return out, nil
}

func (c *Controller) deleteTemplate(ctx context.Context, kind model.TemplateKind, id string) error {
	_, err := c.post(ctx, templatePath(kind, "template/delete"), url.Values{"id": {id}})
	return err
}

func (c *Controller) templateOptions(ctx context.Context, kind model.TemplateKind, discoveryType string, cb func([]model.TemplateEntry)) ([]model.TemplateEntry, error) {
	env, err := c.post(ctx, templatePath(kind, "list"), url.Values{"type": {discoveryType}})
	if err != nil {
		return nil, err
	}
	entries, err := decodeEntries(env, kind)
	if err != nil {
		return nil, fmt.Errorf("%s list: %w", kind, err)
	}
	if cb != nil {
		cb(entries)
	}
	return entries, nil
}

func (c *Controller) templateText(ctx context.Context, kind model.TemplateKind, labels []string, requestNumber int, cb func(int, []model.TemplateEntry)) (*TextLookup, error) {
	if len(labels) == 0 {
		return &TextLookup{
			Success: true,
			Message: "No " + string(kind) + "s selected.",
			Entries: []model.TemplateEntry{},
			Local:   true,
		}, nil
	}

	// Both families post their labels under "objections[]".
	form := url.Values{}
	for _, l := range labels {
		form.Add(remote.ListKey("objections"), l)
	}
	env, err := c.post(ctx, templatePath(kind, "text"), form)
	if err != nil {
		return nil, err
	}
	entries, err := decodeEntries(env, kind)
	if err != nil {
		return nil, fmt.Errorf("%s text: %w", kind, err)
	}
	if cb != nil {
		cb(requestNumber, entries)
	}
	return &TextLookup{Success: true, Message: env.Message, Entries: entries}, nil
}

func (c *Controller) DeleteObjectionTemplate(ctx context.Context, id string) error {
	return c.deleteTemplate(ctx, model.TemplateObjection, id)
}

func (c *Controller) ObjectionOptions(ctx context.Context, discoveryType string, cb func([]model.TemplateEntry)) ([]model.TemplateEntry, error) {
	return c.templateOptions(ctx, model.TemplateObjection, discoveryType, cb)
}

func (c *Controller) ObjectionText(ctx context.Context, labels []string, requestNumber int, cb func(int, []model.TemplateEntry)) (*TextLookup, error) {
	return c.templateText(ctx, model.TemplateObjection, labels, requestNumber, cb)
}

func (c *Controller) DeleteResponseTemplate(ctx context.Context, id string) error {
	return c.deleteTemplate(ctx, model.TemplateResponse, id)
}

func (c *Controller) ResponseOptions(ctx context.Context, discoveryType string, cb func([]model.TemplateEntry)) ([]model.TemplateEntry, error) {
	return c.templateOptions(ctx, model.TemplateResponse, discoveryType, cb)
}

func (c *Controller) ResponseText(ctx context.Context, labels []string, requestNumber int, cb func(int, []model.TemplateEntry)) (*TextLookup, error) {
	return c.templateText(ctx, model.TemplateResponse, labels, requestNumber, cb)
}

// LookupAttorney fetches an attorney by bar number. An empty bar number is a no-op:
// no call, no callback, nil attorney.
func (c *Controller) LookupAttorney(ctx context.Context, barNumber string, cb func(model.Attorney)) (model.Attorney, error) {
	barNumber = strings.TrimSpace(barNumber)
	if len(barNumber) == 0 {
		return nil, nil
	}
	env, err := c.post(ctx, "/attorney/find/"+url.PathEscape(barNumber), nil)
	if err != nil {
		return nil, err
	}
	m, err := env.Map()
	if err != nil {
		return nil, fmt.Errorf("attorney find: %w", err)
	}
	a := model.Attorney(m)
	if cb != nil {
		cb(a)
	}
	return a, nil
}
