// Package view binds named view roots to the shared view-model and controller.
//
// The rendering engine itself is pluggable (Engine). This package owns its configuration
// and the selector -> live view registry.
package view

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"casedesk/internal/controller"
	"casedesk/internal/session"
)

const (
	RootApp             = "#app"
	RootCaseInformation = "#case_information"
)

// Models is what a bound view sees: the data store and the controller.
type Models struct {
	Data       *session.Store
	Controller *controller.Controller
}

// HandlerFunc invokes a controller event on behalf of a view.
type HandlerFunc func(ctx context.Context, ev controller.Event, t controller.Target, models Models) error

type Config struct {
	// Prefix namespaces binding attributes ("rv" -> "rv-on-click").
	Prefix string
	// PreloadData renders a view with the current data as soon as it is bound.
	PreloadData bool
	// TemplateDelimiters are the left/right delimiters of text bindings.
	TemplateDelimiters [2]string
	// IterationAlias names the index placeholder of a repeated row for model.
	IterationAlias func(model string) string
	// Handler is called for every bound event. The default dispatches to the view's controller.
	Handler HandlerFunc
}

func DefaultConfig() Config {
	return Config{
		Prefix:             "rv",
		PreloadData:        true,
		TemplateDelimiters: [2]string{"{", "}"},
		IterationAlias: func(model string) string {
			return "%" + model + "%"
		},
		Handler: func(ctx context.Context, ev controller.Event, t controller.Target, models Models) error {
			return models.Controller.Dispatch(ctx, ev, t)
		},
	}
}

// EventAttr is the binding attribute for a DOM-style event name.
func (c Config) EventAttr(event string) string {
	return c.Prefix + "-on-" + event
}

// ExpandIndex substitutes the iteration alias of model in row with the 1-based index i.
func (c Config) ExpandIndex(model, row string, i int) string {
	if c.IterationAlias == nil {
		return row
	}
	return strings.ReplaceAll(row, c.IterationAlias(model), strconv.Itoa(i+1))
}

// Render executes a text binding template against data.
func (c Config) Render(name, tmpl string, data any) (string, error) {
	t, err := template.New(name).
		Delims(c.TemplateDelimiters[0], c.TemplateDelimiters[1]).
		Option("missingkey=zero").
		Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Invoke runs ev through the configured handler with models as the view context.
func (c Config) Invoke(ctx context.Context, ev controller.Event, t controller.Target, models Models) error {
	h := c.Handler
	if h == nil {
		h = DefaultConfig().Handler
	}
	return h(ctx, ev, t, models)
}

// View is a live binding.
type View interface {
	Unbind()
}

// Engine creates live bindings for a root.
type Engine interface {
	Bind(root string, cfg Config, models Models) (View, error)
}

// App tracks at most one live view per selector.
type App struct {
	cfg    Config
	engine Engine
	models Models

	mu    sync.Mutex
	views map[string]View
}

func NewApp(engine Engine, models Models, cfg Config) *App {
	return &App{
		cfg:    cfg,
		engine: engine,
		models: models,
		views:  map[string]View{},
	}
}

func (a *App) Config() Config { return a.cfg }

func (a *App) Models() Models { return a.models }

// OnReady binds the two standard roots to the shared models.
func (a *App) OnReady() error {
	for _, root := range []string{RootApp, RootCaseInformation} {
		if err := a.Bind(root, a.models); err != nil {
			return err
		}
	}
	return nil
}

// Bind binds models to selector. A view already tracked for selector is unbound and replaced.
func (a *App) Bind(selector string, models Models) error {
	v, err := a.engine.Bind(selector, a.cfg, models)
	if err != nil {
		return fmt.Errorf("bind %s: %w", selector, err)
	}
	a.mu.Lock()
	old := a.views[selector]
	a.views[selector] = v
	a.mu.Unlock()
	if old != nil {
		old.Unbind()
	}
	return nil
}

// Unbind tears down the view for selector. It is a no-op when nothing is bound.
func (a *App) Unbind(selector string) {
	a.mu.Lock()
	v := a.views[selector]
	delete(a.views, selector)
	a.mu.Unlock()
	if v != nil {
		v.Unbind()
	}
}

func (a *App) View(selector string) (View, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.views[selector]
	return v, ok
}

// UnbindAll tears down every tracked view.
func (a *App) UnbindAll() {
	a.mu.Lock()
	views := a.views
	a.views = map[string]View{}
	a.mu.Unlock()
	for _, v := range views {
		v.Unbind()
	}
}
