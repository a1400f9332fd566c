package tui

import (
	"fmt"
	"sync"

	"casedesk/internal/session"
	"casedesk/internal/view"
)

// paneTemplates are the text bindings of each dashboard root.
var paneTemplates = map[string]string{
	view.RootCaseInformation: `{if .Case.ID}Case {.Case.ID}{if .Case.CauseNumber}  ·  cause {.Case.CauseNumber}{end}{if .Case.Description}  ·  {.Case.Description}{end}{else}No case selected{end}`,
	view.RootApp:             `{if .DiscoveryRequestNumber}Editing discovery request {.DiscoveryRequestNumber}{else}No discovery request selected{end}`,
}

// paneEngine binds dashboard roots to the session store. It re-renders every bound pane
// when the store changes.
type paneEngine struct {
	mu    sync.Mutex
	panes map[string]*pane
}

type pane struct {
	root   string
	cfg    view.Config
	models view.Models
	engine *paneEngine

	text string
	err  error
}

func newPaneEngine(state *session.Store) *paneEngine {
	e := &paneEngine{panes: map[string]*pane{}}
	state.Subscribe(func(d session.Data) { e.renderAll(d) })
	return e
}

func (e *paneEngine) Bind(root string, cfg view.Config, models view.Models) (view.View, error) {
	tmpl, ok := paneTemplates[root]
	if !ok {
		return nil, fmt.Errorf("no pane for %s", root)
	}
	if _, err := cfg.Render(root, tmpl, session.Data{}); err != nil {
		return nil, err
	}
	p := &pane{root: root, cfg: cfg, models: models, engine: e}
	if cfg.PreloadData && models.Data != nil {
		p.render(models.Data.Snapshot())
	}
	e.mu.Lock()
	e.panes[root] = p
	e.mu.Unlock()
	return p, nil
}

// Unbind stops p from receiving updates. A newer binding for the same root is left in place.
func (p *pane) Unbind() {
	e := p.engine
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.panes[p.root] == p {
		delete(e.panes, p.root)
	}
}

// render must be called with the engine lock held, or before p is registered.
func (p *pane) render(d session.Data) {
	p.text, p.err = p.cfg.Render(p.root, paneTemplates[p.root], d)
}

func (e *paneEngine) renderAll(d session.Data) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, p := range e.panes {
		p.render(d)
	}
}

// Text is the current rendering of root. ok is false when nothing is bound there.
func (e *paneEngine) Text(root string) (text string, ok bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.panes[root]
	if p == nil {
		return "", false, nil
	}
	return p.text, true, p.err
}
