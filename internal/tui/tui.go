// Package tui is the interactive dashboard: the two view roots rendered as panes, with
// keys standing in for the page's bound click handlers.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"casedesk/internal/controller"
	"casedesk/internal/session"
	"casedesk/internal/store"
	"casedesk/internal/view"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Remote  controller.Poster
	State   *session.Store
	Store   store.Store
	Logger  *slog.Logger
	// Handler replaces the default event handler of the bound views.
	Handler view.HandlerFunc
}

func Run(ctx context.Context, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()

	m, err := newDashboard(ctx, opts)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if d, ok := final.(dashboard); ok {
		d.saveState()
		d.app.UnbindAll()
	}
	return err
}

// navigator is the dashboard's stand-in for page navigation. Reload re-seeds the store from
// storage and rebinds both roots; Assign records the location for the status line.
type navigator struct {
	state  *session.Store
	remote controller.Poster

	mu       sync.Mutex
	app      *view.App
	location string
}

func (n *navigator) Reload(context.Context) error {
	if err := n.state.Load(); err != nil {
		return err
	}
	n.mu.Lock()
	app := n.app
	n.mu.Unlock()
	if app == nil {
		return nil
	}
	app.UnbindAll()
	return app.OnReady()
}

func (n *navigator) Assign(_ context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("navigate: empty path")
	}
	loc := path
	if u, ok := n.remote.(interface{ URL(string) string }); ok {
		loc = u.URL(path)
	}
	n.mu.Lock()
	n.location = loc
	n.mu.Unlock()
	return nil
}

func (n *navigator) Location() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.location
}
