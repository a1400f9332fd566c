// Package controller turns user gestures into backend calls and view-model updates.
//
// Each operation issues at most one POST. The backend's success flag is the only outcome signal:
// on failure the full reply is logged and the error returned, and nothing local changes.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"casedesk/internal/remote"
	"casedesk/internal/session"
)

var (
	ErrUnknownEvent     = errors.New("unknown event")
	ErrInvalidOperation = errors.New("invalid operation")
)

// Poster is the backend boundary. *remote.Client satisfies it.
type Poster interface {
	Post(ctx context.Context, path string, form url.Values) (*remote.Envelope, error)
}

// Navigator performs the host's navigation effects.
type Navigator interface {
	// Reload discards in-memory state and re-renders from persisted/server state.
	Reload(ctx context.Context) error
	// Assign navigates to a backend path.
	Assign(ctx context.Context, path string) error
}

type Deps struct {
	Remote Poster
	State  *session.Store
	Nav    Navigator
	Logger *slog.Logger
}

type Controller struct {
	remote Poster
	state  *session.Store
	nav    Navigator
	logger *slog.Logger

	handlers map[Event]Handler
}

func New(d Deps) *Controller {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		remote: d.Remote,
		state:  d.State,
		nav:    d.Nav,
		logger: logger.With(slog.String("component", "controller")),
	}
	c.handlers = c.buildHandlers()
	return c
}

func (c *Controller) State() *session.Store { return c.state }

// SelectDiscoveryRequest records which discovery request the user is editing.
func (c *Controller) SelectDiscoveryRequest(n int) {
	c.state.SetDiscoveryRequestNumber(n)
}

// post sends one request and logs the outcome. Failures carry the raw reply in the log record.
func (c *Controller) post(ctx context.Context, path string, form url.Values) (*remote.Envelope, error) {
	env, err := c.remote.Post(ctx, path, form)
	if err != nil {
		attrs := []any{
			slog.String("path", path),
			slog.String("error", err.Error()),
		}
		if body := remote.ResponseBody(err); body != nil {
			attrs = append(attrs, slog.String("response", string(body)))
		}
		c.logger.Warn("backend call failed", attrs...)
		return nil, err
	}
	c.logger.Debug("backend call ok",
		slog.String("path", path),
		slog.String("request_id", env.RequestID),
		slog.String("message", env.Message),
	)
	return env, nil
}
