package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"casedesk/internal/config"
	"casedesk/internal/controller"
	"casedesk/internal/remote"
	"casedesk/internal/session"
	"casedesk/internal/store"

	"github.com/spf13/cobra"
)

// runtime is everything one command invocation needs, wired in dependency order:
// config -> logger -> backend client -> origin store -> session store -> controller.
type runtime struct {
	cfg     *config.Config
	logger  *slog.Logger
	client  *remote.Client
	store   store.Store
	storage *store.SessionStorage
	state   *session.Store
	nav     *cliNavigator
	ctrl    *controller.Controller
}

func openRuntime(cmd *cobra.Command, app *App) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(app.BaseURL); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(app.Dir); v != "" {
		cfg.Dir = v
	}
	if v := strings.TrimSpace(app.LogLevel); v != "" {
		lvl, err := config.ParseLogLevel(v)
		if err != nil {
			return nil, err
		}
		cfg.LogLevel = lvl
	}

	// Logs go to stderr so stdout stays machine-readable.
	logger := config.SetupLogger(cfg, cmd.ErrOrStderr())

	client, err := newClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	dir := cfg.Dir
	if dir == "" {
		root, err := store.ConfigDir()
		if err != nil {
			return nil, err
		}
		dir, err = store.OriginDir(root, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
	}
	s := store.Store{Dir: dir}

	storage, err := s.OpenSessionStorage(cmd.Context())
	if err != nil {
		return nil, err
	}
	state := session.New(storage)
	if err := state.Load(); err != nil {
		_ = storage.Close()
		return nil, err
	}

	nav := &cliNavigator{state: state, client: client}
	ctrl := controller.New(controller.Deps{
		Remote: client,
		State:  state,
		Nav:    nav,
		Logger: logger,
	})

	return &runtime{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		store:   s,
		storage: storage,
		state:   state,
		nav:     nav,
		ctrl:    ctrl,
	}, nil
}

func newClient(cfg *config.Config, logger *slog.Logger) (*remote.Client, error) {
	return remote.New(remote.Options{
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.Timeout,
		CookieName:  cfg.CookieName,
		CookieValue: cfg.SessionCookie,
		UserAgent:   "casedesk/" + config.Version,
		Logger:      logger,
	})
}

func (rt *runtime) Close() error {
	if rt == nil {
		return nil
	}
	return rt.storage.Close()
}

// result wraps an operation's payload with the case it ran against and any navigation effects.
func (rt *runtime) result(payload map[string]any) map[string]any {
	out := map[string]any{}
	for k, v := range payload {
		out[k] = v
	}
	out["case"] = rt.state.Case()
	if rt.nav.reloaded {
		out["reloaded"] = true
	}
	if rt.nav.location != "" {
		out["location"] = rt.nav.location
	}
	return map[string]any{"data": out}
}

// withRuntime opens a runtime, runs fn, and writes its payload.
func withRuntime(cmd *cobra.Command, app *App, fn func(ctx context.Context, rt *runtime) (map[string]any, error)) error {
	rt, err := openRuntime(cmd, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer rt.Close()

	payload, err := fn(cmd.Context(), rt)
	if err != nil {
		return writeErr(cmd, describeErr(err))
	}
	return writeOut(cmd, app, rt.result(payload))
}

// cliNavigator stands in for page navigation in a one-shot command: a reload re-reads
// persisted state, an assign records where the browser would have gone.
type cliNavigator struct {
	state  *session.Store
	client *remote.Client

	reloaded bool
	location string
}

func (n *cliNavigator) Reload(context.Context) error {
	if err := n.state.Load(); err != nil {
		return err
	}
	n.reloaded = true
	return nil
}

func (n *cliNavigator) Assign(_ context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("navigate: empty path")
	}
	n.location = n.client.URL(path)
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
