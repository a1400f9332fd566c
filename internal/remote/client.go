// Package remote is the HTTP boundary to the case-management backend.
//
// Every call is a form-encoded POST whose JSON reply carries a boolean "success" flag.
// Post turns that flag into an ordinary Go error so callers branch on err alone.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

type Options struct {
	BaseURL string
	Timeout time.Duration

	// CookieName/CookieValue carry an existing backend session (the backend keys case state by session).
	CookieName  string
	CookieValue string

	UserAgent string
	Logger    *slog.Logger
}

type Client struct {
	baseURL string
	http    *resty.Client
	logger  *slog.Logger
}

func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("remote: missing base url")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("remote: parse base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if opts.CookieValue != "" {
		name := opts.CookieName
		if name == "" {
			name = "session"
		}
		jar.SetCookies(u, []*http.Cookie{{Name: name, Value: opts.CookieValue, Path: "/"}})
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetCookieJar(jar).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if opts.UserAgent != "" {
		h.SetHeader("User-Agent", opts.UserAgent)
	}

	return &Client{
		baseURL: base,
		http:    h,
		logger:  logger.With(slog.String("component", "remote")),
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// URL resolves a backend path against the base url.
func (c *Client) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Post sends form to path and decodes the reply envelope.
//
// Errors:
//   - *StatusError when the backend answers with a non-2xx status
//   - *RejectedError when the body decodes but success is not true
//   - a wrapped transport or decode error otherwise
func (c *Client) Post(ctx context.Context, path string, form url.Values) (*Envelope, error) {
	reqID := uuid.NewString()
	r := c.http.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, reqID)
	if len(form) > 0 {
		r.SetFormDataFromValues(form)
	}

	start := time.Now()
	resp, err := r.Post(path)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	c.logger.Debug("backend call",
		slog.String("path", path),
		slog.String("request_id", reqID),
		slog.Int("status", resp.StatusCode()),
		slog.Duration("elapsed", time.Since(start)),
	)
	if resp.IsError() {
		return nil, &StatusError{Path: path, StatusCode: resp.StatusCode(), Status: resp.Status(), Body: resp.Body()}
	}

	env, err := DecodeEnvelope(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	env.RequestID = reqID
	if !env.Success {
		return env, &RejectedError{Path: path, Message: env.Message, Envelope: env}
	}
	return env, nil
}

// Envelope is a decoded backend reply.
type Envelope struct {
	Success bool
	Message string

	RequestID string
	Fields    map[string]json.RawMessage
	Body      []byte
}

func DecodeEnvelope(body []byte) (*Envelope, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	env := &Envelope{Fields: fields, Body: body}
	if raw, ok := fields["success"]; ok {
		// Anything but a JSON true reads as failure.
		_ = json.Unmarshal(raw, &env.Success)
	}
	if raw, ok := fields["message"]; ok {
		_ = json.Unmarshal(raw, &env.Message)
	}
	return env, nil
}

// Field decodes the named top-level field into v. It reports false if the field is absent.
func (e *Envelope) Field(name string, v any) (bool, error) {
	if e == nil {
		return false, nil
	}
	raw, ok := e.Fields[name]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

// Map returns the whole reply as a generic object.
func (e *Envelope) Map() (map[string]any, error) {
	out := map[string]any{}
	if e == nil || len(e.Body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(e.Body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListKey names a repeated form field the way the backend reads it (e.g. "objections[]").
func ListKey(name string) string { return name + "[]" }
