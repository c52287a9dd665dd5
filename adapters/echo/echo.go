// Package hxformecho serves hxform forms over HTMX with the Echo framework.
//
// Every browser session gets its own instance of the form from a factory.
// Inputs post their values as they change, the server answers with the
// field's feedback and out-of-band updates for every other field the change
// affected, and a websocket pushes updates that happen later, such as the
// end of a slow validation.
//
//	e := echo.New()
//	srv, err := hxformecho.Mount(e, func(ctx context.Context) (*hxformecho.Form, error) {
//	    return newSignupForm(), nil
//	}, hxformecho.WithKey(key))
package hxformecho

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/labstack/echo/v4"

	"github.com/oasisprotocol/hxform"
	"github.com/oasisprotocol/hxform/lib/encoding"
	"github.com/oasisprotocol/hxform/render"
)

// Form is what a session serves.
type Form struct {
	Title  string
	Fields hxform.Group
	// SubmitLabel defaults to "Submit".
	SubmitLabel string
	// OnSubmit receives the form values once submit validation passed. The
	// returned text is shown as a success toast.
	OnSubmit func(ctx context.Context, values map[string]any) (string, error)
}

// FormFactory builds a fresh form for a new session.
type FormFactory func(ctx context.Context) (*Form, error)

// Option configures Mount and MountGroup.
type Option func(*options)

type options struct {
	key       []byte
	path      string
	sessions  int
	wait      time.Duration
	animation render.AnimationPolicy
	logger    *slog.Logger
	layout    func(title string, body templ.Component) templ.Component
}

// WithKey sets the key signing field tokens and sealing session cookies.
// Without it a random key is generated, which invalidates all sessions on
// restart.
func WithKey(key []byte) Option {
	return func(o *options) { o.key = key }
}

// WithPath sets the URL prefix of the form routes. Defaults to "/form".
func WithPath(path string) Option {
	return func(o *options) { o.path = strings.TrimSuffix(path, "/") }
}

// WithSessions bounds the number of live sessions. The least recently used
// session is dropped first. Defaults to 256.
func WithSessions(n int) Option {
	return func(o *options) { o.sessions = n }
}

// WithValidationWait sets how long a request waits for a validation or an
// action before answering with its pending state. Defaults to 2s.
func WithValidationWait(d time.Duration) Option {
	return func(o *options) { o.wait = d }
}

// WithAnimation sets the animation policy of rendered fields.
func WithAnimation(p render.AnimationPolicy) Option {
	return func(o *options) { o.animation = p }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithLayout wraps the form page, for example in the application's layout.
func WithLayout(layout func(title string, body templ.Component) templ.Component) Option {
	return func(o *options) { o.layout = layout }
}

// router is satisfied by both *echo.Echo and *echo.Group.
type router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// Server holds the sessions of a mounted form.
type Server struct {
	factory  FormFactory
	codec    *encoding.Codec
	sessions *lru.Cache[string, *session]
	opts     options
	log      *slog.Logger

	urlPrefix string
}

// Mount serves the form under the configured path of e.
func Mount(e *echo.Echo, factory FormFactory, opts ...Option) (*Server, error) {
	s, err := newServer(factory, opts)
	if err != nil {
		return nil, err
	}
	s.register(e)
	return s, nil
}

// MountGroup serves the form on a group, sharing its middleware. prefix is
// the group's own path, which Echo does not expose.
//
//	g := e.Group("/app", authMiddleware)
//	srv, err := hxformecho.MountGroup(g, "/app", newSignupForm)
func MountGroup(g *echo.Group, prefix string, factory FormFactory, opts ...Option) (*Server, error) {
	s, err := newServer(factory, opts)
	if err != nil {
		return nil, err
	}
	s.urlPrefix = strings.TrimSuffix(prefix, "/")
	s.register(g)
	return s, nil
}

func newServer(factory FormFactory, opts []Option) (*Server, error) {
	if factory == nil {
		return nil, fmt.Errorf("hxformecho: %w: nil form factory", hxform.ErrInvalidInput)
	}
	o := options{
		path:     "/form",
		sessions: 256,
		wait:     2 * time.Second,
		layout:   defaultLayout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	key := o.key
	if key == nil {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("hxformecho: failed to generate random key: %w", err)
		}
	}
	codec, err := encoding.NewCodec(key)
	if err != nil {
		return nil, err
	}
	cache, err := lru.NewWithEvict(o.sessions, func(_ string, sess *session) {
		sess.close()
	})
	if err != nil {
		return nil, err
	}

	return &Server{
		factory:  factory,
		codec:    codec,
		sessions: cache,
		opts:     o,
		log:      o.logger.With("component", "hxformecho"),
	}, nil
}

func (s *Server) register(r router) {
	p := s.opts.path
	r.GET(p, s.handlePage)
	r.GET(p+"/ws", s.handleWS)
	r.POST(p+"/submit", s.handleSubmit, requireHTMX)
	r.POST(p+"/f/:token/:op", s.handleField, requireHTMX)
}

// Path returns the URL the form is served under.
func (s *Server) Path() string {
	return s.urlPrefix + s.opts.path
}

// Sessions returns the number of live sessions.
func (s *Server) Sessions() int {
	return s.sessions.Len()
}

// requireHTMX rejects mutating requests that did not come from HTMX.
// Cross-site forms cannot set the header.
func requireHTMX(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !render.IsHTMX(c.Request()) {
			return echo.NewHTTPError(http.StatusForbidden, "missing HX-Request header")
		}
		return next(c)
	}
}

// Render writes a templ component to the Echo response.
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
