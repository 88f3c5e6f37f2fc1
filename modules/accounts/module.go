package accounts

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/superlists/binder"
	"github.com/dmitrymomot/superlists/handler"
	"github.com/dmitrymomot/superlists/pkg/flash"
	"github.com/dmitrymomot/superlists/pkg/logger"
	"github.com/dmitrymomot/superlists/pkg/ratelimiter"
	"github.com/dmitrymomot/superlists/pkg/validator"
)

// Backend names the login method recorded on sessions.
const Backend = "passwordless"

const (
	MsgLoginEmailSent  = "Check your email, we've sent you a link you can use to log in."
	MsgInvalidEmail    = "That doesn't look like a valid email address."
	MsgTooManyRequests = "Too many login requests. Please wait a minute and try again."
)

// Authenticator establishes and ends authenticated sessions.
// *session.Manager satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request, identity, backend string) error
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

type Flasher interface {
	Add(w http.ResponseWriter, level flash.Level, text string) error
}

type SendLoginEmailRequest struct {
	Email string `form:"email"`
}

type LoginRequest struct {
	Token string `query:"token"`
}

// Module serves the /accounts routes.
type Module struct {
	svc          *Service
	auth         Authenticator
	flash        Flasher
	baseURL      string
	limiter      ratelimiter.RateLimiter
	limitKey     ratelimiter.KeyFunc
	log          *slog.Logger
	errorHandler handler.ErrorHandler[handler.Context]
}

type ModuleOption func(*Module)

// WithRateLimiter guards the send-login-email route. Requests over the
// limit issue no token and are redirected home with a warning.
func WithRateLimiter(limiter ratelimiter.RateLimiter, key ratelimiter.KeyFunc) ModuleOption {
	return func(m *Module) {
		m.limiter = limiter
		m.limitKey = key
	}
}

func WithModuleLogger(l *slog.Logger) ModuleOption {
	return func(m *Module) {
		if l != nil {
			m.log = l
		}
	}
}

func WithErrorHandler(h handler.ErrorHandler[handler.Context]) ModuleOption {
	return func(m *Module) { m.errorHandler = h }
}

// WithBaseURL fixes the origin used in login links instead of deriving it
// from the request.
func WithBaseURL(baseURL string) ModuleOption {
	return func(m *Module) { m.baseURL = baseURL }
}

func NewModule(svc *Service, auth Authenticator, flasher Flasher, opts ...ModuleOption) *Module {
	m := &Module{
		svc:   svc,
		auth:  auth,
		flash: flasher,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()

	send := http.Handler(handler.Wrap(m.sendLoginEmail,
		handler.WithBinders[handler.Context, SendLoginEmailRequest](binder.Form()),
		handler.WithErrorHandler[handler.Context, SendLoginEmailRequest](m.errorHandler),
	))
	if m.limiter != nil {
		denied := handler.Wrap(m.rateLimited,
			handler.WithErrorHandler[handler.Context, struct{}](m.errorHandler),
		)
		send = ratelimiter.Middleware(m.limiter, m.limitKey, denied)(send)
	}
	r.Method(http.MethodPost, "/send_login_email", send)

	r.Get("/login", handler.Wrap(m.login,
		handler.WithBinders[handler.Context, LoginRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, LoginRequest](m.errorHandler),
	))

	logout := handler.Wrap(m.logout,
		handler.WithErrorHandler[handler.Context, struct{}](m.errorHandler),
	)
	r.Get("/logout", logout)
	r.Post("/logout", logout)

	return r
}

func (m *Module) sendLoginEmail(ctx handler.Context, req SendLoginEmailRequest) handler.Response {
	w := ctx.ResponseWriter()

	_, err := m.svc.RequestLogin(ctx, req.Email, m.linkBase(ctx.Request()))
	switch {
	case validator.IsValidationError(err):
		m.addFlash(ctx, w, flash.Warning, MsgInvalidEmail)
		return handler.Redirect("/")
	case err != nil:
		return handler.ErrorResponse(err)
	}

	m.addFlash(ctx, w, flash.Success, MsgLoginEmailSent)
	return handler.Redirect("/")
}

func (m *Module) rateLimited(ctx handler.Context, _ struct{}) handler.Response {
	m.log.WarnContext(ctx, "login email rate limited", logger.Component("accounts"))
	m.addFlash(ctx, ctx.ResponseWriter(), flash.Warning, MsgTooManyRequests)
	return handler.Redirect("/")
}

// login always lands on the home page; an unknown token changes nothing.
func (m *Module) login(ctx handler.Context, req LoginRequest) handler.Response {
	user, err := m.svc.ExchangeToken(ctx, req.Token)
	switch {
	case errors.Is(err, ErrTokenNotFound):
		m.log.InfoContext(ctx, "login token rejected", logger.Component("accounts"))
		return handler.Redirect("/")
	case err != nil:
		return handler.ErrorResponse(err)
	}

	if err := m.auth.Authenticate(ctx, ctx.ResponseWriter(), ctx.Request(), user.Email, Backend); err != nil {
		return handler.ErrorResponse(err)
	}
	m.log.InfoContext(ctx, "user logged in", logger.Component("accounts"), logger.Identity(user.Email))
	return handler.Redirect("/")
}

func (m *Module) logout(ctx handler.Context, _ struct{}) handler.Response {
	if err := m.auth.Destroy(ctx, ctx.ResponseWriter(), ctx.Request()); err != nil {
		m.log.WarnContext(ctx, "failed to destroy session", logger.Component("accounts"), logger.Error(err))
	}
	return handler.Redirect("/")
}

func (m *Module) addFlash(ctx context.Context, w http.ResponseWriter, level flash.Level, text string) {
	if err := m.flash.Add(w, level, text); err != nil {
		m.log.WarnContext(ctx, "failed to set flash message", logger.Component("accounts"), logger.Error(err))
	}
}

func (m *Module) linkBase(r *http.Request) string {
	if m.baseURL != "" {
		return m.baseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
