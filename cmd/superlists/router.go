package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/superlists/handler"
	"github.com/dmitrymomot/superlists/internal/views"
	"github.com/dmitrymomot/superlists/modules/accounts"
	"github.com/dmitrymomot/superlists/modules/lists"
	"github.com/dmitrymomot/superlists/pkg/clientip"
	"github.com/dmitrymomot/superlists/pkg/cookie"
	"github.com/dmitrymomot/superlists/pkg/environment"
	"github.com/dmitrymomot/superlists/pkg/flash"
	"github.com/dmitrymomot/superlists/pkg/httpserver"
	"github.com/dmitrymomot/superlists/pkg/logger"
	"github.com/dmitrymomot/superlists/pkg/ratelimiter"
	"github.com/dmitrymomot/superlists/pkg/requestid"
	"github.com/dmitrymomot/superlists/pkg/session"
)

type routerDeps struct {
	Log        *slog.Logger
	Env        environment.Environment
	TrustProxy bool
	Cookies    *cookie.Manager
	Sessions   *session.Manager
	Limiter    ratelimiter.RateLimiter // optional
	Accounts   *accounts.Service
	Lists      *lists.Service
	BaseURL    string
	Checks     []func(context.Context) error
}

func newRouter(d routerDeps) http.Handler {
	errorHandler := handler.NewErrorHandler(d.Log, views.ErrorHandlerConfig())
	flashes := flash.New(d.Cookies)

	r := chi.NewRouter()

	// Session runs before the access log so records carry the identity.
	r.Use(
		requestid.Middleware,
		environment.Middleware(d.Env),
		clientip.Middleware(d.TrustProxy),
		d.Sessions.Middleware,
		logger.Middleware(d.Log),
		middleware.Recoverer,
	)

	r.NotFound(handler.Wrap(func(handler.Context, struct{}) handler.Response {
		return handler.ErrorResponse(handler.ErrNotFound)
	}, handler.WithErrorHandler[handler.Context, struct{}](errorHandler)))

	r.Get("/health/live", httpserver.Liveness())
	r.Get("/health/ready", httpserver.Readiness(d.Log, d.Checks...))

	accountOpts := []accounts.ModuleOption{
		accounts.WithModuleLogger(d.Log),
		accounts.WithErrorHandler(errorHandler),
		accounts.WithBaseURL(d.BaseURL),
	}
	if d.Limiter != nil {
		accountOpts = append(accountOpts, accounts.WithRateLimiter(d.Limiter, loginRateKey))
	}
	r.Mount("/accounts", accounts.NewModule(d.Accounts, d.Sessions, flashes, accountOpts...).Handle())

	r.Mount("/", lists.NewModule(d.Lists, views.Lists(), flashes,
		lists.WithModuleLogger(d.Log),
		lists.WithErrorHandler(errorHandler),
	).Handle())

	return r
}

// loginRateKey buckets login email requests by client address.
func loginRateKey(r *http.Request) string {
	ip := clientip.FromContext(r.Context())
	if ip == "" {
		return ""
	}
	return "login:" + ip
}
