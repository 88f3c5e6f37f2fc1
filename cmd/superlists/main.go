package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/superlists/internal/db/migrations"
	"github.com/dmitrymomot/superlists/modules/accounts"
	"github.com/dmitrymomot/superlists/modules/lists"
	"github.com/dmitrymomot/superlists/pkg/config"
	"github.com/dmitrymomot/superlists/pkg/cookie"
	"github.com/dmitrymomot/superlists/pkg/email"
	"github.com/dmitrymomot/superlists/pkg/environment"
	"github.com/dmitrymomot/superlists/pkg/httpserver"
	"github.com/dmitrymomot/superlists/pkg/logger"
	"github.com/dmitrymomot/superlists/pkg/pg"
	"github.com/dmitrymomot/superlists/pkg/ratelimiter"
	"github.com/dmitrymomot/superlists/pkg/redis"
	"github.com/dmitrymomot/superlists/pkg/requestid"
	"github.com/dmitrymomot/superlists/pkg/session"
)

type appConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Name     string `env:"APP_NAME" envDefault:"superlists"`
	LogLevel string `env:"LOG_LEVEL"`

	// StorageDriver is "postgres" or "memory".
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	// SessionStore and RateLimitStore are "memory" or "redis".
	SessionStore   string `env:"SESSION_STORE" envDefault:"memory"`
	RateLimitStore string `env:"RATE_LIMIT_STORE" envDefault:"memory"`

	TrustProxy bool               `env:"HTTP_TRUST_PROXY" envDefault:"false"`
	Login      ratelimiter.Config `envPrefix:"LOGIN_RATE_"`
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("superlists stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}
	env := environment.Parse(cfg.Env)

	log := logger.New(
		logger.WithEnvironment(env, cfg.Name),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			environment.LoggerExtractor(),
			identityExtractor,
		),
	)
	logger.SetAsDefault(log)

	var (
		httpCfg    httpserver.Config
		cookieCfg  cookie.Config
		sessionCfg session.Config
		emailCfg   email.Config
		authCfg    accounts.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&httpCfg) },
		func() error { return config.Load(&cookieCfg) },
		func() error { return config.Load(&sessionCfg) },
		func() error { return config.Load(&emailCfg) },
		func() error { return config.Load(&authCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	var checks []func(context.Context) error

	var rdb *goredis.Client
	if cfg.SessionStore == "redis" || cfg.RateLimitStore == "redis" {
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer client.Close()
		rdb = client
		checks = append(checks, redis.Healthcheck(client))
	}

	var (
		tokens     accounts.TokenStorage
		users      accounts.UserStorage
		listsStore lists.Storage
	)
	switch cfg.StorageDriver {
	case "memory":
		log.WarnContext(ctx, "using in-memory storage, data is lost on restart", logger.Component("storage"))
		mem := accounts.NewMemoryStorage()
		tokens, users = mem, mem
		listsStore = lists.NewMemoryStorage()
	case "postgres":
		pool, db, err := openPostgres(ctx, log)
		if err != nil {
			return err
		}
		defer pool.Close()
		defer db.Close()
		checks = append(checks, pg.Healthcheck(pool))
		st := accounts.NewPostgresStorage(db)
		tokens, users = st, st
		listsStore = lists.NewPostgresStorage(db)
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	cookies, err := cookie.NewFromConfig(cookieCfg)
	if err != nil {
		return err
	}

	var sessionStore session.Store
	if cfg.SessionStore == "redis" {
		sessionStore = session.NewRedisStore(rdb, sessionCfg.RedisKeyPrefix)
	} else {
		mem := session.NewMemoryStore(sessionCfg.CleanupInterval)
		defer mem.Close()
		sessionStore = mem
	}
	sessions := session.New(sessionStore, cookies,
		session.WithConfig(sessionCfg),
		session.WithLogger(log),
	)
	defer sessions.Close()

	var limitStore ratelimiter.Store
	if cfg.RateLimitStore == "redis" {
		limitStore = ratelimiter.NewRedisStore(rdb, "ratelimit:login:")
	} else {
		mem := ratelimiter.NewMemoryStore()
		defer mem.Close()
		limitStore = mem
	}
	limiter, err := ratelimiter.NewBucket(limitStore, cfg.Login)
	if err != nil {
		return err
	}

	var mailer email.EmailSender
	if emailCfg.PostmarkEnabled() {
		if mailer, err = email.NewPostmarkClient(emailCfg); err != nil {
			return err
		}
	} else {
		if env == environment.Production {
			return errors.New("postmark credentials are required in production")
		}
		log.InfoContext(ctx, "postmark not configured, writing emails to disk",
			logger.Component("email"), slog.String("dir", emailCfg.DevDir))
		mailer = email.NewDevSender(emailCfg.DevDir)
	}

	router := newRouter(routerDeps{
		Log:        log,
		Env:        env,
		TrustProxy: cfg.TrustProxy,
		Cookies:    cookies,
		Sessions:   sessions,
		Limiter:    limiter,
		Accounts:   accounts.NewService(tokens, users, mailer, accounts.WithConfig(authCfg), accounts.WithLogger(log)),
		Lists:      lists.NewService(listsStore, lists.WithLogger(log)),
		BaseURL:    authCfg.BaseURL,
		Checks:     checks,
	})

	srv := httpserver.New(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, router)
}

// openPostgres connects and applies pending migrations.
func openPostgres(ctx context.Context, log *slog.Logger) (*pgxpool.Pool, *sql.DB, error) {
	var pgCfg pg.Config
	if err := config.Load(&pgCfg); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return nil, nil, err
	}
	db := pg.OpenDB(pool)
	if err := pg.Migrate(ctx, db, migrations.FS, pgCfg, log); err != nil {
		_ = db.Close()
		pool.Close()
		return nil, nil, err
	}
	log.InfoContext(ctx, "database ready", logger.Component("pg"), logger.Duration(time.Since(start)))

	return pool, db, nil
}

func identityExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := session.IdentityFromContext(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return logger.Identity(id), true
}
