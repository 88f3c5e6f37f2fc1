package session

import "time"

type Config struct {
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sid"`

	IdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"336h"`
	MaxLifetime time.Duration `env:"SESSION_MAX_LIFETIME" envDefault:"720h"`

	// Activity younger than this is not written back to the store.
	ActivityUpdateThreshold time.Duration `env:"SESSION_ACTIVITY_UPDATE_THRESHOLD" envDefault:"5m"`

	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`
	RedisKeyPrefix  string        `env:"SESSION_REDIS_PREFIX" envDefault:"session:"`
}

func DefaultConfig() Config {
	return Config{
		CookieName:              "sid",
		IdleTimeout:             14 * 24 * time.Hour,
		MaxLifetime:             30 * 24 * time.Hour,
		ActivityUpdateThreshold: 5 * time.Minute,
		CleanupInterval:         5 * time.Minute,
		RedisKeyPrefix:          "session:",
	}
}
