package accounts

import "time"

type Config struct {
	// TokenTTL limits how long a login link works. Zero keeps links valid forever.
	TokenTTL time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"0"`
	// SingleUse deletes a token when it is exchanged.
	SingleUse bool `env:"AUTH_TOKEN_SINGLE_USE" envDefault:"false"`
	// BaseURL prefixes login links. When empty it is derived from the request.
	BaseURL string `env:"APP_BASE_URL"`
}
