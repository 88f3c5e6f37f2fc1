package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvFileVar names the variable that overrides the default `.env` location.
const EnvFileVar = "ENV_FILE"

var (
	dotenvOnce sync.Once

	cacheMu sync.Mutex
	cache   = map[reflect.Type]any{}
)

// Load parses the environment into v. The first successful parse of a type
// is cached and reused for every later call with the same type.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(loadDotenv)

	key := reflect.TypeOf(v).Elem()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, ok := cache[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	cache[key] = parsed
	*v = parsed
	return nil
}

// MustLoad is Load that panics on failure. Used during startup where a
// missing setting should stop the process.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// Reset drops every cached configuration. Tests call it after changing the
// environment.
func Reset() {
	cacheMu.Lock()
	clear(cache)
	cacheMu.Unlock()
}

func loadDotenv() {
	if path := os.Getenv(EnvFileVar); path != "" {
		_ = godotenv.Load(path)
		return
	}
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()
}
