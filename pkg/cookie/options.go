package cookie

import (
	"net/http"
	"strings"
)

type Config struct {
	Secrets string `env:"COOKIE_SECRETS,required"` // comma separated, newest first
	Domain  string `env:"COOKIE_DOMAIN"`
	Secure  bool   `env:"COOKIE_SECURE" envDefault:"false"`
}

// SecretList splits Secrets and drops empty entries.
func (c Config) SecretList() []string {
	var out []string
	for s := range strings.SplitSeq(c.Secrets, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Options are the attributes applied to written cookies.
type Options struct {
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

type Option func(*Options)

func WithPath(path string) Option       { return func(o *Options) { o.Path = path } }
func WithDomain(domain string) Option   { return func(o *Options) { o.Domain = domain } }
func WithMaxAge(seconds int) Option     { return func(o *Options) { o.MaxAge = seconds } }
func WithSecure(secure bool) Option     { return func(o *Options) { o.Secure = secure } }
func WithHTTPOnly(httpOnly bool) Option { return func(o *Options) { o.HttpOnly = httpOnly } }

func WithSameSite(mode http.SameSite) Option {
	return func(o *Options) { o.SameSite = mode }
}

func (o Options) with(opts []Option) Options {
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
