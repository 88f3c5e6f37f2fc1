// Package clientip resolves the address of the client behind a request.
//
// Proxy headers (CF-Connecting-IP, DO-Connecting-IP, X-Forwarded-For,
// X-Real-IP) are honoured only when the server is configured to trust its
// proxy; otherwise the TCP peer address is used. The login rate limiter keys
// its buckets on the resolved address.
package clientip

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

var proxyHeaders = []string{"CF-Connecting-IP", "DO-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// Resolve returns the canonical client address, or "" when none parses.
func Resolve(r *http.Request, trustProxy bool) string {
	if trustProxy {
		for _, h := range proxyHeaders {
			v := r.Header.Get(h)
			if v == "" {
				continue
			}
			// X-Forwarded-For lists the original client first.
			first, _, _ := strings.Cut(v, ",")
			if ip := parse(first); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parse(r.RemoteAddr)
	}
	return parse(host)
}

func parse(s string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return addr.Unmap().String()
}

type contextKey struct{}

func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}

// Middleware resolves the client address once per request and stores it in
// the request context.
func Middleware(trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), Resolve(r, trustProxy))))
		})
	}
}
