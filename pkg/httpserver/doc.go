// Package httpserver runs an http.Handler with configured timeouts and
// graceful shutdown on SIGINT/SIGTERM or context cancellation, and provides
// the liveness and readiness probe handlers.
package httpserver
