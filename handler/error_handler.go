package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/superlists/pkg/logger"
	"github.com/dmitrymomot/superlists/pkg/requestid"
)

type ErrorPageParams struct {
	Error      string
	StatusCode int
	RequestID  string
}

type ErrorToastParams struct {
	Message   string
	Type      string // "error" or "warning"
	RequestID string
}

type ErrorHandlerConfig struct {
	// ErrorPage renders the full page for regular requests.
	ErrorPage func(ErrorPageParams) templ.Component

	// ErrorToast renders the notification patched in for DataStar requests.
	ErrorToast func(ErrorToastParams) templ.Component

	// ToastTarget defaults to "#toast-container".
	ToastTarget string

	// ToastMode defaults to PatchPrepend.
	ToastMode datastar.ElementPatchMode
}

// ErrorInfo is the classification of an error returned by a handler.
type ErrorInfo struct {
	StatusCode int
	Message    string
	Type       string
	LogLevel   slog.Level
}

const genericErrorMessage = "An error occurred processing your request"

func classifyError(err error) ErrorInfo {
	info := ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Message:    genericErrorMessage,
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		info.StatusCode = httpErr.Code
		info.Message = httpErr.Key
	}

	var validationErr ValidationError
	if errors.As(err, &validationErr) {
		info.StatusCode = http.StatusBadRequest
		info.Message = validationErr.Error()
	}

	if info.StatusCode >= http.StatusBadRequest && info.StatusCode < http.StatusInternalServerError {
		info.Type = "warning"
		info.LogLevel = slog.LevelWarn
	} else {
		info.Type = "error"
		info.LogLevel = slog.LevelError
	}
	return info
}

// NewErrorHandler logs err and renders it as a page, or as a toast for
// DataStar requests. Server errors never expose the underlying message.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}
	if cfg.ToastTarget == "" {
		cfg.ToastTarget = "#toast-container"
	}
	if cfg.ToastMode == "" {
		cfg.ToastMode = PatchPrepend
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		reqID := requestid.FromContext(r.Context())
		info := classifyError(err)

		log.LogAttrs(r.Context(), info.LogLevel, "request error",
			logger.Error(err),
			slog.Int("status", info.StatusCode),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Bool("datastar", IsDataStar(r)),
			logger.Component("error_handler"),
		)

		if IsDataStar(r) {
			renderToast(ctx, log, cfg, info, reqID)
			return
		}
		renderPage(ctx, log, cfg, info, reqID)
	}
}

func renderToast(ctx Context, log *slog.Logger, cfg ErrorHandlerConfig, info ErrorInfo, reqID string) {
	if cfg.ErrorToast == nil {
		log.WarnContext(ctx, "no error toast configured", logger.Component("error_handler"))
		return
	}
	resp := Templ(cfg.ErrorToast(ErrorToastParams{
		Message:   info.Message,
		Type:      info.Type,
		RequestID: reqID,
	}), WithTarget(cfg.ToastTarget), WithPatchMode(cfg.ToastMode))

	if err := resp.Render(ctx.ResponseWriter(), ctx.Request()); err != nil {
		log.ErrorContext(ctx, "failed to render error toast", logger.Error(err), logger.Event("render_error_toast"))
	}
}

func renderPage(ctx Context, log *slog.Logger, cfg ErrorHandlerConfig, info ErrorInfo, reqID string) {
	w := ctx.ResponseWriter()
	if cfg.ErrorPage == nil {
		http.Error(w, info.Message, info.StatusCode)
		return
	}
	resp := TemplWithStatus(info.StatusCode, cfg.ErrorPage(ErrorPageParams{
		Error:      info.Message,
		StatusCode: info.StatusCode,
		RequestID:  reqID,
	}))
	if err := resp.Render(w, ctx.Request()); err != nil {
		log.ErrorContext(ctx, "failed to render error page", logger.Error(err), logger.Event("render_error_page"))
	}
}
