// Package logger builds *slog.Logger instances for the application and the
// HTTP access log.
//
// New applies functional options on top of production defaults (JSON, INFO)
// and wraps the handler in a decorator that runs ContextExtractor callbacks
// on every record, so request-scoped values such as the request ID and the
// environment end up in the output without being passed around explicitly.
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Development, "superlists"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "login link sent", logger.Component("accounts"), logger.Email(addr))
//
// Attribute helpers (Error, Component, Event, Identity, ListID...) keep key
// names consistent. Error returns an empty attribute for nil errors so the
// call site needs no nil check.
package logger
