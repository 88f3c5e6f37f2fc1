package logger

import (
	"log/slog"
	"time"
)

// Error returns an empty attribute for a nil error.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func Component(name string) slog.Attr { return slog.String("component", name) }

func Event(name string) slog.Attr { return slog.String("event", name) }

func Handler(name string) slog.Attr { return slog.String("handler", name) }

func RequestID(id string) slog.Attr { return slog.String("request_id", id) }

// Identity records the e-mail address a session is authenticated as.
// An empty identity yields an empty attribute.
func Identity(email string) slog.Attr {
	if email == "" {
		return slog.Attr{}
	}
	return slog.String("identity", email)
}

// Email records a recipient or target address.
func Email(addr string) slog.Attr { return slog.String("email", addr) }

func ListID(id int64) slog.Attr { return slog.Int64("list_id", id) }

func Duration(d time.Duration) slog.Attr { return slog.Duration("duration", d) }
