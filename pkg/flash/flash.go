// Package flash carries one-shot user messages across a redirect in
// encrypted cookies, one message per level.
package flash

import (
	"net/http"

	"github.com/dmitrymomot/superlists/pkg/cookie"
)

type Level string

const (
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

// levels fixes the display order.
var levels = []Level{Error, Warning, Success}

type Message struct {
	Level Level
	Text  string
}

type Messages struct {
	cookies *cookie.Manager
}

func New(cookies *cookie.Manager) *Messages {
	return &Messages{cookies: cookies}
}

// Add replaces any pending message of the same level.
func (m *Messages) Add(w http.ResponseWriter, level Level, text string) error {
	return m.cookies.SetFlash(w, string(level), text)
}

// Pop returns the pending messages and clears them.
func (m *Messages) Pop(w http.ResponseWriter, r *http.Request) []Message {
	var out []Message
	for _, level := range levels {
		if text := m.cookies.GetFlash(w, r, string(level)); text != "" {
			out = append(out, Message{Level: level, Text: text})
		}
	}
	return out
}
