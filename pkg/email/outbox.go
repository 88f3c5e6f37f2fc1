package email

import (
	"context"
	"sync"
)

// Outbox records sent messages in memory.
type Outbox struct {
	mu       sync.Mutex
	messages []SendEmailParams
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) SendEmail(_ context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	o.mu.Lock()
	o.messages = append(o.messages, params)
	o.mu.Unlock()
	return nil
}

// Messages returns a copy of everything sent so far, oldest first.
func (o *Outbox) Messages() []SendEmailParams {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]SendEmailParams(nil), o.messages...)
}

// Last returns the most recent message.
func (o *Outbox) Last() (SendEmailParams, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.messages) == 0 {
		return SendEmailParams{}, false
	}
	return o.messages[len(o.messages)-1], true
}
