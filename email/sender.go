// Package email delivers transactional mail through an HTTP email provider.
package email

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log instead of delivering them. It is used in
// development when no provider key is configured.
type LogSender struct{}

var _ Sender = LogSender{}

func (LogSender) Send(_ context.Context, msg Message) error {
	log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("email not sent: no provider configured")
	return nil
}

// RecordingSender keeps every message in memory. Err, when set, is returned from Send.
type RecordingSender struct {
	mu       sync.Mutex
	Messages []Message
	Err      error
}

var _ Sender = (*RecordingSender)(nil)

func (r *RecordingSender) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Messages = append(r.Messages, msg)
	return nil
}

func (r *RecordingSender) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Messages) == 0 {
		return Message{}, false
	}
	return r.Messages[len(r.Messages)-1], true
}
