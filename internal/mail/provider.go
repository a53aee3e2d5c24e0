// Package mail sends transactional email through a pluggable provider.
package mail

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrProviderUnavailable is returned when the provider rejects or cannot take a request.
var ErrProviderUnavailable = errors.New("mail provider unavailable")

// Message is one outgoing email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Provider delivers messages.
type Provider interface {
	// Send delivers one message and returns the provider's message id.
	Send(ctx context.Context, msg Message) (string, error)

	// SendBatch delivers messages in one call. Ids are returned in input order.
	SendBatch(ctx context.Context, msgs []Message) ([]string, error)
}

// LogProvider only logs messages. It is used when delivery is disabled.
type LogProvider struct {
	logger *zap.SugaredLogger
}

// NewLogProvider creates a provider that logs instead of sending.
func NewLogProvider(logger *zap.SugaredLogger) *LogProvider {
	return &LogProvider{logger: logger}
}

// Send logs the message.
func (p *LogProvider) Send(_ context.Context, msg Message) (string, error) {
	id := "log-" + uuid.NewString()
	p.logger.Infow("email (delivery disabled)", "id", id, "to", msg.To, "subject", msg.Subject)
	return id, nil
}

// SendBatch logs every message.
func (p *LogProvider) SendBatch(ctx context.Context, msgs []Message) ([]string, error) {
	ids := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		id, _ := p.Send(ctx, msg)
		ids = append(ids, id)
	}
	return ids, nil
}
