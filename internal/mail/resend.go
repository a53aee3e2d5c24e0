package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendProvider delivers messages through the Resend API.
type ResendProvider struct {
	client *resend.Client
}

// NewResendProvider creates a Resend-backed provider.
func NewResendProvider(apiKey string) *ResendProvider {
	return &ResendProvider{client: resend.NewClient(apiKey)}
}

// Send delivers one message.
func (p *ResendProvider) Send(ctx context.Context, msg Message) (string, error) {
	sent, err := p.client.Emails.SendWithContext(ctx, toRequest(msg))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return sent.Id, nil
}

// SendBatch delivers messages in a single batch call.
func (p *ResendProvider) SendBatch(ctx context.Context, msgs []Message) ([]string, error) {
	reqs := make([]*resend.SendEmailRequest, 0, len(msgs))
	for _, msg := range msgs {
		reqs = append(reqs, toRequest(msg))
	}

	resp, err := p.client.Batch.SendWithContext(ctx, reqs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if len(resp.Data) != len(msgs) {
		return nil, fmt.Errorf("%w: batch returned %d ids for %d messages", ErrProviderUnavailable, len(resp.Data), len(msgs))
	}

	ids := make([]string, 0, len(resp.Data))
	for _, d := range resp.Data {
		ids = append(ids, d.Id)
	}
	return ids, nil
}

func toRequest(msg Message) *resend.SendEmailRequest {
	return &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
}
