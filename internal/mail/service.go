package mail

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	appConfig "github.com/festy23/eventhub/internal/config"
)

// Send kinds reported to the recorder.
const (
	kindSingle = "single"
	kindBulk   = "bulk"
)

var (
	// ErrInvalidRequest is returned when a send request is missing fields or has bad addresses.
	ErrInvalidRequest = errors.New("invalid email request")

	// ErrTooManyRecipients is returned when a bulk request exceeds MaxRecipients.
	ErrTooManyRecipients = errors.New("too many recipients")
)

// MaxRecipients caps a bulk request.
const MaxRecipients = 100

// Recorder counts sent emails.
type Recorder interface {
	EmailSent(kind, status string)
}

// Service sends single, bulk and notification emails.
type Service struct {
	provider Provider
	from     string
	pacing   time.Duration
	timeout  time.Duration
	recorder Recorder
	validate *validator.Validate
	logger   *zap.SugaredLogger
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewService creates a mail service.
func NewService(provider Provider, cfg appConfig.MailConfig, recorder Recorder, logger *zap.SugaredLogger) *Service {
	return &Service{
		provider: provider,
		from:     cfg.From,
		pacing:   cfg.BulkPacing,
		timeout:  cfg.SendTimeout,
		recorder: recorder,
		validate: validator.New(),
		logger:   logger,
		sleep:    sleepContext,
	}
}

// NewProvider picks the Resend provider when delivery is enabled and the log provider otherwise.
func NewProvider(cfg appConfig.MailConfig, logger *zap.SugaredLogger) Provider {
	if cfg.Enabled {
		return NewResendProvider(cfg.APIKey)
	}
	return NewLogProvider(logger)
}

// SendSingle delivers one message and returns the provider response.
func (s *Service) SendSingle(ctx context.Context, req *SendRequest) (*SendResponse, error) {
	if req.To == "" || req.Subject == "" || req.HTML == "" {
		return nil, errors.Join(ErrInvalidRequest, errors.New("to, subject and html are required"))
	}
	if err := s.validate.Var(req.To, "email"); err != nil {
		return nil, errors.Join(ErrInvalidRequest, errors.New("to must be an email address"))
	}

	id, err := s.provider.Send(ctx, Message{
		From:    s.sender(req.From),
		To:      []string{req.To},
		Subject: req.Subject,
		HTML:    req.HTML,
	})
	if err != nil {
		s.record(kindSingle, StatusFailed)
		s.logger.Warnw("single email failed", "error", err)
		return nil, err
	}

	s.record(kindSingle, StatusSent)
	return &SendResponse{ID: id}, nil
}

// SendBulk personalizes htmlTemplate for every recipient and sends it as one batch.
// When the batch fails each recipient is sent individually, paced by the configured delay.
func (s *Service) SendBulk(ctx context.Context, req *SendRequest) (*BulkResponse, error) {
	if len(req.Recipients) == 0 || req.Subject == "" || req.HTMLTemplate == "" {
		return nil, errors.Join(ErrInvalidRequest, errors.New("recipients, subject and htmlTemplate are required"))
	}
	if len(req.Recipients) > MaxRecipients {
		return nil, ErrTooManyRecipients
	}
	for _, r := range req.Recipients {
		if err := s.validate.Var(r.Email, "required,email"); err != nil {
			return nil, errors.Join(ErrInvalidRequest, errors.New("invalid recipient email "+r.Email))
		}
	}

	from := s.sender(req.From)
	msgs := make([]Message, 0, len(req.Recipients))
	for _, r := range req.Recipients {
		msgs = append(msgs, Message{
			From:    from,
			To:      []string{r.Email},
			Subject: personalize(req.Subject, r),
			HTML:    personalize(req.HTMLTemplate, r),
		})
	}

	resp := &BulkResponse{Results: make([]BulkResult, 0, len(msgs))}

	ids, err := s.provider.SendBatch(ctx, msgs)
	if err == nil {
		for i, r := range req.Recipients {
			resp.Results = append(resp.Results, BulkResult{Email: r.Email, Status: StatusSent, Data: &SendResponse{ID: ids[i]}})
			s.record(kindBulk, StatusSent)
		}
		s.logger.Infow("bulk email sent as batch", "recipients", len(msgs))
		return resp, nil
	}

	s.logger.Warnw("batch send failed, falling back to sequential sends", "recipients", len(msgs), "error", err)
	for i, msg := range msgs {
		email := req.Recipients[i].Email
		if i > 0 {
			if err := s.sleep(ctx, s.pacing); err != nil {
				return nil, err
			}
		}

		id, err := s.provider.Send(ctx, msg)
		if err != nil {
			s.logger.Warnw("sequential email failed", "email", email, "error", err)
			resp.Results = append(resp.Results, BulkResult{Email: email, Status: StatusFailed, Error: err.Error()})
			s.record(kindBulk, StatusFailed)
			continue
		}
		resp.Results = append(resp.Results, BulkResult{Email: email, Status: StatusSent, Data: &SendResponse{ID: id}})
		s.record(kindBulk, StatusSent)
	}
	return resp, nil
}

// Notify renders a notification template and sends it to one address.
func (s *Service) Notify(ctx context.Context, kind, to string, data NotificationData) error {
	subject, body, err := Render(kind, data)
	if err != nil {
		return err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if _, err := s.provider.Send(ctx, Message{From: s.from, To: []string{to}, Subject: subject, HTML: body}); err != nil {
		s.record(kind, StatusFailed)
		return err
	}
	s.record(kind, StatusSent)
	s.logger.Debugw("notification sent", "kind", kind)
	return nil
}

func (s *Service) sender(from string) string {
	if from != "" {
		return from
	}
	return s.from
}

func (s *Service) record(kind, status string) {
	if s.recorder != nil {
		s.recorder.EmailSent(kind, status)
	}
}

func personalize(tmpl string, r Recipient) string {
	return strings.NewReplacer(
		"{{name}}", html.EscapeString(r.Name),
		"{{email}}", html.EscapeString(r.Email),
	).Replace(tmpl)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
