package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/verte-zerg/ontap/internal/logger"
)

// Mailer sends e-mail.
type Mailer interface {
	Enabled() bool
	Send(ctx context.Context, e Email) error
}

type sesAPI interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESMailer sends through Amazon SES. It is disabled when no sender address
// is configured and then drops every message.
type SESMailer struct {
	client   sesAPI
	from     string
	fromName string
	enabled  bool
	log      *logger.Logger
}

var _ Mailer = (*SESMailer)(nil)

// NewSESMailer loads the default AWS configuration for region.
func NewSESMailer(ctx context.Context, region, from, fromName string, log *logger.Logger) (*SESMailer, error) {
	log = logger.OrNop(log)
	if from == "" {
		log.Info("email disabled: no sender address configured")
		return &SESMailer{log: log}, nil
	}
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	log.Info("email enabled", "from", from, "region", cfg.Region)
	return newSESMailer(sesv2.NewFromConfig(cfg), from, fromName, log), nil
}

func newSESMailer(client sesAPI, from, fromName string, log *logger.Logger) *SESMailer {
	return &SESMailer{client: client, from: from, fromName: fromName, enabled: true, log: logger.OrNop(log)}
}

// Enabled reports whether messages are actually sent.
func (m *SESMailer) Enabled() bool {
	return m.enabled
}

// Send delivers e.
func (m *SESMailer) Send(ctx context.Context, e Email) error {
	if !m.enabled {
		m.log.Warn("skipping email (disabled)", "to", e.To, "subject", e.Subject)
		return nil
	}
	fromAddress := m.from
	if m.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", m.fromName, m.from)
	}
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{e.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: utf8Content(e.Subject),
				Body: &types.Body{
					Html: utf8Content(e.HTML),
					Text: utf8Content(e.Text),
				},
			},
		},
	}
	out, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", e.To, err)
	}
	m.log.Info("email sent", "to", e.To, "message_id", aws.ToString(out.MessageId))
	return nil
}

func utf8Content(s string) *types.Content {
	return &types.Content{Data: aws.String(s), Charset: aws.String("UTF-8")}
}
