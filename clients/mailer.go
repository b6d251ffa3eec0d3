package clients

import (
	"context"
	"fmt"

	"gin-inventory/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

type IMailer interface {
	Send(ctx context.Context, to string, subject string, htmlBody string) error
}

// NewMailer picks the transport named by cfg.Provider.
func NewMailer(ctx context.Context, cfg config.MailConfig, logger zerolog.Logger) (IMailer, error) {
	from := cfg.FromAddress
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress)
	}

	switch cfg.Provider {
	case "smtp":
		if cfg.SMTPHost == "" {
			return nil, errors.New("mail: smtp_host is required for the smtp provider")
		}
		return &SMTPMailer{
			dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
			from:   from,
		}, nil
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.SESRegion))
		if err != nil {
			return nil, errors.Wrap(err, "mail: load aws config")
		}
		return &SESMailer{client: ses.NewFromConfig(awsCfg), from: from}, nil
	default:
		return &LogMailer{logger: logger}, nil
	}
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func (m *SMTPMailer) Send(ctx context.Context, to string, subject string, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return errors.Wrap(err, "smtp send")
	}
	return nil
}

type SESMailer struct {
	client *ses.Client
	from   string
}

func (m *SESMailer) Send(ctx context.Context, to string, subject string, htmlBody string) error {
	input := &ses.SendEmailInput{
		Destination: &sestypes.Destination{ToAddresses: []string{to}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &sestypes.Body{
				Html: &sestypes.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(m.from),
	}
	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return errors.Wrap(err, "ses send")
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them. Used in
// development and tests.
type LogMailer struct {
	logger zerolog.Logger
}

func (m *LogMailer) Send(ctx context.Context, to string, subject string, htmlBody string) error {
	m.logger.Info().Str("to", to).Str("subject", subject).Str("body", htmlBody).Msg("mail not sent (log provider)")
	return nil
}
