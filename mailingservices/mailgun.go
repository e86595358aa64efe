package mailingservices

import (
	"context"
	"log"

	"github.com/barefootnomad/api/config"
	"github.com/mailgun/mailgun-go/v4"
	"github.com/pkg/errors"
)

// Mailer sends plain text mail.
type Mailer interface {
	SendSimpleMessage(ctx context.Context, to, subject, body string) error
}

type Mailgun struct {
	Client *mailgun.MailgunImpl
	From   string
}

// NewMailgun returns nil when Mailgun is not configured.
func NewMailgun(conf *config.Config) *Mailgun {
	if !conf.MailEnabled() {
		log.Println("mailgun not configured; outgoing mail disabled")
		return nil
	}
	return &Mailgun{
		Client: mailgun.NewMailgun(conf.MgDomain, conf.MailgunApiKey),
		From:   conf.MgEmailFrom,
	}
}

func (mail *Mailgun) SendSimpleMessage(ctx context.Context, to, subject, body string) error {
	m := mail.Client.NewMessage(mail.From, subject, body, to)
	_, id, err := mail.Client.Send(ctx, m)
	if err != nil {
		return errors.Wrapf(err, "send mail to %s", to)
	}
	log.Printf("mail %q queued for %s: %s", subject, to, id)
	return nil
}
