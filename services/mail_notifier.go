package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/barefootnomad/api/db"
	"github.com/barefootnomad/api/events"
	"github.com/barefootnomad/api/mailingservices"
	"github.com/pkg/errors"
)

const defaultMailTimeout = 15 * time.Second

// MailNotifier emails the recipient of comment and status events. Each send
// runs on its own goroutine.
type MailNotifier struct {
	mailer      mailingservices.Mailer
	authRepo    db.AuthRepository
	requestRepo db.RequestRepository
	timeout     time.Duration
	wg          sync.WaitGroup
}

func NewMailNotifier(mailer mailingservices.Mailer, authRepo db.AuthRepository, requestRepo db.RequestRepository) *MailNotifier {
	return &MailNotifier{
		mailer:      mailer,
		authRepo:    authRepo,
		requestRepo: requestRepo,
		timeout:     defaultMailTimeout,
	}
}

func (m *MailNotifier) Subscribe(bus events.Bus) {
	bus.Subscribe(events.EventNewComment, m.HandleNewComment)
	bus.Subscribe(events.EventRequestStatusChanged, m.HandleRequestStatus)
}

func (m *MailNotifier) HandleNewComment(ctx context.Context, event events.Event) error {
	payload, err := commentPayload(event)
	if err != nil {
		return err
	}
	request, err := m.requestRepo.FindRequestByID(payload.RequestID)
	if err != nil {
		return errors.Wrap(err, "new_comment mail")
	}
	recipient, ok := commentRecipient(request, payload.From)
	if !ok {
		return nil
	}

	subject := fmt.Sprintf("New comment on your travel request #%d", payload.RequestID)
	body := fmt.Sprintf("A new comment was posted on request #%d (%s to %s):\n\n%s",
		request.ID, request.Origin, request.Destination, payload.Comment.Comment)
	return m.notify(recipient, subject, body)
}

func (m *MailNotifier) HandleRequestStatus(ctx context.Context, event events.Event) error {
	payload, err := statusPayload(event)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Your travel request #%d was %s", payload.Request.ID, payload.Status)
	body := fmt.Sprintf("Your request to travel from %s to %s was %s.",
		payload.Request.Origin, payload.Request.Destination, payload.Status)
	return m.notify(payload.Request.UserID, subject, body)
}

func (m *MailNotifier) notify(userID uint, subject, body string) error {
	user, err := m.authRepo.FindUserByID(userID)
	if err != nil {
		return errors.Wrap(err, "mail recipient")
	}

	m.wg.Add(1)
	go func(to string) {
		defer m.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		if err := m.mailer.SendSimpleMessage(ctx, to, subject, body); err != nil {
			log.Printf("mail notifier: %v", err)
		}
	}(user.Email)
	return nil
}

// Wait blocks until queued mails have been handed to the provider.
func (m *MailNotifier) Wait() {
	m.wg.Wait()
}
