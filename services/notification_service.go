package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/barefootnomad/api/db"
	apiError "github.com/barefootnomad/api/errors"
	"github.com/barefootnomad/api/events"
	"github.com/barefootnomad/api/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// NotificationService stores in-app notifications and pushes them to the
// recipient's open streams.
type NotificationService interface {
	Subscribe(bus events.Bus)
	HandleNewComment(ctx context.Context, event events.Event) error
	HandleRequestStatus(ctx context.Context, event events.Event) error
	ListNotifications(userID uint) ([]models.Notification, *apiError.Error)
	MarkAsRead(id string, userID uint) *apiError.Error
}

type notificationService struct {
	notificationRepo db.NotificationRepository
	requestRepo      db.RequestRepository
	hub              *Hub
}

func NewNotificationService(notificationRepo db.NotificationRepository, requestRepo db.RequestRepository, hub *Hub) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		requestRepo:      requestRepo,
		hub:              hub,
	}
}

func (s *notificationService) Subscribe(bus events.Bus) {
	bus.Subscribe(events.EventNewComment, s.HandleNewComment)
	bus.Subscribe(events.EventRequestStatusChanged, s.HandleRequestStatus)
}

// commentRecipient picks who hears about a comment: the request owner, or
// the deciding manager when the owner wrote it. ok is false when nobody
// should be told.
func commentRecipient(request *models.Request, from uint) (uint, bool) {
	if request.UserID != from {
		return request.UserID, true
	}
	if request.ManagerID != nil && *request.ManagerID != from {
		return *request.ManagerID, true
	}
	return 0, false
}

func commentPayload(event events.Event) (events.CommentEvent, error) {
	switch p := event.Payload.(type) {
	case events.CommentEvent:
		return p, nil
	case *events.CommentEvent:
		return *p, nil
	}
	return events.CommentEvent{}, fmt.Errorf("unexpected %s payload %T", event.Name, event.Payload)
}

func statusPayload(event events.Event) (events.RequestStatusEvent, error) {
	switch p := event.Payload.(type) {
	case events.RequestStatusEvent:
		return p, nil
	case *events.RequestStatusEvent:
		return *p, nil
	}
	return events.RequestStatusEvent{}, fmt.Errorf("unexpected %s payload %T", event.Name, event.Payload)
}

func (s *notificationService) HandleNewComment(ctx context.Context, event events.Event) error {
	payload, err := commentPayload(event)
	if err != nil {
		return err
	}
	request, err := s.requestRepo.FindRequestByID(payload.RequestID)
	if err != nil {
		return errors.Wrap(err, "new_comment notification")
	}
	recipient, ok := commentRecipient(request, payload.From)
	if !ok {
		return nil
	}

	return s.deliver(&models.Notification{
		UserID:    recipient,
		SenderID:  payload.From,
		RequestID: payload.RequestID,
		Type:      models.NotificationNewComment,
		Message:   fmt.Sprintf("New comment on request #%d: %s", payload.RequestID, payload.Comment.Comment),
	})
}

func (s *notificationService) HandleRequestStatus(ctx context.Context, event events.Event) error {
	payload, err := statusPayload(event)
	if err != nil {
		return err
	}
	return s.deliver(&models.Notification{
		UserID:    payload.Request.UserID,
		SenderID:  payload.ManagerID,
		RequestID: payload.Request.ID,
		Type:      models.NotificationRequestStatus,
		Message:   fmt.Sprintf("Your request #%d was %s", payload.Request.ID, payload.Status),
	})
}

func (s *notificationService) deliver(notification *models.Notification) error {
	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.Push(notification.UserID, notification)
	}
	return nil
}

func (s *notificationService) ListNotifications(userID uint) ([]models.Notification, *apiError.Error) {
	notifications, err := s.notificationRepo.ListNotifications(userID)
	if err != nil {
		return nil, apiError.InternalError(err)
	}
	return notifications, nil
}

func (s *notificationService) MarkAsRead(id string, userID uint) *apiError.Error {
	notificationID, err := strconv.ParseUint(id, 10, 64)
	if err != nil || notificationID == 0 {
		return apiError.ValidationError("Invalid notification id")
	}
	err = s.notificationRepo.MarkAsRead(uint(notificationID), userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apiError.NotFoundError("Notification not found")
	}
	if err != nil {
		return apiError.InternalError(err)
	}
	return nil
}
