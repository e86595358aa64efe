package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/barefootnomad/api/db"
	"github.com/barefootnomad/api/db/dbtest"
	"github.com/barefootnomad/api/events"
	"github.com/barefootnomad/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPush(t *testing.T) {
	hub := NewHub()
	a := hub.Register(1)
	b := hub.Register(1)
	other := hub.Register(2)

	assert.Equal(t, 2, hub.Push(1, map[string]string{"hello": "world"}))
	assert.JSONEq(t, `{"hello":"world"}`, string(<-a.Messages()))
	assert.JSONEq(t, `{"hello":"world"}`, string(<-b.Messages()))
	assert.Empty(t, other.Messages())

	hub.Unregister(a)
	hub.Unregister(a)
	_, open := <-a.Messages()
	assert.False(t, open)
	assert.Equal(t, 1, hub.Push(1, "again"))
	assert.Equal(t, 0, hub.Push(3, "nobody"))
}

func TestNotificationOnNewComment(t *testing.T) {
	g := dbtest.New(t)
	owner := dbtest.CreateUser(t, g, "owner@example.com", models.RoleRequester)
	manager := dbtest.CreateUser(t, g, "manager@example.com", models.RoleManager)
	request := dbtest.CreateRequest(t, g, owner.ID)

	hub := NewHub()
	stream := hub.Register(owner.ID)
	bus := events.NewEmitter()
	notifications := NewNotificationService(db.NewNotificationRepo(g), db.NewRequestRepo(g), hub)
	notifications.Subscribe(bus)
	comments := NewCommentService(db.NewRequestRepo(g), db.NewCommentRepo(g), bus)

	_, apiErr := comments.CreateComment(context.Background(), idString(request.ID), callerOf(manager), "Please add dates")
	require.Nil(t, apiErr)

	list, apiErr := notifications.ListNotifications(owner.ID)
	require.Nil(t, apiErr)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationNewComment, list[0].Type)
	assert.Equal(t, manager.ID, list[0].SenderID)
	assert.Equal(t, request.ID, list[0].RequestID)
	assert.Contains(t, list[0].Message, "please add dates")

	var pushed models.Notification
	require.NoError(t, json.Unmarshal(<-stream.Messages(), &pushed))
	assert.Equal(t, list[0].ID, pushed.ID)

	// the owner commenting on their own request notifies nobody
	_, apiErr = comments.CreateComment(context.Background(), idString(request.ID), callerOf(owner), "thanks")
	require.Nil(t, apiErr)
	list, apiErr = notifications.ListNotifications(owner.ID)
	require.Nil(t, apiErr)
	assert.Len(t, list, 1)

	apiErr = notifications.MarkAsRead(idString(list[0].ID), manager.ID)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Nil(t, notifications.MarkAsRead(idString(list[0].ID), owner.ID))
}

func TestNotificationOnStatusChange(t *testing.T) {
	g := dbtest.New(t)
	owner := dbtest.CreateUser(t, g, "owner@example.com", models.RoleRequester)
	manager := dbtest.CreateUser(t, g, "manager@example.com", models.RoleManager)
	request := dbtest.CreateRequest(t, g, owner.ID)

	bus := events.NewEmitter()
	notifications := NewNotificationService(db.NewNotificationRepo(g), db.NewRequestRepo(g), nil)
	notifications.Subscribe(bus)
	requests := NewRequestService(db.NewRequestRepo(g), db.NewAccommodationRepo(g), bus)

	_, apiErr := requests.DecideRequest(context.Background(), idString(request.ID), callerOf(manager), models.RequestRejected)
	require.Nil(t, apiErr)

	list, apiErr := notifications.ListNotifications(owner.ID)
	require.Nil(t, apiErr)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationRequestStatus, list[0].Type)
	assert.Contains(t, list[0].Message, "rejected")
}

func TestNotificationRejectsUnknownPayload(t *testing.T) {
	g := dbtest.New(t)
	notifications := NewNotificationService(db.NewNotificationRepo(g), db.NewRequestRepo(g), nil)

	err := notifications.HandleNewComment(context.Background(), events.Event{Name: events.EventNewComment, Payload: 42})
	assert.Error(t, err)
}

func TestCommentRecipient(t *testing.T) {
	managerID := uint(9)
	request := &models.Request{UserID: 1}

	to, ok := commentRecipient(request, 2)
	assert.True(t, ok)
	assert.Equal(t, uint(1), to)

	_, ok = commentRecipient(request, 1)
	assert.False(t, ok)

	request.ManagerID = &managerID
	to, ok = commentRecipient(request, 1)
	assert.True(t, ok)
	assert.Equal(t, managerID, to)
}
