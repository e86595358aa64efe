package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/barefootnomad/api/db"
	"github.com/barefootnomad/api/db/dbtest"
	"github.com/barefootnomad/api/events"
	"github.com/barefootnomad/api/models"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendSimpleMessage(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, subject, body})
	return m.err
}

func (m *fakeMailer) messages() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

func TestMailNotifierNewComment(t *testing.T) {
	g := dbtest.New(t)
	owner := dbtest.CreateUser(t, g, "owner@example.com", models.RoleRequester)
	manager := dbtest.CreateUser(t, g, "manager@example.com", models.RoleManager)
	request := dbtest.CreateRequest(t, g, owner.ID)

	mailer := &fakeMailer{}
	notifier := NewMailNotifier(mailer, db.NewAuthRepo(g), db.NewRequestRepo(g))
	bus := events.NewEmitter()
	notifier.Subscribe(bus)
	comments := NewCommentService(db.NewRequestRepo(g), db.NewCommentRepo(g), bus)

	_, apiErr := comments.CreateComment(context.Background(), idString(request.ID), callerOf(manager), "Need receipts")
	require.Nil(t, apiErr)
	notifier.Wait()

	sent := mailer.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "owner@example.com", sent[0].to)
	assert.Contains(t, sent[0].body, "need receipts")
}

func TestMailFailureDoesNotFailComment(t *testing.T) {
	g := dbtest.New(t)
	owner := dbtest.CreateUser(t, g, "owner@example.com", models.RoleRequester)
	manager := dbtest.CreateUser(t, g, "manager@example.com", models.RoleManager)
	request := dbtest.CreateRequest(t, g, owner.ID)

	mailer := &fakeMailer{err: errors.New("mailgun down")}
	notifier := NewMailNotifier(mailer, db.NewAuthRepo(g), db.NewRequestRepo(g))
	bus := events.NewEmitter()
	notifier.Subscribe(bus)
	comments := NewCommentService(db.NewRequestRepo(g), db.NewCommentRepo(g), bus)

	comment, apiErr := comments.CreateComment(context.Background(), idString(request.ID), callerOf(manager), "still saved")
	require.Nil(t, apiErr)
	notifier.Wait()
	assert.NotZero(t, comment.ID)
	assert.Len(t, mailer.messages(), 1)
}

type fakePublisher struct {
	subjects []string
	payloads [][]byte
}

func (p *fakePublisher) Publish(subject string, data []byte) error {
	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, data)
	return nil
}

func TestNATSForwarder(t *testing.T) {
	pub := &fakePublisher{}
	forwarder := NewNATSForwarder(pub, "barefoot")
	bus := events.NewEmitter()
	forwarder.Subscribe(bus)

	comment := models.Comment{RequestID: 3, UserID: 4, Comment: "hello", Active: true}
	comment.ID = 11
	bus.Publish(context.Background(), events.Event{
		Name:    events.EventNewComment,
		Payload: events.CommentEvent{Comment: comment, From: 4},
	})

	require.Len(t, pub.subjects, 1)
	assert.Equal(t, "barefoot.new_comment", pub.subjects[0])

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(pub.payloads[0], &decoded))
	assert.EqualValues(t, 11, decoded["id"])
	assert.EqualValues(t, 3, decoded["request_id"])
	assert.EqualValues(t, 4, decoded["from"])
	assert.Equal(t, "hello", decoded["comment"])
	assert.Equal(t, true, decoded["active"])

	assert.Equal(t, "request_status_changed", NewNATSForwarder(pub, "").Subject(events.EventRequestStatusChanged))
}

type memoryStorage struct {
	uploads map[uint][]byte
}

func (m *memoryStorage) UploadAvatar(ctx context.Context, userID uint, data []byte) (string, error) {
	if m.uploads == nil {
		m.uploads = make(map[uint][]byte)
	}
	m.uploads[userID] = data
	return "https://cdn.example.com/avatars/" + idString(userID) + ".jpg", nil
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessAvatar(t *testing.T) {
	data, err := ProcessAvatar(bytes.NewReader(testPNG(t, 600, 300)))
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, AvatarSize, img.Bounds().Dx())
	assert.Equal(t, AvatarSize, img.Bounds().Dy())

	_, err = ProcessAvatar(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}
