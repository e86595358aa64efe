package server

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/barefootnomad/api/config"
	"github.com/barefootnomad/api/db"
	"github.com/barefootnomad/api/db/dbtest"
	"github.com/barefootnomad/api/events"
	"github.com/barefootnomad/api/models"
	"github.com/barefootnomad/api/services"
	"github.com/barefootnomad/api/services/jwt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	t       *testing.T
	g       *db.GormDB
	server  *Server
	router  *gin.Engine
	owner   *models.User
	other   *models.User
	manager *models.User
	request *models.Request
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	g := dbtest.New(t)
	conf := &config.Config{
		Env:            "test",
		BaseUrl:        "http://localhost:3000",
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		ResetTokenTTL:  10 * time.Minute,
		LoginRateLimit: 100,
	}

	authRepo := db.NewAuthRepo(g)
	requestRepo := db.NewRequestRepo(g)
	bus := events.NewEmitter()
	hub := services.NewHub()
	notificationService := services.NewNotificationService(db.NewNotificationRepo(g), requestRepo, hub)
	notificationService.Subscribe(bus)

	s := &Server{
		Config:               conf,
		AuthRepository:       authRepo,
		AuthService:          services.NewAuthService(authRepo, conf, nil, nil),
		CommentService:       services.NewCommentService(requestRepo, db.NewCommentRepo(g), bus),
		RequestService:       services.NewRequestService(requestRepo, db.NewAccommodationRepo(g), bus),
		AccommodationService: services.NewAccommodationService(db.NewAccommodationRepo(g)),
		NotificationService:  notificationService,
		Hub:                  hub,
	}

	owner := dbtest.CreateUser(t, g, "owner@example.com", models.RoleRequester)
	return &testEnv{
		t:       t,
		g:       g,
		server:  s,
		router:  s.setupRouter(),
		owner:   owner,
		other:   dbtest.CreateUser(t, g, "other@example.com", models.RoleRequester),
		manager: dbtest.CreateUser(t, g, "manager@example.com", models.RoleManager),
		request: dbtest.CreateRequest(t, g, owner.ID),
	}
}

func (e *testEnv) token(u *models.User) string {
	e.t.Helper()
	token, err := jwt.GenerateToken(u.ID, u.Role.Value, e.server.Config.JWTSecret, time.Hour)
	require.NoError(e.t, err)
	return token
}

// do sends body as JSON and decodes the response envelope.
func (e *testEnv) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	e.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(e.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func (e *testEnv) commentsPath(requestID uint) string {
	return "/api/v1/requests/" + strconv.FormatUint(uint64(requestID), 10) + "/comments"
}

func (e *testEnv) commentPath(requestID, commentID uint) string {
	return e.commentsPath(requestID) + "/" + strconv.FormatUint(uint64(commentID), 10)
}

func newUser(e *testEnv, email string, level models.RoleLevel) *models.User {
	e.t.Helper()
	return dbtest.CreateUser(e.t, e.g, email, level)
}
