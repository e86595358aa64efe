//go:build integration
// +build integration

package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/barefootnomad/api/db"
	"github.com/barefootnomad/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
)

// setupPostgres starts a throwaway postgres and returns a migrated GormDB.
func setupPostgres(t *testing.T) *db.GormDB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("barefoot"),
		postgres.WithUsername("barefoot"),
		postgres.WithPassword("barefoot"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	gormDB, err := db.Open(gormpostgres.Open(connStr), "test")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	g := &db.GormDB{DB: gormDB}
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func TestPostgresCommentLifecycle(t *testing.T) {
	g := setupPostgres(t)
	authRepo := db.NewAuthRepo(g)
	requestRepo := db.NewRequestRepo(g)
	commentRepo := db.NewCommentRepo(g)

	// Seeding twice must not duplicate reference rows.
	require.NoError(t, db.Seed(g.DB))

	user, err := authRepo.CreateUser(&models.User{Firstname: "Pat", Lastname: "Doe", Email: "pat@example.com"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleRequester, user.Role.Value)

	request, err := requestRepo.CreateRequest(&models.Request{UserID: user.ID, Origin: "Kigali", Destination: "Lagos"})
	require.NoError(t, err)

	first, err := commentRepo.CreateComment(&models.Comment{RequestID: request.ID, UserID: user.ID, Comment: "first"})
	require.NoError(t, err)
	second, err := commentRepo.CreateComment(&models.Comment{RequestID: request.ID, UserID: user.ID, Comment: "second"})
	require.NoError(t, err)

	comments, err := commentRepo.ListActiveComments(request.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, second.ID, comments[0].ID)
	require.NotNil(t, comments[0].Author)
	assert.Equal(t, "Pat", comments[0].Author.Firstname)

	require.NoError(t, commentRepo.DeactivateComment(first.ID))
	comments, err = commentRepo.ListActiveComments(request.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	changed, err := requestRepo.UpdateRequestStatus(request.ID, models.RequestPending, models.RequestApproved, user.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = requestRepo.UpdateRequestStatus(request.ID, models.RequestPending, models.RequestRejected, user.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	var roles int64
	require.NoError(t, g.DB.Model(&models.Role{}).Count(&roles).Error)
	assert.Equal(t, int64(4), roles)
}
