// Package dbtest opens a migrated, seeded database for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/barefootnomad/api/db"
	"github.com/barefootnomad/api/models"
	"github.com/barefootnomad/api/services/utils"
	"gorm.io/driver/sqlite"
)

// New returns a GormDB backed by a SQLite file in t.TempDir().
func New(t testing.TB) *db.GormDB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	gormDB, err := db.Open(sqlite.Open(dsn), "test")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	g := &db.GormDB{DB: gormDB}
	t.Cleanup(func() {
		_ = g.Close()
	})
	return g
}

// CreateUser inserts a user with the given role and password "password1".
func CreateUser(t testing.TB, g *db.GormDB, email string, level models.RoleLevel) *models.User {
	t.Helper()

	var role models.Role
	if err := g.DB.Where("value = ?", level).First(&role).Error; err != nil {
		t.Fatalf("find role %s: %v", level, err)
	}
	hash, err := utils.HashPassword("password1")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Firstname:      "Test",
		Lastname:       level.String(),
		Email:          email,
		HashedPassword: hash,
		RoleID:         role.ID,
	}
	if err := g.DB.Omit("Role").Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	user.Role = role
	return user
}

// CreateRequest inserts a pending travel request owned by userID.
func CreateRequest(t testing.TB, g *db.GormDB, userID uint) *models.Request {
	t.Helper()

	request := &models.Request{
		UserID:      userID,
		Origin:      "Kigali",
		Destination: "Nairobi",
		Reason:      "conference",
		Status:      models.RequestPending,
	}
	if err := g.DB.Create(request).Error; err != nil {
		t.Fatalf("create request: %v", err)
	}
	return request
}
