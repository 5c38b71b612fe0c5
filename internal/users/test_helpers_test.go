package users

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/userhubapp/userhub-backend/pkg/db/models"
	"github.com/userhubapp/userhub-backend/pkg/enums"
)

const createUsersTableSQL = `
CREATE TABLE users (
    id                TEXT PRIMARY KEY,
    name              TEXT NOT NULL,
    email             TEXT NOT NULL UNIQUE,
    phone             TEXT UNIQUE,
    password_hash     TEXT NOT NULL,
    role              TEXT NOT NULL DEFAULT 'user',
    profile_image_url TEXT,
    address           TEXT,
    city              TEXT,
    state             TEXT,
    country           TEXT,
    pincode           TEXT,
    last_login_at     DATETIME,
    created_at        DATETIME NOT NULL,
    updated_at        DATETIME NOT NULL
)`

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&mode=memory"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.Exec("DROP TABLE IF EXISTS users").Error; err != nil {
		t.Fatalf("drop users table: %v", err)
	}
	if err := conn.Exec(createUsersTableSQL).Error; err != nil {
		t.Fatalf("create users table: %v", err)
	}
	return conn
}

func mustCreateTestUser(t *testing.T, tx *gorm.DB, mutate func(u *models.User)) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Name:         "Repo Tester",
		Email:        fmt.Sprintf("uh_test_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		Role:         enums.UserRoleUser,
	}
	if mutate != nil {
		mutate(user)
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}
