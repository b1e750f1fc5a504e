package db

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"buslink/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openWithLog(t *testing.T, buf *bytes.Buffer) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.db")
	conn, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), newGormConfig(buf))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { Close(conn) })
	return conn
}

func TestRecordNotFoundIsNotLogged(t *testing.T) {
	var buf bytes.Buffer
	conn := openWithLog(t, &buf)

	var user models.User
	err := conn.Where("username = ?", "nobody").First(&user).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("Expected ErrRecordNotFound, got %v", err)
	}
	if strings.Contains(buf.String(), "record not found") {
		t.Errorf("Expected no log line for a missing record, got %q", buf.String())
	}
}

func TestTimestampsAreUTC(t *testing.T) {
	var buf bytes.Buffer
	conn := openWithLog(t, &buf)

	user := models.User{ID: "u1", Username: "rider", Email: "rider@example.com", Password: "x"}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.CreatedAt.Location() != time.UTC {
		t.Errorf("Expected CreatedAt in UTC, got %v", user.CreatedAt.Location())
	}
}

func TestSeedDemoUserIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	conn := openWithLog(t, &buf)

	seedDemoUser(conn)
	seedDemoUser(conn)

	var count int64
	conn.Model(&models.User{}).Where("username = ?", "busfan").Count(&count)
	if count != 1 {
		t.Errorf("Expected one demo user, got %d", count)
	}
}
