package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"buslink/internal/db"
	"buslink/internal/models"

	"gorm.io/gorm"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type testEnv struct {
	db      *gorm.DB
	clock   *fakeClock
	posts   *PostService
	likes   *LikeService
	counter *LikeCounter
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close(conn) })
	return conn
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn := newTestDB(t)
	clock := &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}

	limiter, err := NewSlidingWindowLimiter(3, time.Minute)
	if err != nil {
		t.Fatalf("limiter: %v", err)
	}
	limiter.WithClock(clock.Now)

	counter := NewLikeCounter(conn)
	return &testEnv{
		db:      conn,
		clock:   clock,
		posts:   NewPostService(conn, NewAssembler(NewUserDirectory(conn)), limiter).WithClock(clock.Now),
		likes:   NewLikeService(conn, counter),
		counter: counter,
	}
}

func (e *testEnv) createUser(t *testing.T, id, username string) models.User {
	t.Helper()
	user := models.User{
		ID:       id,
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		ImageURL: "https://example.com/" + username + ".png",
	}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// mustCreate spaces posts 30s apart so ordering is deterministic and the
// 3-per-minute limit is never hit.
func (e *testEnv) mustCreate(t *testing.T, authorID, content string, parentID *string) *models.Post {
	t.Helper()
	e.clock.Advance(30 * time.Second)
	post, err := e.posts.CreatePost(context.Background(), authorID, content, parentID)
	if err != nil {
		t.Fatalf("CreatePost(%q) failed: %v", content, err)
	}
	return post
}

func expectCode(t *testing.T, err error, want Code) {
	t.Helper()
	if got := CodeOf(err); got != want {
		t.Fatalf("Expected %s, got %s (%v)", want, got, err)
	}
}
