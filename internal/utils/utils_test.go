package utils

import (
	"strings"
	"testing"
	"time"
)

func TestCacheExpires(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c, err := NewCache[string](2, time.Minute)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	c.WithClock(func() time.Time { return now })

	c.Set("a", "alpha")
	if v, ok := c.Get("a"); !ok || v != "alpha" {
		t.Fatalf("Expected alpha, got %q (%v)", v, ok)
	}

	now = now.Add(61 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("Expected entry to expire after ttl")
	}
	if c.Len() != 0 {
		t.Errorf("Expected expired entry to be evicted, len=%d", c.Len())
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewCache[int](2, time.Hour)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("Expected b to be evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Expected a=1 to survive, got %d (%v)", v, ok)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", "user-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	userID, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("Expected user-1, got %s", userID)
	}

	if _, err := ParseToken("other-secret", token); err == nil {
		t.Error("Expected token signed with another secret to be rejected")
	}
}

func TestTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", "user-1", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Error("Expected expired token to be rejected")
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("busfan123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !CheckPasswordHash("busfan123", hash) {
		t.Error("Expected password to match its hash")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("Expected wrong password to be rejected")
	}
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	out := string(RenderMarkdown("**bus** <script>alert(1)</script>"))
	if !strings.Contains(out, "<strong>bus</strong>") {
		t.Errorf("Expected bold markup, got %s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("Expected script to be stripped, got %s", out)
	}
}

func TestRenderMarkdownImages(t *testing.T) {
	out := string(RenderMarkdown("![bus](https://example.com/bus.png)"))
	if !strings.Contains(out, `loading="lazy"`) {
		t.Errorf("Expected lazy loading attribute, got %s", out)
	}
}
