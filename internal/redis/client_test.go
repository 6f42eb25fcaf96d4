package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewClient("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRefreshTokenLifecycle(t *testing.T) {
	c := testClient(t)
	ctx := context.Background()

	if err := c.StoreRefreshToken(ctx, "tok123", 42, time.Hour); err != nil {
		t.Fatalf("StoreRefreshToken: %v", err)
	}

	userID, err := c.GetRefreshTokenUserID(ctx, "tok123")
	if err != nil {
		t.Fatalf("GetRefreshTokenUserID: %v", err)
	}
	if userID != 42 {
		t.Errorf("userID = %d, want 42", userID)
	}

	if err := c.DeleteRefreshToken(ctx, "tok123"); err != nil {
		t.Fatalf("DeleteRefreshToken: %v", err)
	}
	if _, err := c.GetRefreshTokenUserID(ctx, "tok123"); err == nil {
		t.Error("expected error after delete")
	}
}

func TestGetRefreshTokenUserID_Unknown(t *testing.T) {
	c := testClient(t)
	if _, err := c.GetRefreshTokenUserID(context.Background(), "nope"); err == nil {
		t.Error("expected error for unknown token")
	}
}

func TestCheckRateLimit(t *testing.T) {
	c := testClient(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		allowed, count, _, err := c.CheckRateLimit(ctx, "rl:test", 3, time.Minute)
		if err != nil {
			t.Fatalf("CheckRateLimit %d: %v", i, err)
		}
		if !allowed {
			t.Errorf("request %d should be allowed", i)
		}
		if count != int64(i) {
			t.Errorf("count = %d, want %d", count, i)
		}
	}

	allowed, count, ttlMs, err := c.CheckRateLimit(ctx, "rl:test", 3, time.Minute)
	if err != nil {
		t.Fatalf("CheckRateLimit: %v", err)
	}
	if allowed {
		t.Error("request over the limit should be denied")
	}
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}
	if ttlMs <= 0 {
		t.Errorf("ttlMs = %d, want positive", ttlMs)
	}
}

func TestCheckRateLimit_SeparateKeys(t *testing.T) {
	c := testClient(t)
	ctx := context.Background()

	if _, _, _, err := c.CheckRateLimit(ctx, "rl:a", 1, time.Minute); err != nil {
		t.Fatal(err)
	}
	allowed, _, _, err := c.CheckRateLimit(ctx, "rl:b", 1, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Error("separate keys should have separate windows")
	}
}

func TestPresence(t *testing.T) {
	c := testClient(t)
	ctx := context.Background()

	status, err := c.GetPresence(ctx, 7)
	if err != nil {
		t.Fatalf("GetPresence: %v", err)
	}
	if status != "" {
		t.Errorf("status = %q, want empty for unset presence", status)
	}

	if err := c.SetPresence(ctx, 7, "online"); err != nil {
		t.Fatalf("SetPresence: %v", err)
	}
	status, err = c.GetPresence(ctx, 7)
	if err != nil {
		t.Fatalf("GetPresence: %v", err)
	}
	if status != "online" {
		t.Errorf("status = %q, want online", status)
	}

	if err := c.DeletePresence(ctx, 7); err != nil {
		t.Fatalf("DeletePresence: %v", err)
	}
	status, _ = c.GetPresence(ctx, 7)
	if status != "" {
		t.Errorf("status = %q, want empty after delete", status)
	}
}
