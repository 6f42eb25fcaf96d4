package database

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/victorivanov/guildgate/internal/models"
)

// testPool returns a pgxpool.Pool connected to the test database.
// It skips the test if DATABASE_URL is not set.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	return pool
}

// testIDCounter provides unique IDs across all tests in the package.
// Starts well above zero to avoid conflicts with any existing data.
var testIDCounter int64 = 500000

func nextID() int64 {
	return atomic.AddInt64(&testIDCounter, 1)
}

func nextCode(prefix string) string {
	return fmt.Sprintf("%s%07d", prefix, nextID()%10000000)
}

func createTestUser(t *testing.T, repo UserRepository) *models.User {
	t.Helper()
	id := nextID()
	user := &models.User{
		ID:           id,
		Username:     fmt.Sprintf("user%d", id),
		DisplayName:  fmt.Sprintf("User %d", id),
		PasswordHash: "$argon2id$test",
		CreatedAt:    time.Now().Truncate(time.Microsecond),
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(context.Background(), id) })
	return user
}

func createTestGuild(t *testing.T, repo GuildRepository, ownerID int64) *models.Guild {
	t.Helper()
	id := nextID()
	guild := &models.Guild{
		ID:        id,
		Name:      fmt.Sprintf("Guild %d", id),
		OwnerID:   ownerID,
		CreatedAt: time.Now().Truncate(time.Microsecond),
	}
	if err := repo.Create(context.Background(), guild); err != nil {
		t.Fatalf("creating test guild: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(context.Background(), id) })
	return guild
}
