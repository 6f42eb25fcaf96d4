package database

import (
	"os"
	"testing"
)

func TestMigrate_IdempotentOnCurrentSchema(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	if _, err := Migrate("file://../../migrations", dsn); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// Second run finds nothing to apply and must not report an error.
	changed, err := Migrate("file://../../migrations", dsn)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if changed {
		t.Error("second run reported changes on a current schema")
	}
}
