package testutils

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/graffic/campusbot/internal/storage"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm/logger"
)

// DSNEnv points tests at an existing database instead of starting a container.
const DSNEnv = "TEST_DATABASE_DSN"

var (
	containerOnce sync.Once
	containerDSN  string
	containerErr  error
)

// TestDB wraps a migrated database connection for testing
type TestDB struct {
	*storage.DB
}

// NewTestDB returns a migrated database. The schema is truncated when the test
// ends. Tests are skipped in -short mode or when no database can be started.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	dsn, err := testDSN()
	if err != nil {
		t.Skipf("database unavailable: %v", err)
	}

	db, err := storage.Open(postgres.Open(dsn), logger.Silent)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := db.Migrate(ctx, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{DB: db}
	testDB.Cleanup()

	t.Cleanup(func() {
		testDB.Cleanup()
		_ = db.Close()
	})

	return testDB
}

// Cleanup truncates all tables
func (tdb *TestDB) Cleanup() {
	tables := []string{"quote_messages", "quotes", "identities", "reaction_patterns", "cache_entries"}
	for _, table := range tables {
		tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
	}
}

func testDSN() (string, error) {
	if dsn := os.Getenv(DSNEnv); dsn != "" {
		return dsn, nil
	}

	containerOnce.Do(func() {
		ctx := context.Background()
		container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
			tcpostgres.WithDatabase("campusbot_test"),
			tcpostgres.WithUsername("campusbot"),
			tcpostgres.WithPassword("campusbot"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			containerErr = fmt.Errorf("start postgres container: %w", err)
			return
		}
		containerDSN, containerErr = container.ConnectionString(ctx, "sslmode=disable")
	})

	return containerDSN, containerErr
}
