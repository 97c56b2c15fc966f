// Package dbtest opens the live PostgreSQL database used by repository tests.
package dbtest

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ilya24037/www.spa.com-sub004/internal/db"
)

// DSNVariable names the environment variable holding the test database DSN.
const DSNVariable = "TEST_DB_DSN"

var (
	once    sync.Once
	pool    *pgxpool.Pool
	openErr error
)

// Open returns a pool on TEST_DB_DSN with the migrations applied. The pool is
// shared by every test of the package. The test is skipped when the variable
// is not set.
//
// Tests isolate themselves by using fresh provider IDs, so packages running
// against the same database in parallel do not see each other's rows.
func Open(t testing.TB) *pgxpool.Pool {
	t.Helper()

	once.Do(func() {
		// Attempt to load .env from the repository root
		_ = godotenv.Load("../../.env")

		dsn := os.Getenv(DSNVariable)
		if dsn == "" {
			return
		}

		ctx := context.Background()
		pool, openErr = db.NewPool(ctx, dsn)
		if openErr != nil {
			return
		}
		if _, openErr = db.Migrate(ctx, pool, zap.NewNop()); openErr != nil {
			pool.Close()
			pool = nil
		}
	})

	if openErr != nil {
		t.Fatalf("open test database: %v", openErr)
	}
	if pool == nil {
		t.Skipf("%s is not set, skipping database test", DSNVariable)
	}
	return pool
}

// NewProvider returns a fresh provider ID whose calendar rows are deleted
// when the test ends.
func NewProvider(t testing.TB, pool *pgxpool.Pool) string {
	t.Helper()
	id := uuid.NewString()
	t.Cleanup(func() {
		ctx := context.Background()
		for _, table := range []string{"booking_slots", "bookings", "schedule_overrides", "schedules"} {
			if _, err := pool.Exec(ctx, "DELETE FROM public."+table+" WHERE provider_id = $1", id); err != nil {
				t.Logf("clean %s failed: %v", table, err)
			}
		}
	})
	return id
}
