package stores

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskboard/internal/data/db"
)

// backends returns a fresh SQLite database and, when
// TASKBOARD_TEST_POSTGRES_DSN is set, a PostgreSQL one with empty tables.
func backends(t *testing.T) map[string]*db.DB {
	t.Helper()

	lite, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = lite.Close() })

	out := map[string]*db.DB{"sqlite": lite}

	if dsn := os.Getenv("TASKBOARD_TEST_POSTGRES_DSN"); dsn != "" {
		pg, err := db.OpenPostgres(dsn, db.DefaultOpenOptions())
		require.NoError(t, err)
		t.Cleanup(func() { _ = pg.Close() })

		_, err = pg.Conn().ExecContext(context.Background(), "TRUNCATE tasks, profiles")
		require.NoError(t, err)
		out["postgres"] = pg
	}

	return out
}
