package ledger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exercise runs the same contract checks against any backend.
func exercise(t *testing.T, l Ledger) {
	t.Helper()
	ctx := context.Background()
	session := "sess-" + time.Now().Format("150405.000000000")
	deployment := "dep-" + session
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	_, err := l.Latest(ctx, deployment)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, l.Append(ctx, Event{
		Kind:      KindRejected,
		SessionID: session,
		ChainName: "Game Verse",
		Error:     "deployment service returned 400: invalid chain id",
		CreatedAt: base,
	}))
	require.NoError(t, l.Append(ctx, Event{
		Kind:         KindSubmitted,
		SessionID:    session,
		DeploymentID: deployment,
		ConfigID:     "cfg-1",
		ChainName:    "Game Verse",
		ChainID:      412345,
		ParentChain:  "arbitrum-sepolia",
		Status:       "started",
		CreatedAt:    base.Add(time.Minute),
	}))
	require.NoError(t, l.Append(ctx, Event{
		Kind:         KindStatus,
		SessionID:    session,
		DeploymentID: deployment,
		Status:       "in_progress",
		Progress:     40,
		CreatedAt:    base.Add(2 * time.Minute),
	}))

	history, err := l.History(ctx, session)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, KindRejected, history[0].Kind)
	assert.Equal(t, KindSubmitted, history[1].Kind)
	assert.Equal(t, "cfg-1", history[1].ConfigID)
	assert.Equal(t, int64(412345), history[1].ChainID)
	assert.Equal(t, KindStatus, history[2].Kind)

	latest, err := l.Latest(ctx, deployment)
	require.NoError(t, err)
	assert.Equal(t, KindStatus, latest.Kind)
	assert.Equal(t, 40, latest.Progress)
	assert.Equal(t, session, latest.SessionID)
	assert.True(t, latest.CreatedAt.Equal(base.Add(2*time.Minute)))

	other, err := l.History(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestInMemory(t *testing.T) {
	l, err := NewFactory(context.Background(), Config{})
	require.NoError(t, err)
	exercise(t, l)
}

func TestSQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "ledger.db")
	l, err := NewFactory(context.Background(), Config{Type: TypeSQLite, ConnectionString: dsn})
	require.NoError(t, err)
	exercise(t, l)
}

func TestUnsupportedType(t *testing.T) {
	_, err := NewFactory(context.Background(), Config{Type: "cassandra"})
	assert.EqualError(t, err, "unsupported ledger type: cassandra")
}

func TestExternalBackends(t *testing.T) {
	backends := []struct {
		typ Type
		env string
	}{
		{TypePostgres, "LEDGER_TEST_POSTGRES_DSN"},
		{TypeMySQL, "LEDGER_TEST_MYSQL_DSN"},
		{TypeMSSQL, "LEDGER_TEST_MSSQL_DSN"},
		{TypeRedis, "LEDGER_TEST_REDIS_URL"},
		{TypeMongo, "LEDGER_TEST_MONGO_URI"},
		{TypeNeo4j, "LEDGER_TEST_NEO4J_URI"},
	}
	for _, b := range backends {
		t.Run(string(b.typ), func(t *testing.T) {
			conn := os.Getenv(b.env)
			if conn == "" {
				t.Skipf("Skipping %s ledger test: %s not set", b.typ, b.env)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			l, err := NewFactory(ctx, Config{
				Type:             b.typ,
				ConnectionString: conn,
				Username:         os.Getenv("LEDGER_TEST_USER"),
				Password:         os.Getenv("LEDGER_TEST_PASS"),
			})
			require.NoError(t, err)
			exercise(t, l)
		})
	}
}
