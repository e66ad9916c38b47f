package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

// exerciseKV runs the behaviour every backend must share.
func exerciseKV(t *testing.T, kv KV) {
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, KeyProjects, []byte(`[{"id":1}]`)))
	data, ok, err := kv.Get(ctx, KeyProjects)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":1}]`, string(data))

	require.NoError(t, kv.Remove(ctx, KeyProjects))
	_, ok, err = kv.Get(ctx, KeyProjects)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Ping(ctx))
}

func TestMemoryStore(t *testing.T) {
	exerciseKV(t, NewMemoryStore())
}

func TestMemoryStore_ValueQuota(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore(WithMaxValueBytes(8))

	err := kv.Set(ctx, "k", []byte("0123456789"))
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	_, ok, _ := kv.Get(ctx, "k")
	assert.False(t, ok, "rejected write must not be stored")
}

func TestMemoryStore_TotalQuota(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore(WithMaxTotalBytes(10))

	require.NoError(t, kv.Set(ctx, "a", []byte("12345")))
	require.NoError(t, kv.Set(ctx, "b", []byte("12345")))
	assert.ErrorIs(t, kv.Set(ctx, "c", []byte("1")), ErrQuotaExceeded)

	// overwriting an existing key only counts the difference
	require.NoError(t, kv.Set(ctx, "a", []byte("1234")))
	require.NoError(t, kv.Remove(ctx, "b"))
	require.NoError(t, kv.Set(ctx, "c", []byte("123456")))
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()

	in := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", in))
	in[0] = 'x'

	out, _, _ := kv.Get(ctx, "k")
	assert.Equal(t, "abc", string(out))
}

func TestRedisStore(t *testing.T) {
	mr, client := setupTestRedis(t)
	kv := NewRedisStore(client, "dthub:", 1024)

	exerciseKV(t, kv)

	require.NoError(t, kv.Set(context.Background(), KeyTeamMembers, []byte(`[]`)))
	assert.True(t, mr.Exists("dthub:dt_team_members"))
}

func TestRedisStore_ValueQuota(t *testing.T) {
	_, client := setupTestRedis(t)
	kv := NewRedisStore(client, "", 4)

	err := kv.Set(context.Background(), "k", []byte("too large"))
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestIsRedisOOM(t *testing.T) {
	assert.True(t, isRedisOOM(errors.New("OOM command not allowed when used memory > 'maxmemory'.")))
	assert.False(t, isRedisOOM(errors.New("connection refused")))
}

func TestPostgresStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	kv := NewPostgresStore(db, "dthub:", 1024)
	ctx := context.Background()

	t.Run("get missing key", func(t *testing.T) {
		mock.ExpectQuery(`SELECT value FROM hub_kv WHERE key = \$1`).
			WithArgs("dthub:dt_projects").
			WillReturnRows(sqlmock.NewRows([]string{"value"}))

		_, ok, err := kv.Get(ctx, KeyProjects)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("get existing key", func(t *testing.T) {
		mock.ExpectQuery(`SELECT value FROM hub_kv WHERE key = \$1`).
			WithArgs("dthub:dt_projects").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[{"id":7}]`))

		data, ok, err := kv.Get(ctx, KeyProjects)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `[{"id":7}]`, string(data))
	})

	t.Run("set upserts", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO hub_kv`).
			WithArgs("dthub:dt_projects", `[]`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, kv.Set(ctx, KeyProjects, []byte(`[]`)))
	})

	t.Run("disk full maps to quota error", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO hub_kv`).
			WithArgs("dthub:dt_projects", `[]`).
			WillReturnError(&pgconn.PgError{Code: "53100", Message: "could not extend file"})

		err := kv.Set(ctx, KeyProjects, []byte(`[]`))
		assert.ErrorIs(t, err, ErrQuotaExceeded)
	})

	t.Run("oversized value never reaches the database", func(t *testing.T) {
		err := kv.Set(ctx, KeyProjects, make([]byte, 2048))
		assert.ErrorIs(t, err, ErrQuotaExceeded)
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO hub_kv`).
			WillReturnError(errors.New("connection reset"))

		err := kv.Set(ctx, KeyProjects, []byte(`[]`))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrQuotaExceeded)
	})

	t.Run("remove", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM hub_kv WHERE key = \$1`).
			WithArgs("dthub:dt_project_draft").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, kv.Remove(ctx, KeyProjectDraft))
	})

	t.Run("ensure schema", func(t *testing.T) {
		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS hub_kv`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, kv.EnsureSchema(ctx))
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScrollKey(t *testing.T) {
	assert.Equal(t, "dt_preview_scroll_1001", ScrollKey("1001"))
}
