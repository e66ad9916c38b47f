package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingKV struct{ KV }

func (failingKV) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("backend down")
}

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type settings struct {
	Enabled bool `json:"enabled"`
	Max     int  `json:"max"`
}

func TestReadList(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key yields empty list", func(t *testing.T) {
		got := ReadList[item](ctx, NewMemoryStore(), KeyProjects)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("malformed json yields empty list", func(t *testing.T) {
		kv := NewMemoryStore()
		require.NoError(t, kv.Set(ctx, KeyProjects, []byte(`{not json`)))
		assert.Empty(t, ReadList[item](ctx, kv, KeyProjects))
	})

	t.Run("object instead of array yields empty list", func(t *testing.T) {
		kv := NewMemoryStore()
		require.NoError(t, kv.Set(ctx, KeyProjects, []byte(`{"id":1}`)))
		assert.Empty(t, ReadList[item](ctx, kv, KeyProjects))
	})

	t.Run("null yields empty list", func(t *testing.T) {
		kv := NewMemoryStore()
		require.NoError(t, kv.Set(ctx, KeyProjects, []byte(`null`)))
		got := ReadList[item](ctx, kv, KeyProjects)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("backend failure yields empty list", func(t *testing.T) {
		assert.Empty(t, ReadList[item](ctx, failingKV{}, KeyProjects))
	})

	t.Run("round trip", func(t *testing.T) {
		kv := NewMemoryStore()
		require.NoError(t, WriteJSON(ctx, kv, KeyProjects, []item{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}))
		assert.Equal(t, []item{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}, ReadList[item](ctx, kv, KeyProjects))
	})
}

func TestReadObject(t *testing.T) {
	ctx := context.Background()
	def := settings{Enabled: true, Max: 50}

	t.Run("missing key yields default", func(t *testing.T) {
		assert.Equal(t, def, ReadObject(ctx, NewMemoryStore(), KeyNotificationSettings, def))
	})

	t.Run("partial document keeps defaults", func(t *testing.T) {
		kv := NewMemoryStore()
		require.NoError(t, kv.Set(ctx, KeyNotificationSettings, []byte(`{"max":10}`)))
		assert.Equal(t, settings{Enabled: true, Max: 10}, ReadObject(ctx, kv, KeyNotificationSettings, def))
	})

	t.Run("malformed document yields default", func(t *testing.T) {
		kv := NewMemoryStore()
		require.NoError(t, kv.Set(ctx, KeyNotificationSettings, []byte(`[1,2`)))
		assert.Equal(t, def, ReadObject(ctx, kv, KeyNotificationSettings, def))
	})
}

func TestWriteJSON_QuotaSurfaces(t *testing.T) {
	kv := NewMemoryStore(WithMaxValueBytes(4))
	err := WriteJSON(context.Background(), kv, KeyProjects, []item{{ID: 1}})
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}
