package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/digitaltwinshub/projects-hub/internal/logx"
)

// ReadList decodes the JSON array stored at key. A missing key, a backend
// failure or malformed JSON all yield an empty list; the latter two are logged.
func ReadList[T any](ctx context.Context, kv KV, key string) []T {
	out := []T{}
	if !readInto(ctx, kv, key, &out) || out == nil {
		return []T{}
	}
	return out
}

// ReadObject decodes the JSON object stored at key into a copy of def.
// Fields missing from the stored document keep def's values.
func ReadObject[T any](ctx context.Context, kv KV, key string, def T) T {
	out := def
	if !readInto(ctx, kv, key, &out) {
		return def
	}
	return out
}

func readInto(ctx context.Context, kv KV, key string, dst any) bool {
	data, ok, err := kv.Get(ctx, key)
	if err != nil {
		logx.FromContext(ctx, "storage").Warn("read failed, using default",
			zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok || len(data) == 0 {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		logx.FromContext(ctx, "storage").Warn("malformed stored value, using default",
			zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// WriteJSON encodes v and stores it at key.
func WriteJSON(ctx context.Context, kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return kv.Set(ctx, key, data)
}
