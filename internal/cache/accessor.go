package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/utils"
)

// FetchFunc computes a value from the source of record on a cache miss.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// GetOrCompute is the single read path for cached values: look the key up,
// decode on a hit, otherwise compute and store the result under the given
// TTL. Store failures never fail the read. When Get errors for any reason
// other than a plain miss the store is treated as down and the computed
// value is returned without being written back.
//
// The boolean result reports whether the value came from the cache.
func GetOrCompute[T any](ctx context.Context, store Store, key string, ttl time.Duration, requestID string, fetch FetchFunc[T]) (T, bool, error) {
	raw, err := store.Get(ctx, key)
	if err == nil {
		var out T
		if uerr := json.Unmarshal(raw, &out); uerr == nil {
			utils.LogEvent(requestID, "cache", "hit", key)
			return out, true, nil
		}
		// Corrupt entry: recompute below and overwrite it.
		utils.LogEvent(requestID, "cache", "decode_error", key)
	} else if !errors.Is(err, ErrMiss) {
		utils.LogEvent(requestID, "cache", "get_error", key+": "+err.Error())
		out, ferr := fetch(ctx)
		return out, false, ferr
	} else {
		utils.LogEvent(requestID, "cache", "miss", key)
	}

	out, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}

	if encoded, merr := json.Marshal(out); merr == nil {
		if serr := store.SetWithTTL(ctx, key, encoded, ttl); serr != nil && !errors.Is(serr, ErrUnavailable) {
			utils.LogEvent(requestID, "cache", "set_error", key+": "+serr.Error())
		}
	}
	return out, false, nil
}
