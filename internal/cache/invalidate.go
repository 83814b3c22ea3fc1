package cache

import (
	"context"

	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/utils"
)

// RechargeKeys lists the entries a balance top-up makes stale.
func RechargeKeys(cardID int64) []string {
	return []string{
		CardBalanceKey(cardID),
		CardHistoryKey(cardID),
	}
}

// TripStartKeys lists the entries a new boarding makes stale. The balance key
// is untouched here: boarding does not debit the card.
func TripStartKeys(cardID int64) []string {
	return []string{
		TripsTotalKey(),
		CardTripsKey(cardID),
		TripsTotalLocalitiesKey(),
	}
}

// TripEndKeys lists the entries a completed trip makes stale, including the
// balance key because the fare is debited on disembarking.
func TripEndKeys(cardID int64) []string {
	return []string{
		TripsTotalKey(),
		CardTripsKey(cardID),
		TripsTotalLocalitiesKey(),
		CardBalanceKey(cardID),
	}
}

// Invalidator deletes cache entries after a mutation commits. Failures are
// logged and swallowed: entries that survive a failed delete age out via
// their TTL, and the transaction they trail is already durable.
type Invalidator struct {
	Store Store
}

func (iv Invalidator) Invalidate(ctx context.Context, requestID string, keys ...string) {
	if iv.Store == nil || len(keys) == 0 {
		return
	}
	if err := iv.Store.Delete(ctx, keys...); err != nil {
		utils.LogEvent(requestID, "cache", "invalidate_error", err.Error())
		return
	}
	for _, key := range keys {
		utils.LogEvent(requestID, "cache", "invalidate", key)
	}
}
