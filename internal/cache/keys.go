package cache

import (
	"fmt"
	"time"
)

// TTLs per key family. Finance keys are short-lived on purpose: revenue
// aggregates are never invalidated by mutations, freshness is bounded by
// expiry alone.
const (
	TTLTrips         = 300 * time.Second
	TTLCard          = 300 * time.Second
	TTLFinance       = 60 * time.Second
	TTLRoutes        = 300 * time.Second
	TTLRouteStations = 600 * time.Second
	TTLStations      = 60 * time.Second
)

func TripsTotalKey() string { return "trips:total" }

func TripsTotalLocalitiesKey() string { return "trips:total:localities" }

func CardTripsKey(cardID int64) string { return fmt.Sprintf("trips:card:%d", cardID) }

func CardBalanceKey(cardID int64) string { return fmt.Sprintf("card:%d:balance", cardID) }

func CardHistoryKey(cardID int64) string { return fmt.Sprintf("card:%d:history", cardID) }

func TotalRevenueKey() string { return "finance:total_revenue" }

func RevenueByLocalitiesKey() string { return "finance:revenue:by_localities" }

func RouteCodesKey() string { return "routes:codes" }

func RouteDetailsKey(code string) string { return fmt.Sprintf("route:%s:details", code) }

func RouteStationsKey(code string) string { return fmt.Sprintf("route:%s:stations", code) }

// StationsListKey folds the optional filters into the key so each filter
// combination caches separately.
func StationsListKey(locality, status string) string {
	return fmt.Sprintf("stations:list:%s:%s", locality, status)
}

func StationArrivalsKey(stationID int64) string {
	return fmt.Sprintf("station:%d:arrivals", stationID)
}

func StationAlertsKey(stationID int64, activeOnly bool) string {
	return fmt.Sprintf("station:%d:alerts:%t", stationID, activeOnly)
}
