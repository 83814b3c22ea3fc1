package repositories

import (
	"database/sql"
	"time"

	intconfig "github.com/FreddyB200/sistema-recarga-viajes-backend/internal/config"
	intdb "github.com/FreddyB200/sistema-recarga-viajes-backend/internal/db"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/domain"
)

// TripTotals is the network-wide counters payload.
type TripTotals struct {
	TotalTrips     int64        `json:"total_trips"`
	CompletedTrips int64        `json:"completed_trips"`
	ActiveTrips    int64        `json:"active_trips"`
	TotalRevenue   domain.Money `json:"total_revenue"`
}

// LocalityTripStats is one per-locality aggregate row.
type LocalityTripStats struct {
	Locality       string       `json:"locality"`
	TotalTrips     int64        `json:"total_trips"`
	CompletedTrips int64        `json:"completed_trips"`
	ActiveTrips    int64        `json:"active_trips"`
	TotalRevenue   domain.Money `json:"total_revenue"`
}

// CardTrip is one row of a card's trip listing. Status is derived from the
// disembarking time, the table stores no state column.
type CardTrip struct {
	TripID                  int64         `json:"trip_id"`
	CardID                  int64         `json:"card_id"`
	RouteCode               *string       `json:"route_code"`
	BoardingStationID       int64         `json:"boarding_station_id"`
	BoardingStationName     *string       `json:"boarding_station_name"`
	DisembarkingStationID   *int64        `json:"disembarking_station_id"`
	DisembarkingStationName *string       `json:"disembarking_station_name"`
	BoardingTime            time.Time     `json:"boarding_time"`
	DisembarkingTime        *time.Time    `json:"disembarking_time"`
	Status                  string        `json:"status"`
	IsTransfer              bool          `json:"is_transfer"`
	Fare                    *domain.Money `json:"fare"`
}

// ActiveTrip carries the in-progress row plus the card balance, loaded in
// one query at the start of the end-trip transaction.
type ActiveTrip struct {
	TripID            int64
	CardID            int64
	RouteID           int64
	BoardingStationID int64
	BoardingTime      time.Time
	FareID            sql.NullInt64
	Balance           domain.Money
}

// NewTrip is the insert payload for a boarding. Zero-valued FareID,
// VehicleID and DriverID are stored as NULL.
type NewTrip struct {
	CardID            int64
	RouteID           int64
	BoardingStationID int64
	BoardingTime      time.Time
	FareID            int64
	IsTransfer        bool
	TransferGroupID   string
	VehicleID         int64
	DriverID          int64
}

type TripsRepository struct {
	DB *sql.DB
}

func (r TripsRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Totals aggregates all trips; revenue only counts completed ones.
func (r TripsRepository) Totals() (TripTotals, error) {
	var totals TripTotals
	err := r.db().QueryRow(`
		SELECT
			COUNT(*) AS total_trips,
			COUNT(CASE WHEN t.disembarking_time IS NOT NULL THEN 1 END) AS completed_trips,
			COUNT(CASE WHEN t.disembarking_time IS NULL THEN 1 END) AS active_trips,
			COALESCE(SUM(CASE WHEN t.disembarking_time IS NOT NULL THEN f.value ELSE 0 END), 0) AS total_revenue
		FROM trips t
		LEFT JOIN fares f ON f.fare_id = t.fare_id
	`).Scan(
		&totals.TotalTrips,
		&totals.CompletedTrips,
		&totals.ActiveTrips,
		&totals.TotalRevenue,
	)
	return totals, err
}

// TotalsByLocality groups the same counters by the boarding station's
// locality, busiest first.
func (r TripsRepository) TotalsByLocality() ([]LocalityTripStats, error) {
	rows, err := r.db().Query(`
		SELECT
			loc.name AS locality,
			COUNT(*) AS total_trips,
			COUNT(CASE WHEN t.disembarking_time IS NOT NULL THEN 1 END) AS completed_trips,
			COUNT(CASE WHEN t.disembarking_time IS NULL THEN 1 END) AS active_trips,
			COALESCE(SUM(CASE WHEN t.disembarking_time IS NOT NULL THEN f.value ELSE 0 END), 0) AS total_revenue
		FROM trips t
		JOIN stations s ON s.station_id = t.boarding_station_id
		JOIN locations loc ON loc.location_id = s.location_id
		LEFT JOIN fares f ON f.fare_id = t.fare_id
		GROUP BY loc.name
		ORDER BY total_trips DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []LocalityTripStats{}
	for rows.Next() {
		var rec LocalityTripStats
		if err := rows.Scan(
			&rec.Locality,
			&rec.TotalTrips,
			&rec.CompletedTrips,
			&rec.ActiveTrips,
			&rec.TotalRevenue,
		); err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// TripsByCard returns the card's ten most recent boardings, newest first.
func (r TripsRepository) TripsByCard(cardID int64) ([]CardTrip, error) {
	rows, err := r.db().Query(`
		SELECT
			t.trip_id,
			t.card_id,
			r.route_code,
			t.boarding_station_id,
			s1.name AS boarding_station_name,
			t.disembarking_station_id,
			s2.name AS disembarking_station_name,
			t.boarding_time,
			t.disembarking_time,
			t.is_transfer,
			f.value AS fare
		FROM trips t
		LEFT JOIN routes r ON r.route_id = t.route_id
		LEFT JOIN stations s1 ON s1.station_id = t.boarding_station_id
		LEFT JOIN stations s2 ON s2.station_id = t.disembarking_station_id
		LEFT JOIN fares f ON f.fare_id = t.fare_id
		WHERE t.card_id = ?
		ORDER BY t.boarding_time DESC
		LIMIT 10
	`, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CardTrip{}
	for rows.Next() {
		var (
			rec          CardTrip
			routeCode    sql.NullString
			endStationID sql.NullInt64
			startName    sql.NullString
			endName      sql.NullString
			endTime      sql.NullTime
			fare         sql.NullString
		)
		if err := rows.Scan(
			&rec.TripID,
			&rec.CardID,
			&routeCode,
			&rec.BoardingStationID,
			&startName,
			&endStationID,
			&endName,
			&rec.BoardingTime,
			&endTime,
			&rec.IsTransfer,
			&fare,
		); err != nil {
			return out, err
		}
		if routeCode.Valid {
			rec.RouteCode = &routeCode.String
		}
		if startName.Valid {
			rec.BoardingStationName = &startName.String
		}
		if endStationID.Valid {
			rec.DisembarkingStationID = &endStationID.Int64
		}
		if endName.Valid {
			rec.DisembarkingStationName = &endName.String
		}
		rec.DisembarkingTime = timePtr(endTime)
		rec.Status = "completed"
		if rec.DisembarkingTime == nil {
			rec.Status = "in_progress"
		}
		if fare.Valid {
			value, perr := domain.ParseMoney(fare.String)
			if perr != nil {
				return out, perr
			}
			rec.Fare = &value
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ActiveByID loads an in-progress trip together with the card balance. The
// absence of a matching row means the trip does not exist or already ended.
func (r TripsRepository) ActiveByID(q DBTX, tripID int64) (ActiveTrip, error) {
	var trip ActiveTrip
	err := q.QueryRow(`
		SELECT t.trip_id, t.card_id, t.route_id, t.boarding_station_id, t.boarding_time, t.fare_id, c.balance
		FROM trips t
		JOIN cards c ON c.card_id = t.card_id
		WHERE t.trip_id = ? AND t.disembarking_time IS NULL
	`, tripID).Scan(
		&trip.TripID,
		&trip.CardID,
		&trip.RouteID,
		&trip.BoardingStationID,
		&trip.BoardingTime,
		&trip.FareID,
		&trip.Balance,
	)
	if err == sql.ErrNoRows {
		return ActiveTrip{}, domain.NotFoundError{Resource: "Active trip"}
	}
	if err != nil {
		return ActiveTrip{}, err
	}
	return trip, nil
}

func (r TripsRepository) HasActiveTrip(q DBTX, cardID int64) (bool, error) {
	var id int64
	err := q.QueryRow(`
		SELECT trip_id FROM trips
		WHERE card_id = ? AND disembarking_time IS NULL
		LIMIT 1
	`, cardID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Insert stores a boarding. The partial unique index on in-progress trips
// turns a concurrent double boarding into a duplicate-key error, surfaced
// here as a conflict.
func (r TripsRepository) Insert(q DBTX, trip NewTrip) (int64, error) {
	res, err := q.Exec(`
		INSERT INTO trips
			(card_id, route_id, boarding_station_id, boarding_time, fare_id, is_transfer, transfer_group_id, vehicle_id, driver_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		trip.CardID,
		trip.RouteID,
		trip.BoardingStationID,
		trip.BoardingTime,
		intdb.NullIfZero(trip.FareID),
		trip.IsTransfer,
		intdb.NullIfEmpty(trip.TransferGroupID),
		intdb.NullIfZero(trip.VehicleID),
		intdb.NullIfZero(trip.DriverID),
	)
	if err != nil {
		if IsDuplicateEntry(err) {
			return 0, domain.ConflictError{Resource: "Trip", Msg: "Card has an active trip", Err: err}
		}
		return 0, err
	}
	return res.LastInsertId()
}

// Complete stamps the disembarking station and time. The guard on
// disembarking_time keeps a concurrent double end from applying twice.
func (r TripsRepository) Complete(q DBTX, tripID, stationID int64, at time.Time) error {
	res, err := q.Exec(`
		UPDATE trips
		SET disembarking_station_id = ?, disembarking_time = ?
		WHERE trip_id = ? AND disembarking_time IS NULL
	`, stationID, at, tripID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.NotFoundError{Resource: "Active trip"}
	}
	return nil
}

// LatestTransferGroup finds the most recent completed trip of the card on a
// different route since the given time and returns its transfer group.
func (r TripsRepository) LatestTransferGroup(q DBTX, cardID, excludeRouteID int64, since time.Time) (string, bool, error) {
	var group string
	err := q.QueryRow(`
		SELECT transfer_group_id
		FROM trips
		WHERE card_id = ?
		  AND route_id <> ?
		  AND disembarking_time IS NOT NULL
		  AND boarding_time >= ?
		  AND transfer_group_id IS NOT NULL
		ORDER BY boarding_time DESC
		LIMIT 1
	`, cardID, excludeRouteID, since).Scan(&group)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return group, true, nil
}
