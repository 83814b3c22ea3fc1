package repositories

import (
	"database/sql"
	"time"

	intconfig "github.com/FreddyB200/sistema-recarga-viajes-backend/internal/config"
	intdb "github.com/FreddyB200/sistema-recarga-viajes-backend/internal/db"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/domain"
)

// Station is the row used by the trip validations.
type Station struct {
	StationID   int64
	StationCode string
	Name        string
	LocationID  int64
	Status      string
}

// StationListItem is one row of the station listing, locality resolved.
type StationListItem struct {
	StationID        int64  `json:"station_id"`
	StationCode      string `json:"station_code"`
	Name             string `json:"name"`
	Locality         string `json:"locality"`
	Status           string `json:"status"`
	Capacity         int64  `json:"capacity"`
	CurrentOccupancy int64  `json:"current_occupancy"`
}

type Arrival struct {
	StationID        int64     `json:"station_id"`
	Line             string    `json:"line"`
	Destination      string    `json:"destination"`
	EstimatedArrival time.Time `json:"estimated_arrival"`
	Status           string    `json:"status"`
}

type Alert struct {
	AlertID   int64      `json:"alert_id"`
	StationID int64      `json:"station_id"`
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	Severity  string     `json:"severity"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

type StationsRepository struct {
	DB *sql.DB
}

func (r StationsRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// List returns stations ordered by name, optionally narrowed by locality
// and status.
func (r StationsRepository) List(locality, status string) ([]StationListItem, error) {
	filter := intdb.NewFilter()
	if locality != "" {
		filter.Add("loc.name = ?", locality)
	}
	if status != "" {
		filter.Add("s.status = ?", status)
	}

	query := `
		SELECT s.station_id, s.station_code, s.name, loc.name AS locality, s.status, s.capacity, s.current_occupancy
		FROM stations s
		JOIN locations loc ON loc.location_id = s.location_id` +
		filter.Where() + `
		ORDER BY s.name`

	rows, err := r.db().Query(query, filter.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []StationListItem{}
	for rows.Next() {
		var rec StationListItem
		if err := rows.Scan(
			&rec.StationID,
			&rec.StationCode,
			&rec.Name,
			&rec.Locality,
			&rec.Status,
			&rec.Capacity,
			&rec.CurrentOccupancy,
		); err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r StationsRepository) GetByID(q DBTX, stationID int64) (Station, error) {
	var station Station
	err := q.QueryRow(`
		SELECT station_id, station_code, name, location_id, status
		FROM stations
		WHERE station_id = ?
	`, stationID).Scan(
		&station.StationID,
		&station.StationCode,
		&station.Name,
		&station.LocationID,
		&station.Status,
	)
	if err == sql.ErrNoRows {
		return Station{}, domain.NotFoundError{Resource: "Station"}
	}
	if err != nil {
		return Station{}, err
	}
	return station, nil
}

func (r StationsRepository) Exists(q DBTX, stationID int64) (bool, error) {
	var id int64
	err := q.QueryRow(`SELECT station_id FROM stations WHERE station_id = ?`, stationID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Arrivals lists the next ten upcoming arrivals at a station.
func (r StationsRepository) Arrivals(stationID int64) ([]Arrival, error) {
	rows, err := r.db().Query(`
		SELECT station_id, line, destination, estimated_arrival, status
		FROM arrivals
		WHERE station_id = ?
		  AND estimated_arrival > NOW()
		ORDER BY estimated_arrival
		LIMIT 10
	`, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Arrival{}
	for rows.Next() {
		var rec Arrival
		if err := rows.Scan(
			&rec.StationID,
			&rec.Line,
			&rec.Destination,
			&rec.EstimatedArrival,
			&rec.Status,
		); err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Alerts lists a station's alerts, newest first. With activeOnly the closed
// ones (past end_time) are filtered out.
func (r StationsRepository) Alerts(stationID int64, activeOnly bool) ([]Alert, error) {
	filter := intdb.NewFilter()
	if activeOnly {
		filter.Add("(end_time IS NULL OR end_time > NOW())")
	}

	query := `
		SELECT alert_id, station_id, type, message, severity, start_time, end_time
		FROM alerts
		WHERE station_id = ?` +
		filter.And() + `
		ORDER BY start_time DESC`

	args := append([]any{stationID}, filter.Args()...)
	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Alert{}
	for rows.Next() {
		var (
			rec     Alert
			endTime sql.NullTime
		)
		if err := rows.Scan(
			&rec.AlertID,
			&rec.StationID,
			&rec.Type,
			&rec.Message,
			&rec.Severity,
			&rec.StartTime,
			&endTime,
		); err != nil {
			return out, err
		}
		rec.EndTime = timePtr(endTime)
		out = append(out, rec)
	}
	return out, rows.Err()
}
