package repositories

import (
	"database/sql"

	intconfig "github.com/FreddyB200/sistema-recarga-viajes-backend/internal/config"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/domain"
)

type Route struct {
	RouteID   int64
	RouteCode string
	RouteName string
	RouteType string
	IsActive  bool
}

// RouteStation is one stop of a route in boarding order.
type RouteStation struct {
	Sequence    int64  `json:"sequence"`
	StationCode string `json:"station_code"`
	StationName string `json:"station_name"`
	StationType string `json:"station_type"`
}

type RoutesRepository struct {
	DB *sql.DB
}

func (r RoutesRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Codes lists the codes of every active route for selectors.
func (r RoutesRepository) Codes() ([]string, error) {
	rows, err := r.db().Query(`
		SELECT DISTINCT route_code
		FROM routes
		WHERE is_active = TRUE
		ORDER BY route_code ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return out, err
		}
		out = append(out, code)
	}
	return out, rows.Err()
}

// ActiveByCode loads an active route by its public code. Inactive routes
// are reported as missing on purpose: they cannot be boarded or displayed.
func (r RoutesRepository) ActiveByCode(q DBTX, code string) (Route, error) {
	var (
		route Route
		name  sql.NullString
	)
	err := q.QueryRow(`
		SELECT route_id, route_code, route_name, route_type, is_active
		FROM routes
		WHERE route_code = ? AND is_active = TRUE
	`, code).Scan(&route.RouteID, &route.RouteCode, &name, &route.RouteType, &route.IsActive)
	if err == sql.ErrNoRows {
		return Route{}, domain.NotFoundError{Resource: "Route"}
	}
	if err != nil {
		return Route{}, err
	}
	route.RouteName = name.String
	return route, nil
}

// Details loads a route and its ordered stations for the read endpoints.
func (r RoutesRepository) Details(code string) (Route, []RouteStation, error) {
	db := r.db()
	route, err := r.ActiveByCode(db, code)
	if err != nil {
		return Route{}, nil, err
	}

	rows, err := db.Query(`
		SELECT rs.sequence_order, s.station_code, s.name AS station_name, s.station_type
		FROM route_stations rs
		JOIN stations s ON s.station_id = rs.station_id
		WHERE rs.route_id = ?
		ORDER BY rs.sequence_order ASC
	`, route.RouteID)
	if err != nil {
		return Route{}, nil, err
	}
	defer rows.Close()

	stations := []RouteStation{}
	for rows.Next() {
		var rec RouteStation
		if err := rows.Scan(&rec.Sequence, &rec.StationCode, &rec.StationName, &rec.StationType); err != nil {
			return route, stations, err
		}
		stations = append(stations, rec)
	}
	return route, stations, rows.Err()
}

// HasStation reports whether the station is a stop of the route.
func (r RoutesRepository) HasStation(q DBTX, routeID, stationID int64) (bool, error) {
	var one int
	err := q.QueryRow(`
		SELECT 1 FROM route_stations WHERE route_id = ? AND station_id = ?
	`, routeID, stationID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
