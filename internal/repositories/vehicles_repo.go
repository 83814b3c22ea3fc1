package repositories

import "database/sql"

type VehiclesRepository struct {
	DB *sql.DB
}

// FirstActiveOnRoute picks the vehicle auto-assigned to a boarding when the
// request does not name one. Lowest id wins so assignment is deterministic.
func (r VehiclesRepository) FirstActiveOnRoute(q DBTX, routeID int64) (int64, bool, error) {
	var id int64
	err := q.QueryRow(`
		SELECT vehicle_id FROM vehicles
		WHERE route_id = ? AND status = 'active'
		ORDER BY vehicle_id ASC
		LIMIT 1
	`, routeID).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// IsActive validates an explicitly supplied vehicle id.
func (r VehiclesRepository) IsActive(q DBTX, vehicleID int64) (bool, error) {
	var one int
	err := q.QueryRow(`
		SELECT 1 FROM vehicles WHERE vehicle_id = ? AND status = 'active'
	`, vehicleID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type DriversRepository struct {
	DB *sql.DB
}

func (r DriversRepository) FirstActive(q DBTX) (int64, bool, error) {
	var id int64
	err := q.QueryRow(`
		SELECT driver_id FROM drivers
		WHERE status = 'active'
		ORDER BY driver_id ASC
		LIMIT 1
	`).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (r DriversRepository) IsActive(q DBTX, driverID int64) (bool, error) {
	var one int
	err := q.QueryRow(`
		SELECT 1 FROM drivers WHERE driver_id = ? AND status = 'active'
	`, driverID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
