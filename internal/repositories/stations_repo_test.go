package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func stationListRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"station_id", "station_code", "name", "locality", "status", "capacity", "current_occupancy"}).
		AddRow(1, "ST01", "Portal Norte", "Usaquen", "active", 500, 120).
		AddRow(2, "ST02", "Calle 100", "Chapinero", "active", 300, 80)
}

func TestStationsListUnfiltered(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT s.station_id, s.station_code, s.name").
		WillReturnRows(stationListRows())

	repo := StationsRepository{DB: db}
	stations, err := repo.List("", "")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("got %d stations, want 2", len(stations))
	}
	if stations[0].StationCode != "ST01" || stations[0].Locality != "Usaquen" {
		t.Fatalf("first station = %+v", stations[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStationsListFiltered(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`WHERE loc.name = \? AND s.status = \?`).
		WithArgs("Chapinero", "active").
		WillReturnRows(sqlmock.NewRows([]string{"station_id", "station_code", "name", "locality", "status", "capacity", "current_occupancy"}).
			AddRow(2, "ST02", "Calle 100", "Chapinero", "active", 300, 80))

	repo := StationsRepository{DB: db}
	stations, err := repo.List("Chapinero", "active")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(stations) != 1 || stations[0].Locality != "Chapinero" {
		t.Fatalf("stations = %+v", stations)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStationAlertsActiveOnlyAddsClause(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	started := time.Now().Add(-time.Hour)
	mock.ExpectQuery(`WHERE station_id = \? AND \(end_time IS NULL OR end_time > NOW\(\)\)`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"alert_id", "station_id", "type", "message", "severity", "start_time", "end_time"}).
			AddRow(1, 5, "delay", "Route B72 delayed", "warning", started, nil))

	repo := StationsRepository{DB: db}
	alerts, err := repo.Alerts(5, true)
	if err != nil {
		t.Fatalf("alerts error: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}
	if alerts[0].EndTime != nil {
		t.Fatalf("end_time = %v, want nil", alerts[0].EndTime)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStationAlertsIncludesClosedWhenAsked(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	started := time.Now().Add(-3 * time.Hour)
	ended := time.Now().Add(-time.Hour)
	mock.ExpectQuery(`WHERE station_id = \?\s+ORDER BY start_time DESC`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"alert_id", "station_id", "type", "message", "severity", "start_time", "end_time"}).
			AddRow(2, 5, "maintenance", "Elevator out of service", "info", started, ended))

	repo := StationsRepository{DB: db}
	alerts, err := repo.Alerts(5, false)
	if err != nil {
		t.Fatalf("alerts error: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}
	if alerts[0].EndTime == nil {
		t.Fatalf("end_time missing on closed alert")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
