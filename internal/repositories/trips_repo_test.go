package repositories

import (
	"strings"
	"testing"
	"time"

	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func TestTripTotalsScan(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT\\s+COUNT\\(\\*\\) AS total_trips").
		WillReturnRows(sqlmock.NewRows([]string{"total_trips", "completed_trips", "active_trips", "total_revenue"}).
			AddRow(12, 10, 2, "25.00"))

	repo := TripsRepository{DB: db}
	totals, err := repo.Totals()
	if err != nil {
		t.Fatalf("totals error: %v", err)
	}
	if totals.TotalTrips != 12 || totals.CompletedTrips != 10 || totals.ActiveTrips != 2 {
		t.Fatalf("totals = %+v", totals)
	}
	if totals.TotalRevenue != domain.MoneyFromFloat(25) {
		t.Fatalf("revenue = %s, want 25.00", totals.TotalRevenue)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTripTotalsByLocalityKeepsOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("GROUP BY loc.name").
		WillReturnRows(sqlmock.NewRows([]string{"locality", "total_trips", "completed_trips", "active_trips", "total_revenue"}).
			AddRow("Chapinero", 8, 7, 1, "17.50").
			AddRow("Usaquen", 4, 3, 1, "7.50"))

	repo := TripsRepository{DB: db}
	stats, err := repo.TotalsByLocality()
	if err != nil {
		t.Fatalf("totals by locality error: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d rows, want 2", len(stats))
	}
	if stats[0].Locality != "Chapinero" || stats[1].Locality != "Usaquen" {
		t.Fatalf("order = %q, %q", stats[0].Locality, stats[1].Locality)
	}
	if stats[0].TotalRevenue != domain.MoneyFromFloat(17.5) {
		t.Fatalf("revenue = %s", stats[0].TotalRevenue)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTripsByCardDerivesStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	boardedOld := time.Now().Add(-2 * time.Hour)
	endedOld := time.Now().Add(-90 * time.Minute)
	boardedNew := time.Now().Add(-10 * time.Minute)

	columns := []string{
		"trip_id", "card_id", "route_code", "boarding_station_id", "boarding_station_name",
		"disembarking_station_id", "disembarking_station_name", "boarding_time", "disembarking_time",
		"is_transfer", "fare",
	}
	mock.ExpectQuery("SELECT\\s+t.trip_id").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(2, 1, "B72", 5, "Calle 100", nil, nil, boardedNew, nil, false, nil).
			AddRow(1, 1, "T40", 3, "Portal Norte", 4, "Terminal Sur", boardedOld, endedOld, false, "2.50"))

	repo := TripsRepository{DB: db}
	trips, err := repo.TripsByCard(1)
	if err != nil {
		t.Fatalf("trips by card error: %v", err)
	}
	if len(trips) != 2 {
		t.Fatalf("got %d trips, want 2", len(trips))
	}

	current := trips[0]
	if current.Status != "in_progress" {
		t.Fatalf("status = %q, want in_progress", current.Status)
	}
	if current.DisembarkingStationID != nil || current.DisembarkingTime != nil || current.Fare != nil {
		t.Fatalf("open trip carries disembarking data: %+v", current)
	}

	past := trips[1]
	if past.Status != "completed" {
		t.Fatalf("status = %q, want completed", past.Status)
	}
	if past.Fare == nil || *past.Fare != domain.MoneyFromFloat(2.5) {
		t.Fatalf("fare = %v", past.Fare)
	}
	if past.DisembarkingStationName == nil || *past.DisembarkingStationName != "Terminal Sur" {
		t.Fatalf("disembarking station = %v", past.DisembarkingStationName)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTripInsertMapsDuplicateKeyToConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// The functional unique index on in-progress trips rejects a second
	// concurrent boarding with a duplicate-key error.
	mock.ExpectExec("INSERT INTO trips").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1' for key 'uq_trips_active_card'"})

	repo := TripsRepository{DB: db}
	_, err = repo.Insert(db, NewTrip{CardID: 1, RouteID: 3, BoardingStationID: 5, BoardingTime: time.Now()})
	if !domain.IsConflict(err) {
		t.Fatalf("error = %v, want conflict", err)
	}
	if !strings.Contains(err.Error(), "Card has an active trip") {
		t.Fatalf("message = %q", err.Error())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTripCompleteReportsMissingActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE trips").
		WithArgs(int64(6), sqlmock.AnyArg(), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := TripsRepository{DB: db}
	err = repo.Complete(db, 42, 6, time.Now())
	if !domain.IsNotFound(err) {
		t.Fatalf("error = %v, want not found", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
