package services

import (
	"testing"
	"time"

	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestFareTypeFor(t *testing.T) {
	cases := []struct {
		routeType  string
		isTransfer bool
		want       string
	}{
		{"bus", false, FareTypeStandard},
		{"brt", false, FareTypeStandard},
		{"cable", false, FareTypeCable},
		{"cable", true, FareTypeTransfer},
		{"bus", true, FareTypeTransfer},
	}
	for _, c := range cases {
		if got := FareTypeFor(c.routeType, c.isTransfer); got != c.want {
			t.Fatalf("FareTypeFor(%q, %v) = %q, want %q", c.routeType, c.isTransfer, got, c.want)
		}
	}
}

func TestResolveBoardingFallsBackWhenNoFareRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT transfer_group_id").
		WillReturnRows(sqlmock.NewRows([]string{"transfer_group_id"}))
	mock.ExpectQuery("SELECT fare_id, fare_type, value").
		WithArgs(FareTypeStandard, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"fare_id", "fare_type", "value"}))

	svc := FareService{
		Fares: repositories.FaresRepository{DB: db},
		Trips: repositories.TripsRepository{DB: db},
	}
	route := repositories.Route{RouteID: 3, RouteCode: "R10", RouteType: "bus"}
	resolved, err := svc.ResolveBoarding(db, 1, route, time.Now())
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if resolved.IsTransfer {
		t.Fatalf("no completed leg in the window, boarding marked as transfer")
	}
	if resolved.TransferGroupID == "" {
		t.Fatalf("fresh boarding should mint a transfer group")
	}
	if resolved.Fare.Value != DefaultFareValue {
		t.Fatalf("fare = %s, want the base fallback", resolved.Fare.Value)
	}
	if resolved.Fare.FareID != 0 {
		t.Fatalf("fallback fare must carry no fare_id, got %d", resolved.Fare.FareID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
