package repositories

import (
	"testing"

	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestTotalRevenueScan(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(f.value\\), 0\\) AS total_revenue").
		WillReturnRows(sqlmock.NewRows([]string{"total_revenue"}).AddRow("1250.75"))

	repo := FinanceRepository{DB: db}
	total, err := repo.TotalRevenue()
	if err != nil {
		t.Fatalf("total revenue error: %v", err)
	}
	if total != domain.MoneyFromFloat(1250.75) {
		t.Fatalf("total = %s, want 1250.75", total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRevenueByLocalityKeepsOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("GROUP BY loc.name").
		WillReturnRows(sqlmock.NewRows([]string{"locality", "total_revenue"}).
			AddRow("Chapinero", "800.00").
			AddRow("Usaquen", "450.75"))

	repo := FinanceRepository{DB: db}
	revenue, err := repo.RevenueByLocality()
	if err != nil {
		t.Fatalf("revenue by locality error: %v", err)
	}
	if len(revenue) != 2 {
		t.Fatalf("got %d rows, want 2", len(revenue))
	}
	if revenue[0].Locality != "Chapinero" || revenue[0].TotalRevenue != domain.MoneyFromFloat(800) {
		t.Fatalf("first row = %+v", revenue[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
