package repositories

import (
	"database/sql"

	intconfig "github.com/FreddyB200/sistema-recarga-viajes-backend/internal/config"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/domain"
)

// LocalityRevenue is one row of the per-locality revenue report.
type LocalityRevenue struct {
	Locality     string       `json:"locality"`
	TotalRevenue domain.Money `json:"total_revenue"`
}

type FinanceRepository struct {
	DB *sql.DB
}

func (r FinanceRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// TotalRevenue sums the fare value of every trip that carries one.
func (r FinanceRepository) TotalRevenue() (domain.Money, error) {
	var total domain.Money
	err := r.db().QueryRow(`
		SELECT COALESCE(SUM(f.value), 0) AS total_revenue
		FROM trips t
		JOIN fares f ON f.fare_id = t.fare_id
	`).Scan(&total)
	return total, err
}

// RevenueByLocality groups fare revenue by the boarding station's locality,
// highest first.
func (r FinanceRepository) RevenueByLocality() ([]LocalityRevenue, error) {
	rows, err := r.db().Query(`
		SELECT loc.name AS locality, COALESCE(SUM(f.value), 0) AS total_revenue
		FROM trips t
		JOIN fares f ON f.fare_id = t.fare_id
		JOIN stations s ON s.station_id = t.boarding_station_id
		JOIN locations loc ON loc.location_id = s.location_id
		GROUP BY loc.name
		ORDER BY total_revenue DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []LocalityRevenue{}
	for rows.Next() {
		var rec LocalityRevenue
		if err := rows.Scan(&rec.Locality, &rec.TotalRevenue); err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
