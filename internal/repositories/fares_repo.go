package repositories

import (
	"database/sql"

	intconfig "github.com/FreddyB200/sistema-recarga-viajes-backend/internal/config"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/domain"
)

// Fare is one fares row. Pricing history lives in the table: each fare type
// can have several rows with disjoint validity windows.
type Fare struct {
	FareID   int64        `json:"fare_id"`
	FareType string       `json:"fare_type"`
	Value    domain.Money `json:"value"`
}

type FaresRepository struct {
	DB *sql.DB
}

func (r FaresRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// CurrentFare picks the fare of the given type valid on the given date
// (yyyy-mm-dd): the latest started window that is still open, newest row on
// ties. An absent fare is a NotFound the resolver turns into its fallback.
func (r FaresRepository) CurrentFare(q DBTX, fareType, onDate string) (Fare, error) {
	var fare Fare
	err := q.QueryRow(`
		SELECT fare_id, fare_type, value
		FROM fares
		WHERE fare_type = ?
		  AND start_date <= ?
		  AND (end_date IS NULL OR end_date >= ?)
		ORDER BY start_date DESC, fare_id DESC
		LIMIT 1
	`, fareType, onDate, onDate).Scan(&fare.FareID, &fare.FareType, &fare.Value)
	if err == sql.ErrNoRows {
		return Fare{}, domain.NotFoundError{Resource: "Fare"}
	}
	if err != nil {
		return Fare{}, err
	}
	return fare, nil
}

// GetByID resolves the fare attached to a trip row.
func (r FaresRepository) GetByID(q DBTX, fareID int64) (Fare, error) {
	var fare Fare
	err := q.QueryRow(`
		SELECT fare_id, fare_type, value FROM fares WHERE fare_id = ?
	`, fareID).Scan(&fare.FareID, &fare.FareType, &fare.Value)
	if err == sql.ErrNoRows {
		return Fare{}, domain.NotFoundError{Resource: "Fare"}
	}
	if err != nil {
		return Fare{}, err
	}
	return fare, nil
}
