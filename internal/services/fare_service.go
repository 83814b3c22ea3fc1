package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/domain"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/repositories"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/utils"
)

// TransferWindow is how long after a completed leg a boarding on a different
// route still counts as a transfer.
const TransferWindow = 90 * time.Minute

// DefaultFareValue backs boardings and debits when no fare row covers the
// date. 2.50 is the historical base fare.
const DefaultFareValue = domain.Money(250)

const (
	FareTypeStandard = "standard"
	FareTypeCable    = "cable"
	FareTypeTransfer = "transfer"
)

// BoardingFare is the outcome of fare resolution at boarding: the applicable
// fare plus the transfer chain this trip joins or starts.
type BoardingFare struct {
	Fare            repositories.Fare
	IsTransfer      bool
	TransferGroupID string
}

type FareService struct {
	Fares repositories.FaresRepository
	Trips repositories.TripsRepository
}

// FareTypeFor maps the route type and transfer state to a fares row type.
// Transfers win over the route type: a chained leg rides the transfer fare
// regardless of the mode.
func FareTypeFor(routeType string, isTransfer bool) string {
	if isTransfer {
		return FareTypeTransfer
	}
	if routeType == "cable" {
		return FareTypeCable
	}
	return FareTypeStandard
}

// ResolveBoarding decides whether the boarding continues a transfer chain
// and which fare applies. A chain is continued when the card completed a
// trip on a different route inside the window; otherwise a fresh group id
// is minted so later legs can chain onto this one.
func (s FareService) ResolveBoarding(q repositories.DBTX, cardID int64, route repositories.Route, now time.Time) (BoardingFare, error) {
	group, isTransfer, err := s.Trips.LatestTransferGroup(q, cardID, route.RouteID, now.Add(-TransferWindow))
	if err != nil {
		return BoardingFare{}, err
	}
	if !isTransfer {
		group = uuid.NewString()
	}

	fare, err := s.Fares.CurrentFare(q, FareTypeFor(route.RouteType, isTransfer), utils.FormatDate(now))
	if err != nil {
		if !domain.IsNotFound(err) {
			return BoardingFare{}, err
		}
		// No priced window covers today: fall back so boarding never blocks
		// on fare table gaps. The trip row keeps a NULL fare_id.
		fare = repositories.Fare{FareType: FareTypeFor(route.RouteType, isTransfer), Value: DefaultFareValue}
	}

	return BoardingFare{Fare: fare, IsTransfer: isTransfer, TransferGroupID: group}, nil
}

// ValueForTrip resolves the amount debited when a trip ends. Trips stored
// with a NULL fare_id fall back to the base fare.
func (s FareService) ValueForTrip(q repositories.DBTX, fareID sql.NullInt64) (domain.Money, error) {
	if !fareID.Valid {
		return DefaultFareValue, nil
	}
	fare, err := s.Fares.GetByID(q, fareID.Int64)
	if err != nil {
		if domain.IsNotFound(err) {
			return DefaultFareValue, nil
		}
		return 0, err
	}
	return fare.Value, nil
}
