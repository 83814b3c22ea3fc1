package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/cache"
	intconfig "github.com/FreddyB200/sistema-recarga-viajes-backend/internal/config"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/domain"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/repositories"
)

type StartTripInput struct {
	CardID    int64
	RouteCode string
	StationID int64
	VehicleID int64
	DriverID  int64
	RequestID string
}

type TripStarted struct {
	TripID            int64        `json:"trip_id"`
	CardID            int64        `json:"card_id"`
	RouteCode         string       `json:"route_code"`
	BoardingStationID int64        `json:"boarding_station_id"`
	BoardingTime      time.Time    `json:"boarding_time"`
	Status            string       `json:"status"`
	IsTransfer        bool         `json:"is_transfer"`
	TransferGroupID   string       `json:"transfer_group_id"`
	Fare              domain.Money `json:"fare"`
	VehicleID         *int64       `json:"vehicle_id"`
	DriverID          *int64       `json:"driver_id"`
}

type EndTripInput struct {
	TripID    int64
	StationID int64
	RequestID string
}

type TripEnded struct {
	TripID                int64        `json:"trip_id"`
	CardID                int64        `json:"card_id"`
	BoardingStationID     int64        `json:"boarding_station_id"`
	DisembarkingStationID int64        `json:"disembarking_station_id"`
	BoardingTime          time.Time    `json:"boarding_time"`
	DisembarkingTime      time.Time    `json:"disembarking_time"`
	Status                string       `json:"status"`
	Fare                  domain.Money `json:"fare"`
	NewBalance            domain.Money `json:"new_balance"`
}

type TripService struct {
	DB       *sql.DB
	Trips    repositories.TripsRepository
	Cards    repositories.CardsRepository
	Routes   repositories.RoutesRepository
	Stations repositories.StationsRepository
	Vehicles repositories.VehiclesRepository
	Drivers  repositories.DriversRepository
	Fares    FareService
	Cache    cache.Store
}

func (s TripService) dbh() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s TripService) store() cache.Store {
	if s.Cache != nil {
		return s.Cache
	}
	if intconfig.Cache != nil {
		return intconfig.Cache
	}
	return cache.Unavailable("not configured")
}

// Start boards a card on a route. All preconditions run inside the
// transaction before the insert, so a failed start leaves no row behind.
func (s TripService) Start(ctx context.Context, in StartTripInput) (TripStarted, error) {
	if in.CardID <= 0 {
		return TripStarted{}, domain.ValidationError{Field: "card_id", Msg: "must be positive"}
	}
	if strings.TrimSpace(in.RouteCode) == "" {
		return TripStarted{}, domain.ValidationError{Field: "route_code", Msg: "is required"}
	}
	if in.StationID <= 0 {
		return TripStarted{}, domain.ValidationError{Field: "station_id", Msg: "must be positive"}
	}

	tx, err := s.dbh().Begin()
	if err != nil {
		return TripStarted{}, domain.InternalError{Msg: "cannot start transaction", Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	card, err := s.Cards.GetByID(tx, in.CardID)
	if err != nil {
		return TripStarted{}, err
	}
	if card.Status != "active" {
		return TripStarted{}, domain.ValidationError{Msg: "Card is not active"}
	}

	route, err := s.Routes.ActiveByCode(tx, strings.TrimSpace(in.RouteCode))
	if err != nil {
		return TripStarted{}, err
	}

	station, err := s.Stations.GetByID(tx, in.StationID)
	if err != nil {
		return TripStarted{}, err
	}
	if station.Status != "active" {
		return TripStarted{}, domain.ValidationError{Msg: "Station is not active"}
	}
	onRoute, err := s.Routes.HasStation(tx, route.RouteID, station.StationID)
	if err != nil {
		return TripStarted{}, err
	}
	if !onRoute {
		return TripStarted{}, domain.ValidationError{Msg: "Station is not on the route"}
	}

	active, err := s.Trips.HasActiveTrip(tx, in.CardID)
	if err != nil {
		return TripStarted{}, err
	}
	if active {
		return TripStarted{}, domain.ConflictError{Resource: "Trip", Msg: "Card has an active trip"}
	}

	now := time.Now()
	resolved, err := s.Fares.ResolveBoarding(tx, in.CardID, route, now)
	if err != nil {
		return TripStarted{}, err
	}
	if card.Balance < resolved.Fare.Value {
		return TripStarted{}, domain.InsufficientBalanceError{Balance: card.Balance, Required: resolved.Fare.Value}
	}

	vehicleID, driverID, err := s.assignCrew(tx, route.RouteID, in.VehicleID, in.DriverID)
	if err != nil {
		return TripStarted{}, err
	}

	tripID, err := s.Trips.Insert(tx, repositories.NewTrip{
		CardID:            in.CardID,
		RouteID:           route.RouteID,
		BoardingStationID: station.StationID,
		BoardingTime:      now,
		FareID:            resolved.Fare.FareID,
		IsTransfer:        resolved.IsTransfer,
		TransferGroupID:   resolved.TransferGroupID,
		VehicleID:         vehicleID,
		DriverID:          driverID,
	})
	if err != nil {
		return TripStarted{}, err
	}
	if err := s.Cards.Touch(tx, in.CardID, now); err != nil {
		return TripStarted{}, err
	}

	if err := tx.Commit(); err != nil {
		return TripStarted{}, domain.InternalError{Msg: "cannot commit transaction", Err: err}
	}
	committed = true

	cache.Invalidator{Store: s.store()}.Invalidate(ctx, in.RequestID, cache.TripStartKeys(in.CardID)...)

	return TripStarted{
		TripID:            tripID,
		CardID:            in.CardID,
		RouteCode:         route.RouteCode,
		BoardingStationID: station.StationID,
		BoardingTime:      now,
		Status:            "in_progress",
		IsTransfer:        resolved.IsTransfer,
		TransferGroupID:   resolved.TransferGroupID,
		Fare:              resolved.Fare.Value,
		VehicleID:         int64Ptr(vehicleID),
		DriverID:          int64Ptr(driverID),
	}, nil
}

// End completes an in-progress trip: stamp the disembarking, debit the fare,
// report the new balance.
func (s TripService) End(ctx context.Context, in EndTripInput) (TripEnded, error) {
	if in.TripID <= 0 {
		return TripEnded{}, domain.ValidationError{Field: "trip_id", Msg: "must be positive"}
	}
	if in.StationID <= 0 {
		return TripEnded{}, domain.ValidationError{Field: "station_id", Msg: "must be positive"}
	}

	tx, err := s.dbh().Begin()
	if err != nil {
		return TripEnded{}, domain.InternalError{Msg: "cannot start transaction", Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	trip, err := s.Trips.ActiveByID(tx, in.TripID)
	if err != nil {
		return TripEnded{}, err
	}

	station, err := s.Stations.GetByID(tx, in.StationID)
	if err != nil {
		return TripEnded{}, err
	}
	if station.Status != "active" {
		return TripEnded{}, domain.ValidationError{Msg: "Station is not active"}
	}
	onRoute, err := s.Routes.HasStation(tx, trip.RouteID, station.StationID)
	if err != nil {
		return TripEnded{}, err
	}
	if !onRoute {
		return TripEnded{}, domain.ValidationError{Msg: "Station is not on the route"}
	}

	fare, err := s.Fares.ValueForTrip(tx, trip.FareID)
	if err != nil {
		return TripEnded{}, err
	}
	if trip.Balance < fare {
		return TripEnded{}, domain.InsufficientBalanceError{Balance: trip.Balance, Required: fare}
	}

	now := time.Now()
	if err := s.Trips.Complete(tx, trip.TripID, station.StationID, now); err != nil {
		return TripEnded{}, err
	}
	if err := s.Cards.Debit(tx, trip.CardID, fare, now); err != nil {
		return TripEnded{}, err
	}
	newBalance, err := s.Cards.Balance(tx, trip.CardID)
	if err != nil {
		return TripEnded{}, err
	}

	if err := tx.Commit(); err != nil {
		return TripEnded{}, domain.InternalError{Msg: "cannot commit transaction", Err: err}
	}
	committed = true

	cache.Invalidator{Store: s.store()}.Invalidate(ctx, in.RequestID, cache.TripEndKeys(trip.CardID)...)

	return TripEnded{
		TripID:                trip.TripID,
		CardID:                trip.CardID,
		BoardingStationID:     trip.BoardingStationID,
		DisembarkingStationID: station.StationID,
		BoardingTime:          trip.BoardingTime,
		DisembarkingTime:      now,
		Status:                "completed",
		Fare:                  fare,
		NewBalance:            newBalance,
	}, nil
}

// assignCrew validates explicit vehicle and driver ids or auto-assigns the
// first active ones. Zero results stay zero and are stored as NULL.
func (s TripService) assignCrew(q repositories.DBTX, routeID, vehicleID, driverID int64) (int64, int64, error) {
	if vehicleID > 0 {
		ok, err := s.Vehicles.IsActive(q, vehicleID)
		if err != nil {
			return 0, 0, err
		}
		if !ok {
			return 0, 0, domain.ValidationError{Msg: "Vehicle is not active"}
		}
	} else {
		id, ok, err := s.Vehicles.FirstActiveOnRoute(q, routeID)
		if err != nil {
			return 0, 0, err
		}
		if ok {
			vehicleID = id
		}
	}

	if driverID > 0 {
		ok, err := s.Drivers.IsActive(q, driverID)
		if err != nil {
			return 0, 0, err
		}
		if !ok {
			return 0, 0, domain.ValidationError{Msg: "Driver is not active"}
		}
	} else {
		id, ok, err := s.Drivers.FirstActive(q)
		if err != nil {
			return 0, 0, err
		}
		if ok {
			driverID = id
		}
	}

	return vehicleID, driverID, nil
}

func int64Ptr(n int64) *int64 {
	if n == 0 {
		return nil
	}
	return &n
}
