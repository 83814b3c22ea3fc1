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

type RechargeInput struct {
	CardID        int64
	Amount        domain.Money
	PaymentMethod string
	RequestID     string
}

type RechargeResult struct {
	RechargeID int64        `json:"recharge_id"`
	CardID     int64        `json:"card_id"`
	Amount     domain.Money `json:"amount"`
	NewBalance domain.Money `json:"new_balance"`
	Timestamp  time.Time    `json:"timestamp"`
}

type CardService struct {
	DB    *sql.DB
	Cards repositories.CardsRepository
	Cache cache.Store
}

func (s CardService) dbh() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s CardService) store() cache.Store {
	if s.Cache != nil {
		return s.Cache
	}
	if intconfig.Cache != nil {
		return intconfig.Cache
	}
	return cache.Unavailable("not configured")
}

// Recharge tops up a card inside one transaction: validate the card, record
// the recharge, credit the balance. The stale cache keys are dropped only
// after the commit.
func (s CardService) Recharge(ctx context.Context, in RechargeInput) (RechargeResult, error) {
	if in.CardID <= 0 {
		return RechargeResult{}, domain.ValidationError{Field: "card_id", Msg: "must be positive"}
	}
	if in.Amount <= 0 {
		return RechargeResult{}, domain.ValidationError{Field: "amount", Msg: "must be greater than zero"}
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		return RechargeResult{}, domain.ValidationError{Field: "payment_method", Msg: "is required"}
	}

	tx, err := s.dbh().Begin()
	if err != nil {
		return RechargeResult{}, domain.InternalError{Msg: "cannot start transaction", Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	card, err := s.Cards.GetByID(tx, in.CardID)
	if err != nil {
		return RechargeResult{}, err
	}
	if card.Status != "active" {
		return RechargeResult{}, domain.ValidationError{Msg: "Card is not active"}
	}

	now := time.Now()
	rechargeID, err := s.Cards.InsertRecharge(tx, in.CardID, in.Amount, in.PaymentMethod, now)
	if err != nil {
		return RechargeResult{}, err
	}
	if err := s.Cards.Credit(tx, in.CardID, in.Amount, now); err != nil {
		return RechargeResult{}, err
	}
	newBalance, err := s.Cards.Balance(tx, in.CardID)
	if err != nil {
		return RechargeResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return RechargeResult{}, domain.InternalError{Msg: "cannot commit transaction", Err: err}
	}
	committed = true

	cache.Invalidator{Store: s.store()}.Invalidate(ctx, in.RequestID, cache.RechargeKeys(in.CardID)...)

	return RechargeResult{
		RechargeID: rechargeID,
		CardID:     in.CardID,
		Amount:     in.Amount,
		NewBalance: newBalance,
		Timestamp:  now,
	}, nil
}
