package repositories

import (
	"database/sql"
	"time"

	intconfig "github.com/FreddyB200/sistema-recarga-viajes-backend/internal/config"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/domain"
)

// Card mirrors the cards table for the mutation paths.
type Card struct {
	CardID       int64
	UserID       sql.NullInt64
	Balance      domain.Money
	Status       string
	LastRecharge sql.NullTime
	LastUsed     sql.NullTime
}

// CardBalance is the balance payload served (and cached) per card.
type CardBalance struct {
	CardID       int64        `json:"card_id"`
	Balance      domain.Money `json:"balance"`
	LastRecharge *time.Time   `json:"last_recharge"`
	Status       string       `json:"status"`
}

// RechargeEntry is one row of the recharge history. The JSON field is named
// timestamp because that is what clients already consume.
type RechargeEntry struct {
	RechargeID    int64        `json:"recharge_id"`
	CardID        int64        `json:"card_id"`
	Amount        domain.Money `json:"amount"`
	PaymentMethod string       `json:"payment_method"`
	Timestamp     time.Time    `json:"timestamp"`
}

type CardsRepository struct {
	DB *sql.DB
}

func (r CardsRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// GetByID loads a card row, mapping an absent card to the domain error the
// handlers translate to 404.
func (r CardsRepository) GetByID(q DBTX, cardID int64) (Card, error) {
	var card Card
	err := q.QueryRow(`
		SELECT card_id, user_id, balance, status, last_recharge_at, last_used_at
		FROM cards
		WHERE card_id = ?
	`, cardID).Scan(
		&card.CardID,
		&card.UserID,
		&card.Balance,
		&card.Status,
		&card.LastRecharge,
		&card.LastUsed,
	)
	if err == sql.ErrNoRows {
		return Card{}, domain.NotFoundError{Resource: "Card"}
	}
	if err != nil {
		return Card{}, err
	}
	return card, nil
}

func (r CardsRepository) Exists(q DBTX, cardID int64) (bool, error) {
	var id int64
	err := q.QueryRow(`SELECT card_id FROM cards WHERE card_id = ?`, cardID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// InsertRecharge records one top-up and returns its generated id.
func (r CardsRepository) InsertRecharge(q DBTX, cardID int64, amount domain.Money, method string, at time.Time) (int64, error) {
	res, err := q.Exec(`
		INSERT INTO recharges (card_id, amount, payment_method, recharged_at)
		VALUES (?, ?, ?, ?)
	`, cardID, amount, method, at)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Credit adds to the balance and stamps the recharge time.
func (r CardsRepository) Credit(q DBTX, cardID int64, amount domain.Money, at time.Time) error {
	_, err := q.Exec(`
		UPDATE cards
		SET balance = balance + ?, last_recharge_at = ?
		WHERE card_id = ?
	`, amount, at, cardID)
	return err
}

// Debit subtracts the fare and stamps the usage time. The balance CHECK in
// the schema rejects a debit below zero.
func (r CardsRepository) Debit(q DBTX, cardID int64, amount domain.Money, at time.Time) error {
	_, err := q.Exec(`
		UPDATE cards
		SET balance = balance - ?, last_used_at = ?
		WHERE card_id = ?
	`, amount, at, cardID)
	return err
}

// Touch stamps the usage time without changing the balance. Boarding does
// not debit the card, the fare is collected on disembarking.
func (r CardsRepository) Touch(q DBTX, cardID int64, at time.Time) error {
	_, err := q.Exec(`UPDATE cards SET last_used_at = ? WHERE card_id = ?`, at, cardID)
	return err
}

// Balance reads the current balance, typically right after a credit or
// debit inside the same transaction.
func (r CardsRepository) Balance(q DBTX, cardID int64) (domain.Money, error) {
	var balance domain.Money
	err := q.QueryRow(`SELECT balance FROM cards WHERE card_id = ?`, cardID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, domain.NotFoundError{Resource: "Card"}
	}
	return balance, err
}

// BalanceSummary backs GET /cards/:card_id/balance.
func (r CardsRepository) BalanceSummary(cardID int64) (CardBalance, error) {
	card, err := r.GetByID(r.db(), cardID)
	if err != nil {
		return CardBalance{}, err
	}
	return CardBalance{
		CardID:       card.CardID,
		Balance:      card.Balance,
		LastRecharge: timePtr(card.LastRecharge),
		Status:       card.Status,
	}, nil
}

// History returns the ten most recent recharges, newest first.
func (r CardsRepository) History(cardID int64) ([]RechargeEntry, error) {
	rows, err := r.db().Query(`
		SELECT recharge_id, card_id, amount, payment_method, recharged_at
		FROM recharges
		WHERE card_id = ?
		ORDER BY recharged_at DESC
		LIMIT 10
	`, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RechargeEntry{}
	for rows.Next() {
		var rec RechargeEntry
		if err := rows.Scan(
			&rec.RechargeID,
			&rec.CardID,
			&rec.Amount,
			&rec.PaymentMethod,
			&rec.Timestamp,
		); err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
