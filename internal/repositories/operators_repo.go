package repositories

import (
	"database/sql"

	intconfig "github.com/FreddyB200/sistema-recarga-viajes-backend/internal/config"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/domain"
)

// Operator is a back-office account for the authenticated admin surface.
type Operator struct {
	OperatorID int64  `json:"id"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Status     string `json:"status"`
}

type OperatorsRepository struct {
	DB *sql.DB
}

func (r OperatorsRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// GetByLogin matches either email or username and returns the stored
// password hash alongside the account.
func (r OperatorsRepository) GetByLogin(login string) (Operator, string, error) {
	var (
		op   Operator
		hash string
	)
	err := r.db().QueryRow(`
		SELECT operator_id, name, username, email, password_hash, role, status
		FROM operators
		WHERE email = ? OR username = ?
	`, login, login).Scan(
		&op.OperatorID,
		&op.Name,
		&op.Username,
		&op.Email,
		&hash,
		&op.Role,
		&op.Status,
	)
	if err == sql.ErrNoRows {
		return Operator{}, "", domain.NotFoundError{Resource: "Operator"}
	}
	if err != nil {
		return Operator{}, "", err
	}
	return op, hash, nil
}

func (r OperatorsRepository) LoginTaken(email, username string) (bool, error) {
	var count int64
	err := r.db().QueryRow(`
		SELECT COUNT(*) FROM operators WHERE email = ? OR username = ?
	`, email, username).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r OperatorsRepository) Insert(name, username, email, passwordHash, role string) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO operators (name, username, email, password_hash, role, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 'active', NOW(), NOW())
	`, name, username, email, passwordHash, role)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
