package repositories

import (
	"database/sql"

	intconfig "github.com/FreddyB200/sistema-recarga-viajes-backend/internal/config"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/domain"
)

type LatestUser struct {
	UserID   int64  `json:"user_id"`
	FullName string `json:"full_name"`
}

type UsersRepository struct {
	DB *sql.DB
}

func (r UsersRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r UsersRepository) Count() (int64, error) {
	var count int64
	err := r.db().QueryRow(`SELECT COUNT(*) AS total_users FROM users`).Scan(&count)
	return count, err
}

// ActiveCount counts distinct users holding at least one active card.
func (r UsersRepository) ActiveCount() (int64, error) {
	var count int64
	err := r.db().QueryRow(`
		SELECT COUNT(DISTINCT u.user_id) AS active_users_count
		FROM users u
		JOIN cards c ON c.user_id = u.user_id
		WHERE c.status = 'active'
	`).Scan(&count)
	return count, err
}

// Latest returns the most recently registered user, user_id as the
// deterministic tie-breaker. NotFound means the table is empty.
func (r UsersRepository) Latest() (LatestUser, error) {
	var (
		user      LatestUser
		firstName string
		lastName  string
	)
	err := r.db().QueryRow(`
		SELECT user_id, first_name, last_name
		FROM users
		ORDER BY registration_date DESC, user_id DESC
		LIMIT 1
	`).Scan(&user.UserID, &firstName, &lastName)
	if err == sql.ErrNoRows {
		return LatestUser{}, domain.NotFoundError{Resource: "User"}
	}
	if err != nil {
		return LatestUser{}, err
	}
	user.FullName = firstName + " " + lastName
	return user, nil
}
