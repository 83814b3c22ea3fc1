package repositories

import (
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so the same queries serve
// plain reads and transactional sections.
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

const mysqlDuplicateEntry = 1062

// IsDuplicateEntry reports whether err is a MySQL duplicate-key violation,
// the signal the in-progress-trip unique index raises on a double boarding.
func IsDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
