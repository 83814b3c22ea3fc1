package utils

import "time"

const layoutDate = "2006-01-02"

// FormatDate formats time to YYYY-MM-DD in local timezone. Fare validity
// windows compare against this form.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(layoutDate)
}
