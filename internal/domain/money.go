package domain

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is a currency amount in centavos. Keeping amounts as integers avoids
// float drift when balances are debited and credited many times a day.
type Money int64

// MoneyFromFloat rounds a decimal amount (e.g. 2.5) to centavos.
func MoneyFromFloat(f float64) Money {
	return Money(math.Round(f * 100))
}

// ParseMoney parses a decimal string such as "75.00" or "-3.5" into centavos.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty money value")
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" {
		intPart = "0"
	}
	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid money value %q", s)
	}
	// Normalize the fraction to exactly two digits, rounding the rest.
	cents := int64(0)
	if fracPart != "" {
		padded := fracPart + "000"
		cents, err = strconv.ParseInt(padded[:2], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid money value %q", s)
		}
		if padded[2] >= '5' {
			cents++
		}
	}
	total := units*100 + cents
	if neg {
		total = -total
	}
	return Money(total), nil
}

// Float64 returns the amount as a decimal number of currency units.
func (m Money) Float64() float64 {
	return float64(m) / 100
}

// String renders the amount with two decimals, e.g. "75.00".
func (m Money) String() string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON renders the amount as a plain JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Float64(), 'f', -1, 64)), nil
}

// UnmarshalJSON accepts JSON numbers ("25", "25.5") and rounds to centavos.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid money value %s", data)
	}
	*m = MoneyFromFloat(f)
	return nil
}

// Scan implements sql.Scanner for DECIMAL columns, which the MySQL driver
// delivers as []byte.
func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = 0
		return nil
	case []byte:
		parsed, err := ParseMoney(string(v))
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	case string:
		parsed, err := ParseMoney(v)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	case int64:
		*m = Money(v * 100)
		return nil
	case float64:
		*m = MoneyFromFloat(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Money", src)
	}
}

// Value implements driver.Valuer, storing the canonical two-decimal form.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}
