package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxPrice is the largest catalog price accepted (five integer digits).
var MaxPrice = decimal.RequireFromString("99999.99")

// Money is a fixed two-decimal monetary amount.
// It is stored as a SQL decimal and serialized as a JSON string ("19.98").
type Money struct {
	decimal.Decimal
}

// NewMoney rounds d to cents.
func NewMoney(d decimal.Decimal) Money {
	return Money{d.Round(2)}
}

// ZeroMoney returns 0.00.
func ZeroMoney() Money {
	return Money{decimal.Zero}
}

// ParseMoney parses a decimal string such as "9.99".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{d}, nil
}

// MustMoney is ParseMoney for constants and tests.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Times returns m multiplied by a line quantity.
func (m Money) Times(quantity int) Money {
	return Money{m.Decimal.Mul(decimal.NewFromInt(int64(quantity)))}
}

// Plus returns m + o.
func (m Money) Plus(o Money) Money {
	return Money{m.Decimal.Add(o.Decimal)}
}

// WholeCents reports whether m has at most two decimal places.
func (m Money) WholeCents() bool {
	return m.Decimal.Equal(m.Decimal.Round(2))
}

func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}
