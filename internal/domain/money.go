package domain

import (
	"encoding/json"
	"errors"
	"strconv"
)

// DefaultCurrency is the unit suffix used when rendering amounts.
const DefaultCurrency = "ETB"

var ErrBadAmount = errors.New("amount has no leading integer")

// Money is a currency-tagged amount: whole-unit magnitude plus a currency
// code. Amounts are parsed once at the boundary and carried structured from
// there on.
type Money struct {
	Amount   int64
	Currency string
}

func NewMoney(amount int64) Money {
	return Money{Amount: amount, Currency: DefaultCurrency}
}

func ZeroMoney() Money {
	return NewMoney(0)
}

// ParseMoney extracts the leading integer of a string like "250 ETB".
// Parsing stops at the first non-digit, so "250.50 ETB" yields 250.
// A string with no leading integer is an error.
func ParseMoney(s string) (Money, error) {
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return Money{}, ErrBadAmount
	}
	amount, err := strconv.ParseInt(s[:i], 10, 64)
	if err != nil {
		return Money{}, ErrBadAmount
	}
	return NewMoney(amount), nil
}

// LenientMoney parses like ParseMoney but degrades to a zero amount instead
// of failing. Used only where legacy stored carts may carry malformed
// prices; a cart must stay summable.
func LenientMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		return ZeroMoney()
	}
	return m
}

func (m Money) String() string {
	currency := m.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	return strconv.FormatInt(m.Amount, 10) + " " + currency
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*m = LenientMoney(s)
	return nil
}
