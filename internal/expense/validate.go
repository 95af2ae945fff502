package expense

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/expense-cli/expense/internal/model"
)

// Amount bounds imposed by the numeric(6,2) column and its check constraint.
var (
	MinAmount = decimal.RequireFromString("0.01")
	MaxAmount = decimal.RequireFromString("9999.99")
)

// ValidationError is a user input problem. It is reported, not fatal.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MsgMissingFields is printed when add is called without an amount or memo.
const MsgMissingFields = "You must provide an amount and memo"

// ParseAmount validates a user-supplied amount string.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Message: "The amount '" + s + "' is not a number."}
	}
	if amount.LessThan(MinAmount) {
		return decimal.Zero, &ValidationError{Message: "The amount must be at least " + MinAmount.StringFixed(2) + "."}
	}
	if amount.GreaterThan(MaxAmount) {
		return decimal.Zero, &ValidationError{Message: "The amount must be at most " + MaxAmount.StringFixed(2) + "."}
	}
	if !amount.Equal(amount.Truncate(2)) {
		return decimal.Zero, &ValidationError{Message: "The amount '" + s + "' has more than 2 decimal places."}
	}
	return amount, nil
}

// ParseDate validates an optional YYYY-MM-DD date. Empty means today.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Today(now), nil
	}
	d, err := time.Parse(model.DateFormat, s)
	if err != nil {
		return time.Time{}, &ValidationError{Message: "The date '" + s + "' is not in YYYY-MM-DD format."}
	}
	return d, nil
}
