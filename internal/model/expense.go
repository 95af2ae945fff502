package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the layout used for created_on in input and output.
const DateFormat = "2006-01-02"

// Expense is one row of the expenses table.
type Expense struct {
	ID        int64           `db:"id"`
	Amount    decimal.Decimal `db:"amount"`
	Memo      string          `db:"memo"`
	CreatedOn time.Time       `db:"created_on"`
}

// Date returns CreatedOn formatted as YYYY-MM-DD.
func (e Expense) Date() string {
	return e.CreatedOn.Format(DateFormat)
}

// Total sums the amounts of expenses, rounded to cents.
func Total(expenses []Expense) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(e.Amount)
	}
	return sum.Round(2)
}

// Today returns t's calendar day (in t's location) as midnight UTC.
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
