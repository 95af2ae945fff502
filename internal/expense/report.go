package expense

import (
	"fmt"
	"io"
	"strings"

	"github.com/expense-cli/expense/internal/id"
	"github.com/expense-cli/expense/internal/model"
)

const (
	widthID     = 3
	widthDate   = 10
	widthAmount = 12
	widthTotal  = 25
	ruleLength  = 50
)

// CountLine describes how many expenses follow.
func CountLine(n int) string {
	switch n {
	case 0:
		return "There are no expenses yet."
	case 1:
		return "There is 1 expense."
	default:
		return fmt.Sprintf("There are %d expenses.", n)
	}
}

// FormatRow renders one expense as right-justified columns followed by the memo.
func FormatRow(e model.Expense) string {
	return fmt.Sprintf("%*s | %*s | %*s | %s",
		widthID, id.Format(e.ID),
		widthDate, e.Date(),
		widthAmount, e.Amount.StringFixed(2),
		e.Memo,
	)
}

// TotalLines renders the separator and the sum of amounts.
func TotalLines(expenses []model.Expense) []string {
	return []string{
		strings.Repeat("-", ruleLength),
		fmt.Sprintf("Total %*s", widthTotal, model.Total(expenses).StringFixed(2)),
	}
}

// WriteReport writes the count line and, when there are rows, every row and
// the total.
func WriteReport(w io.Writer, expenses []model.Expense) error {
	lines := []string{CountLine(len(expenses))}
	if len(expenses) > 0 {
		for _, e := range expenses {
			lines = append(lines, FormatRow(e))
		}
		lines = append(lines, TotalLines(expenses)...)
	}
	return writeLines(w, lines...)
}

func writeLines(w io.Writer, lines ...string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	return nil
}
