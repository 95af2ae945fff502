package expense

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/expense-cli/expense/internal/id"
	"github.com/expense-cli/expense/internal/model"
)

// Repository is the persistence the Service needs. *store.Store satisfies it.
type Repository interface {
	Insert(ctx context.Context, amount decimal.Decimal, memo string, createdOn time.Time) (int64, error)
	List(ctx context.Context) ([]model.Expense, error)
	Search(ctx context.Context, query string) ([]model.Expense, error)
	FindByID(ctx context.Context, id int64) ([]model.Expense, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// Service carries out expense commands and writes their output.
type Service struct {
	repo Repository
	out  io.Writer
	now  func() time.Time
	log  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a Service printing to out.
func NewService(repo Repository, out io.Writer, opts ...Option) *Service {
	s := &Service{repo: repo, out: out, now: time.Now, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add records an expense. Missing or invalid input is reported on the output
// and inserts nothing. date may be empty for today.
func (s *Service) Add(ctx context.Context, amount, memo, date string) error {
	if amount == "" || memo == "" {
		return writeLines(s.out, MsgMissingFields)
	}

	value, err := ParseAmount(amount)
	if err != nil {
		return s.report(err)
	}
	createdOn, err := ParseDate(date, s.now())
	if err != nil {
		return s.report(err)
	}

	newID, err := s.repo.Insert(ctx, value, memo, createdOn)
	if err != nil {
		return fmt.Errorf("adding expense: %w", err)
	}
	s.log.Info("expense added", "id", newID)
	return writeLines(s.out, fmt.Sprintf("Expense #%s has been added.", id.Format(newID)))
}

// List prints every expense.
func (s *Service) List(ctx context.Context) error {
	expenses, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("listing expenses: %w", err)
	}
	return WriteReport(s.out, expenses)
}

// Search prints the expenses whose memo contains query, ignoring case.
func (s *Service) Search(ctx context.Context, query string) error {
	expenses, err := s.repo.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("searching expenses: %w", err)
	}
	return WriteReport(s.out, expenses)
}

// Delete removes one expense by id and prints it, or reports that it does
// not exist.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	notFound := fmt.Sprintf("There is no expense with the id '%s'.", rawID)

	key, err := id.Parse(rawID)
	if err != nil {
		return writeLines(s.out, notFound)
	}

	matches, err := s.repo.FindByID(ctx, key)
	if err != nil {
		return fmt.Errorf("deleting expense %d: %w", key, err)
	}
	if len(matches) != 1 {
		return writeLines(s.out, notFound)
	}

	if _, err := s.repo.DeleteByID(ctx, key); err != nil {
		return fmt.Errorf("deleting expense %d: %w", key, err)
	}
	s.log.Info("expense deleted", "id", key)
	return writeLines(s.out, "The following expense has been deleted:", FormatRow(matches[0]))
}

// Clear removes every expense. Confirmation is the caller's job.
func (s *Service) Clear(ctx context.Context) error {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("clearing expenses: %w", err)
	}
	s.log.Info("expenses cleared", "rows", n)
	return writeLines(s.out, "All expenses have been deleted.")
}

// report prints a validation message; any other error is returned.
func (s *Service) report(err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return writeLines(s.out, ve.Message)
	}
	return err
}
