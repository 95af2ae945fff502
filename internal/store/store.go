package store

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // registers "postgres"
	"github.com/shopspring/decimal"

	"github.com/expense-cli/expense/internal/config"
	"github.com/expense-cli/expense/internal/model"
)

const (
	selectColumns = `SELECT id, amount, memo, created_on FROM expenses`
	orderByDate   = ` ORDER BY created_on ASC, id ASC`

	insertSQL    = `INSERT INTO expenses (amount, memo, created_on) VALUES ($1, $2, $3) RETURNING id`
	listSQL      = selectColumns + orderByDate
	searchSQL    = selectColumns + ` WHERE memo ILIKE $1` + orderByDate
	findByIDSQL  = selectColumns + ` WHERE id = $1`
	deleteSQL    = `DELETE FROM expenses WHERE id = $1`
	deleteAllSQL = `DELETE FROM expenses`
)

// Store runs the expense queries against PostgreSQL.
type Store struct {
	db  *sqlx.DB
	log *slog.Logger
}

// Open connects with cfg, verifies the connection and bootstraps the schema.
// Every failure is reported with KindConnection.
func Open(ctx context.Context, cfg config.Database, log *slog.Logger) (*Store, error) {
	db, err := sqlx.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, &Error{Kind: KindConnection, Op: "opening database", Err: err}
	}
	// One logical operation per process.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &Error{Kind: KindConnection, Op: "connecting to database", Err: err}
	}

	s := New(db, log)
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		var se *Error
		if errors.As(err, &se) {
			se.Kind = KindConnection
			return nil, se
		}
		return nil, &Error{Kind: KindConnection, Op: "bootstrapping schema", Err: err}
	}
	return s, nil
}

// New wraps an existing connection. It does not touch the schema.
func New(db *sqlx.DB, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{db: db, log: log.With("component", "store")}
}

// Close releases the connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert adds an expense and returns its new ID.
func (s *Store) Insert(ctx context.Context, amount decimal.Decimal, memo string, createdOn time.Time) (int64, error) {
	var id int64
	if err := s.db.QueryRowxContext(ctx, insertSQL, amount, memo, createdOn).Scan(&id); err != nil {
		return 0, wrap("inserting expense", err)
	}
	s.log.Debug("inserted expense", "id", id, "amount", amount.StringFixed(2))
	return id, nil
}

// List returns every expense ordered by date, then insertion.
func (s *Store) List(ctx context.Context) ([]model.Expense, error) {
	var expenses []model.Expense
	if err := s.db.SelectContext(ctx, &expenses, listSQL); err != nil {
		return nil, wrap("listing expenses", err)
	}
	s.log.Debug("listed expenses", "rows", len(expenses))
	return expenses, nil
}

// Search returns expenses whose memo contains query, ignoring case.
func (s *Store) Search(ctx context.Context, query string) ([]model.Expense, error) {
	var expenses []model.Expense
	if err := s.db.SelectContext(ctx, &expenses, searchSQL, ContainsPattern(query)); err != nil {
		return nil, wrap("searching expenses", err)
	}
	s.log.Debug("searched expenses", "query", query, "rows", len(expenses))
	return expenses, nil
}

// FindByID returns the rows matching id: none or one.
func (s *Store) FindByID(ctx context.Context, id int64) ([]model.Expense, error) {
	var expenses []model.Expense
	if err := s.db.SelectContext(ctx, &expenses, findByIDSQL, id); err != nil {
		return nil, wrap("finding expense", err)
	}
	return expenses, nil
}

// DeleteByID removes the expense with id and reports how many rows went.
func (s *Store) DeleteByID(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, deleteSQL, id)
	if err != nil {
		return 0, wrap("deleting expense", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrap("deleting expense", err)
	}
	s.log.Debug("deleted expense", "id", id, "rows", n)
	return n, nil
}

// DeleteAll removes every expense.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, deleteAllSQL)
	if err != nil {
		return 0, wrap("deleting all expenses", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrap("deleting all expenses", err)
	}
	s.log.Debug("deleted all expenses", "rows", n)
	return n, nil
}

// ContainsPattern turns query into an ILIKE pattern matching it as a literal
// substring.
func ContainsPattern(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(query) + "%"
}
