package store

import (
	"context"
)

// TableName is the single table managed by the Store.
const TableName = "expenses"

const tableExistsSQL = `SELECT COUNT(*) FROM information_schema.tables
WHERE table_schema = 'public' AND table_name = $1`

// CreateTableSQL is the DDL run when the expenses table is missing.
const CreateTableSQL = `CREATE TABLE expenses (
  id serial PRIMARY KEY,
  amount numeric(6,2) NOT NULL CHECK (amount >= 0.01),
  memo text NOT NULL,
  created_on date NOT NULL
)`

// EnsureSchema creates the expenses table unless the catalog already lists it.
func (s *Store) EnsureSchema(ctx context.Context) error {
	var count int
	if err := s.db.GetContext(ctx, &count, tableExistsSQL, TableName); err != nil {
		return wrap("checking schema", err)
	}
	if count > 0 {
		s.log.Debug("schema present", "table", TableName)
		return nil
	}

	if _, err := s.db.ExecContext(ctx, CreateTableSQL); err != nil {
		return wrap("creating schema", err)
	}
	s.log.Info("created table", "table", TableName)
	return nil
}
