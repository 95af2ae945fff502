package expense

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expense-cli/expense/internal/model"
)

// memoryRepo is an in-memory Repository with serial IDs.
type memoryRepo struct {
	rows   []model.Expense
	nextID int64
	err    error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1}
}

func (r *memoryRepo) Insert(_ context.Context, amount decimal.Decimal, memo string, createdOn time.Time) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	id := r.nextID
	r.nextID++
	r.rows = append(r.rows, model.Expense{ID: id, Amount: amount, Memo: memo, CreatedOn: createdOn})
	return id, nil
}

func (r *memoryRepo) sorted(keep func(model.Expense) bool) []model.Expense {
	var out []model.Expense
	for _, e := range r.rows {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedOn.Equal(out[j].CreatedOn) {
			return out[i].CreatedOn.Before(out[j].CreatedOn)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *memoryRepo) List(context.Context) ([]model.Expense, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.sorted(func(model.Expense) bool { return true }), nil
}

func (r *memoryRepo) Search(_ context.Context, query string) ([]model.Expense, error) {
	if r.err != nil {
		return nil, r.err
	}
	q := strings.ToLower(query)
	return r.sorted(func(e model.Expense) bool {
		return strings.Contains(strings.ToLower(e.Memo), q)
	}), nil
}

func (r *memoryRepo) FindByID(_ context.Context, id int64) ([]model.Expense, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.sorted(func(e model.Expense) bool { return e.ID == id }), nil
}

func (r *memoryRepo) DeleteByID(_ context.Context, id int64) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	for i, e := range r.rows {
		if e.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *memoryRepo) DeleteAll(context.Context) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	n := int64(len(r.rows))
	r.rows = nil
	return n, nil
}

var fixedNow = time.Date(2025, 1, 15, 18, 30, 0, 0, time.UTC)

func newTestService() (*Service, *memoryRepo, *bytes.Buffer) {
	repo := newMemoryRepo()
	var out bytes.Buffer
	svc := NewService(repo, &out, WithClock(func() time.Time { return fixedNow }))
	return svc, repo, &out
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestAdd_InsertsOneRowDatedToday(t *testing.T) {
	svc, repo, out := newTestService()

	require.NoError(t, svc.Add(context.Background(), "5.00", "coffee", ""))

	require.Len(t, repo.rows, 1)
	assert.Equal(t, "coffee", repo.rows[0].Memo)
	assert.Equal(t, "5.00", repo.rows[0].Amount.StringFixed(2))
	assert.True(t, date(2025, 1, 15).Equal(repo.rows[0].CreatedOn))
	assert.Equal(t, "Expense #1 has been added.\n", out.String())
}

func TestAdd_ExplicitDate(t *testing.T) {
	svc, repo, _ := newTestService()

	require.NoError(t, svc.Add(context.Background(), "12", "rent share", "2024-12-31"))

	require.Len(t, repo.rows, 1)
	assert.True(t, date(2024, 12, 31).Equal(repo.rows[0].CreatedOn))
}

func TestAdd_MissingFields(t *testing.T) {
	tests := []struct {
		name, amount, memo string
	}{
		{"no amount", "", "coffee"},
		{"no memo", "5.00", ""},
		{"neither", "", ""},
	}
	for _, tt := range tests {
		svc, repo, out := newTestService()

		err := svc.Add(context.Background(), tt.amount, tt.memo, "")
		require.NoError(t, err, tt.name)
		assert.Empty(t, repo.rows, tt.name)
		assert.Equal(t, MsgMissingFields+"\n", out.String(), tt.name)
	}
}

func TestAdd_InvalidInputInsertsNothing(t *testing.T) {
	tests := []struct {
		name, amount, date, want string
	}{
		{"not a number", "five", "", "The amount 'five' is not a number."},
		{"zero", "0", "", "The amount must be at least 0.01."},
		{"negative", "-3.00", "", "The amount must be at least 0.01."},
		{"too large", "10000", "", "The amount must be at most 9999.99."},
		{"too precise", "1.005", "", "The amount '1.005' has more than 2 decimal places."},
		{"bad date", "1.00", "15/01/2025", "The date '15/01/2025' is not in YYYY-MM-DD format."},
	}
	for _, tt := range tests {
		svc, repo, out := newTestService()

		err := svc.Add(context.Background(), tt.amount, "memo", tt.date)
		require.NoError(t, err, tt.name)
		assert.Empty(t, repo.rows, tt.name)
		assert.Equal(t, tt.want+"\n", out.String(), tt.name)
	}
}

func TestAdd_RepositoryErrorPropagates(t *testing.T) {
	svc, repo, out := newTestService()
	repo.err = errors.New("check constraint")

	err := svc.Add(context.Background(), "1.00", "memo", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.err)
	assert.Empty(t, out.String())
}

func TestList_Empty(t *testing.T) {
	svc, _, out := newTestService()

	require.NoError(t, svc.List(context.Background()))
	assert.Equal(t, "There are no expenses yet.\n", out.String())
}

func TestList_FloatProneTotal(t *testing.T) {
	svc, _, out := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "0.10", "gum", ""))
	require.NoError(t, svc.Add(ctx, "0.20", "mint", ""))
	out.Reset()

	require.NoError(t, svc.List(ctx))
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Total "+strings.Repeat(" ", 21)+"0.30", lines[4])
}

func TestEndToEnd(t *testing.T) {
	svc, repo, out := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "5.00", "coffee", ""))
	require.NoError(t, svc.Add(ctx, "10.50", "lunch", ""))
	out.Reset()

	require.NoError(t, svc.List(ctx))
	want := strings.Join([]string{
		"There are 2 expenses.",
		"  1 | 2025-01-15 |         5.00 | coffee",
		"  2 | 2025-01-15 |        10.50 | lunch",
		strings.Repeat("-", 50),
		"Total                     15.50",
		"",
	}, "\n")
	assert.Equal(t, want, out.String())

	coffeeID := repo.rows[0].ID
	out.Reset()
	require.NoError(t, svc.Delete(ctx, "1"))
	assert.Equal(t, int64(1), coffeeID)
	assert.Equal(t, "The following expense has been deleted:\n  1 | 2025-01-15 |         5.00 | coffee\n", out.String())

	out.Reset()
	require.NoError(t, svc.List(ctx))
	want = strings.Join([]string{
		"There is 1 expense.",
		"  2 | 2025-01-15 |        10.50 | lunch",
		strings.Repeat("-", 50),
		"Total                     10.50",
		"",
	}, "\n")
	assert.Equal(t, want, out.String())
}

func TestList_OrderedByDate(t *testing.T) {
	svc, _, out := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "1.00", "second", "2025-01-02"))
	require.NoError(t, svc.Add(ctx, "1.00", "first", "2025-01-01"))
	out.Reset()

	require.NoError(t, svc.List(ctx))
	lines := strings.Split(out.String(), "\n")
	assert.Contains(t, lines[1], "first")
	assert.Contains(t, lines[2], "second")
}

func TestSearch(t *testing.T) {
	svc, _, out := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "3.00", "FOOD trip", "2025-01-03"))
	require.NoError(t, svc.Add(ctx, "1.00", "Food shopping", "2025-01-01"))
	require.NoError(t, svc.Add(ctx, "2.00", "drink", "2025-01-02"))
	require.NoError(t, svc.Add(ctx, "4.00", "foodstuffs", "2025-01-04"))
	out.Reset()

	require.NoError(t, svc.Search(ctx, "food"))
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "There are 3 expenses.", lines[0])
	assert.Contains(t, lines[1], "Food shopping")
	assert.Contains(t, lines[2], "FOOD trip")
	assert.Contains(t, lines[3], "foodstuffs")
	assert.NotContains(t, out.String(), "drink")
	assert.Equal(t, "Total                      8.00", lines[5])
}

func TestSearch_NoMatch(t *testing.T) {
	svc, _, out := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "2.00", "drink", ""))
	out.Reset()

	require.NoError(t, svc.Search(ctx, "food"))
	assert.Equal(t, "There are no expenses yet.\n", out.String())
}

func TestDelete_NotFound(t *testing.T) {
	svc, repo, out := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "2.00", "drink", ""))
	out.Reset()

	for _, rawID := range []string{"99", "abc", "-1"} {
		out.Reset()
		require.NoError(t, svc.Delete(ctx, rawID))
		assert.Equal(t, "There is no expense with the id '"+rawID+"'.\n", out.String())
	}
	assert.Len(t, repo.rows, 1)
}

func TestDelete_RepositoryError(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.err = errors.New("connection reset")

	err := svc.Delete(context.Background(), "1")
	assert.ErrorIs(t, err, repo.err)
}

func TestClear(t *testing.T) {
	svc, repo, out := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "2.00", "drink", ""))
	require.NoError(t, svc.Add(ctx, "3.00", "snack", ""))
	out.Reset()

	require.NoError(t, svc.Clear(ctx))
	assert.Empty(t, repo.rows)
	assert.Equal(t, "All expenses have been deleted.\n", out.String())
}
