package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"outlay/internal/api"
	"outlay/internal/database"
	"outlay/internal/database/repository"
	"outlay/internal/expense"
)

func testCache(t *testing.T) *repository.ExpenseRepo {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	migrations, err := filepath.Abs("../database/migrations")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbPath, migrations))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewExpenseRepo(db)
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

type fakeLister struct {
	list []expense.Expense
	err  error
}

func (f *fakeLister) ListExpenses(ctx context.Context) ([]expense.Expense, error) {
	return f.list, f.err
}

type fakeWriterAPI struct {
	createID  string
	createErr error
	updateErr error
	deleteErr error
	deleted   []string
}

func (f *fakeWriterAPI) CreateExpense(ctx context.Context, d api.Draft) (string, error) {
	return f.createID, f.createErr
}

func (f *fakeWriterAPI) UpdateExpense(ctx context.Context, id string, d api.Draft) error {
	return f.updateErr
}

func (f *fakeWriterAPI) DeleteExpense(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func TestRefreshInstallsFetchedCollection(t *testing.T) {
	ctx := context.Background()
	remote := []expense.Expense{
		{ID: "1", Description: "Coffee", Amount: 3.50, Date: day("2026-08-01")},
		{ID: "2", Description: "Lunch", Amount: 12.00, Date: day("2026-08-02")},
	}
	store := expense.NewStore()
	cache := testCache(t)
	s := &SyncService{API: &fakeLister{list: remote}, Store: store, Cache: cache}

	require.NoError(t, s.Refresh(ctx))
	require.Equal(t, remote, store.All())

	cached, err := cache.List(ctx)
	require.NoError(t, err)
	require.Equal(t, remote, cached)
}

func TestRefreshFailureLeavesStoreUntouched(t *testing.T) {
	store := expense.NewStore()
	store.SetAll([]expense.Expense{{ID: "1", Description: "kept"}})
	s := &SyncService{API: &fakeLister{err: errors.New("boom")}, Store: store}

	require.Error(t, s.Refresh(context.Background()))
	require.Equal(t, 1, store.Len())
}

func TestLoadCachedInstallsRows(t *testing.T) {
	ctx := context.Background()
	cache := testCache(t)
	rows := []expense.Expense{
		{ID: "1", Description: "Coffee", Amount: 3.50, Date: day("2026-08-01")},
	}
	require.NoError(t, cache.ReplaceAll(ctx, rows))

	store := expense.NewStore()
	s := &SyncService{Store: store, Cache: cache}

	count, err := s.LoadCached(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, rows, store.All())
}

func TestLoadCachedEmptyInstallsNothing(t *testing.T) {
	store := expense.NewStore()
	s := &SyncService{Store: store, Cache: testCache(t)}

	count, err := s.LoadCached(context.Background())
	require.NoError(t, err)
	require.Zero(t, count)
	require.Zero(t, store.Len())
}

func TestLoadCachedWithoutCache(t *testing.T) {
	s := &SyncService{Store: expense.NewStore()}
	count, err := s.LoadCached(context.Background())
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestCreateAppendsConfirmedExpense(t *testing.T) {
	store := expense.NewStore()
	w := &ExpenseWriter{API: &fakeWriterAPI{createID: "42"}, Store: store}

	e, err := w.Create(context.Background(), api.Draft{Description: "Coffee", Amount: 3.50, Date: day("2026-08-01")})
	require.NoError(t, err)
	require.Equal(t, "42", e.ID)

	got, ok := store.Get("42")
	require.True(t, ok)
	require.Equal(t, "Coffee", got.Description)
}

func TestCreateFailureNeverReachesStore(t *testing.T) {
	store := expense.NewStore()
	w := &ExpenseWriter{API: &fakeWriterAPI{createErr: errors.New("down")}, Store: store}

	_, err := w.Create(context.Background(), api.Draft{Description: "Coffee"})
	require.Error(t, err)
	require.Zero(t, store.Len())
}

func TestUpdatePatchesStoreAfterConfirmation(t *testing.T) {
	store := expense.NewStore()
	store.SetAll([]expense.Expense{{ID: "1", Description: "Book", Amount: 14.99, Date: day("2026-08-01")}})
	w := &ExpenseWriter{API: &fakeWriterAPI{}, Store: store}

	err := w.Update(context.Background(), "1", api.Draft{Description: "Book", Amount: 19.99, Date: day("2026-08-01")})
	require.NoError(t, err)

	e, _ := store.Get("1")
	require.Equal(t, 19.99, e.Amount)
}

func TestUpdateFailureLeavesStoreUntouched(t *testing.T) {
	store := expense.NewStore()
	store.SetAll([]expense.Expense{{ID: "1", Amount: 14.99}})
	w := &ExpenseWriter{API: &fakeWriterAPI{updateErr: errors.New("down")}, Store: store}

	require.Error(t, w.Update(context.Background(), "1", api.Draft{Amount: 19.99}))

	e, _ := store.Get("1")
	require.Equal(t, 14.99, e.Amount)
}

func TestDeleteRemovesFromStoreAndCache(t *testing.T) {
	ctx := context.Background()
	store := expense.NewStore()
	cache := testCache(t)
	rows := []expense.Expense{{ID: "1", Description: "Coffee", Date: day("2026-08-01")}}
	store.SetAll(rows)
	require.NoError(t, cache.ReplaceAll(ctx, rows))

	apiFake := &fakeWriterAPI{}
	w := &ExpenseWriter{API: apiFake, Store: store, Cache: cache}

	require.NoError(t, w.Delete(ctx, "1"))
	require.Zero(t, store.Len())
	require.Equal(t, []string{"1"}, apiFake.deleted)

	cached, err := cache.List(ctx)
	require.NoError(t, err)
	require.Empty(t, cached)
}

func TestDeleteTreatsRemoteNotFoundAsSuccess(t *testing.T) {
	store := expense.NewStore()
	store.SetAll([]expense.Expense{{ID: "1"}})
	w := &ExpenseWriter{API: &fakeWriterAPI{deleteErr: api.ErrNotFound}, Store: store}

	require.NoError(t, w.Delete(context.Background(), "1"))
	require.Zero(t, store.Len())
}
