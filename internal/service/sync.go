// Package service orchestrates the remote API, the in-memory expense
// collection and the offline cache.
package service

import (
	"context"

	"outlay/internal/api"
	"outlay/internal/database/repository"
	"outlay/internal/expense"
)

// Lister is the read side of the remote API consumed by SyncService.
type Lister interface {
	ListExpenses(ctx context.Context) ([]expense.Expense, error)
}

// SyncService installs the remote collection into the store and keeps
// the offline cache in step. The cache is advisory: a cache write
// failure never fails a refresh.
type SyncService struct {
	API   Lister
	Store *expense.Store
	Cache *repository.ExpenseRepo
}

// Refresh fetches the full collection and replaces the store contents.
// The store is only touched after the fetch succeeded.
func (s *SyncService) Refresh(ctx context.Context) error {
	list, err := s.API.ListExpenses(ctx)
	if err != nil {
		return err
	}
	s.Store.SetAll(list)
	if s.Cache != nil {
		_ = s.Cache.ReplaceAll(ctx, list)
	}
	return nil
}

// LoadCached installs the cached collection so the UI has something to
// show before the first fetch resolves. Returns the number of rows
// installed; an empty or missing cache installs nothing.
func (s *SyncService) LoadCached(ctx context.Context) (int, error) {
	if s.Cache == nil {
		return 0, nil
	}
	list, err := s.Cache.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(list) > 0 {
		s.Store.SetAll(list)
	}
	return len(list), nil
}

// Writer is the mutating side of the remote API consumed by ExpenseWriter.
type Writer interface {
	CreateExpense(ctx context.Context, d api.Draft) (string, error)
	UpdateExpense(ctx context.Context, id string, d api.Draft) error
	DeleteExpense(ctx context.Context, id string) error
}

// ExpenseWriter performs network-first mutations: the remote call runs
// first, and the collection and cache are touched only once it has
// succeeded. A network failure therefore never reaches the store.
type ExpenseWriter struct {
	API   Writer
	Store *expense.Store
	Cache *repository.ExpenseRepo
}

// Create submits the draft and appends the confirmed record, keyed by
// the server-assigned identifier.
func (w *ExpenseWriter) Create(ctx context.Context, d api.Draft) (expense.Expense, error) {
	id, err := w.API.CreateExpense(ctx, d)
	if err != nil {
		return expense.Expense{}, err
	}
	e := expense.Expense{ID: id, Description: d.Description, Amount: d.Amount, Date: d.Date}
	w.Store.Add(e)
	if w.Cache != nil {
		_ = w.Cache.Upsert(ctx, e)
	}
	return e, nil
}

// Update replaces the mutable fields of the identified expense.
func (w *ExpenseWriter) Update(ctx context.Context, id string, d api.Draft) error {
	if err := w.API.UpdateExpense(ctx, id, d); err != nil {
		return err
	}
	w.Store.Update(id, expense.Patch{
		Description: &d.Description,
		Amount:      &d.Amount,
		Date:        &d.Date,
	})
	if w.Cache != nil {
		if e, ok := w.Store.Get(id); ok {
			_ = w.Cache.Upsert(ctx, e)
		}
	}
	return nil
}

// Delete removes the identified expense. A remote 404 still removes the
// local record: the expense is gone either way.
func (w *ExpenseWriter) Delete(ctx context.Context, id string) error {
	if err := w.API.DeleteExpense(ctx, id); err != nil && err != api.ErrNotFound {
		return err
	}
	w.Store.Delete(id)
	if w.Cache != nil {
		_ = w.Cache.Delete(ctx, id)
	}
	return nil
}
