// Package repository holds the sqlite-backed cache repository.
package repository

import (
	"context"
	"database/sql"
	"time"

	"outlay/internal/database"
	"outlay/internal/expense"
)

const dateFormat = "2006-01-02"

// ExpenseRepo caches the last fetched expense collection. The cache is
// advisory: the in-memory store stays authoritative, and the cache is
// rewritten after every successful bulk fetch.
type ExpenseRepo struct {
	db *sql.DB
}

func NewExpenseRepo(db *sql.DB) *ExpenseRepo { return &ExpenseRepo{db: db} }

// ReplaceAll discards the cached rows and installs list in order.
func (r *ExpenseRepo) ReplaceAll(ctx context.Context, list []expense.Expense) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
			return err
		}
		for i, e := range list {
			_, err := tx.ExecContext(ctx, `
			INSERT INTO expenses(id, description, amount, date, position, fetched_at)
			VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
			`, e.ID, e.Description, e.Amount, e.Date.Format(dateFormat), i)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Upsert writes a single confirmed expense. New rows append after the
// current highest position so List keeps insertion order.
func (r *ExpenseRepo) Upsert(ctx context.Context, e expense.Expense) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO expenses(id, description, amount, date, position, fetched_at)
	VALUES (?, ?, ?, ?, COALESCE((SELECT MAX(position) FROM expenses), -1) + 1, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 description=excluded.description,
	 amount=excluded.amount,
	 date=excluded.date,
	 fetched_at=CURRENT_TIMESTAMP;
	`, e.ID, e.Description, e.Amount, e.Date.Format(dateFormat))
	return err
}

// Delete removes a cached row. Missing rows are fine.
func (r *ExpenseRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	return err
}

// List returns the cached collection in cached order.
func (r *ExpenseRepo) List(ctx context.Context) ([]expense.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, description, amount, date FROM expenses ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []expense.Expense
	for rows.Next() {
		var e expense.Expense
		var date string
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &date); err != nil {
			return nil, err
		}
		if e.Date, err = time.Parse(dateFormat, date); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
