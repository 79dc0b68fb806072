package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/expense"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
)

type expenseRepository struct {
	s *Store
}

func NewExpenseRepository(s *Store) expense.ExpenseRepository {
	return &expenseRepository{s: s}
}

func (r *expenseRepository) GetByID(ctx context.Context, id string) (expense.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("expenses.GetByID"); err != nil {
		return expense.Expense{}, err
	}

	e, ok := r.s.data.expenses[id]
	if !ok {
		return expense.Expense{}, expense.ErrExpenseNotFound
	}
	return e, nil
}

func (r *expenseRepository) Create(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("expenses.Create"); err != nil {
		return expense.Expense{}, err
	}

	if e.ID == "" {
		e.ID = newID()
	}
	now := r.s.now()
	e.CreatedAt = now
	e.UpdatedAt = now
	r.s.data.expenses[e.ID] = e
	return e, nil
}

func (r *expenseRepository) Update(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("expenses.Update"); err != nil {
		return expense.Expense{}, err
	}

	existing, ok := r.s.data.expenses[e.ID]
	if !ok {
		return expense.Expense{}, expense.ErrExpenseNotFound
	}
	e.CreatedAt = existing.CreatedAt
	e.UpdatedAt = r.s.now()
	r.s.data.expenses[e.ID] = e
	return e, nil
}

func (r *expenseRepository) UpdateStatus(ctx context.Context, id string, from, to expense.Status, reviewerID string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("expenses.UpdateStatus"); err != nil {
		return false, err
	}

	e, ok := r.s.data.expenses[id]
	if !ok {
		return false, expense.ErrExpenseNotFound
	}
	if e.Status != from {
		return false, nil
	}
	e.Status = to
	e.ReviewedBy = &reviewerID
	e.ReviewedAt = &at
	e.UpdatedAt = r.s.now()
	r.s.data.expenses[id] = e
	return true, nil
}

func (r *expenseRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("expenses.Delete"); err != nil {
		return err
	}

	if _, ok := r.s.data.expenses[id]; !ok {
		return expense.ErrExpenseNotFound
	}
	delete(r.s.data.expenses, id)
	return nil
}

func (r *expenseRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("expenses.DeleteByUser"); err != nil {
		return 0, err
	}

	n := 0
	for id, e := range r.s.data.expenses {
		if e.UserID == userID {
			delete(r.s.data.expenses, id)
			n++
		}
	}
	return n, nil
}

func (r *expenseRepository) List(ctx context.Context, scope permission.Scope, filter expense.ListExpenseFilter) ([]expense.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("expenses.List"); err != nil {
		return nil, err
	}

	expenses := []expense.Expense{}
	for _, e := range r.s.data.expenses {
		if !r.s.includes(scope, e.UserID) {
			continue
		}
		if filter.UserID != nil && e.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		if !inRange(e.Date, filter.From, filter.To) {
			continue
		}
		expenses = append(expenses, e)
	}
	sortByDate(expenses, func(e expense.Expense) time.Time { return e.Date }, func(e expense.Expense) string { return e.ID })
	return expenses, nil
}
