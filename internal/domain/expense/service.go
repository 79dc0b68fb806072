package expense

import (
	"context"
	"time"
)

type ExpenseService interface {
	CreateExpense(ctx context.Context, actorID string, req CreateExpenseRequest, now time.Time) (Expense, error)
	UpdateExpense(ctx context.Context, actorID string, req UpdateExpenseRequest, now time.Time) (Expense, error)
	DeleteExpense(ctx context.Context, actorID, expenseID string, now time.Time) error
	ReviewExpense(ctx context.Context, actorID, expenseID string, action ReviewAction, now time.Time) (Expense, error)
	ListExpenses(ctx context.Context, actorID string, filter ListExpenseFilter) ([]Expense, error)

	// CanEditExpenseByDate reports whether expenseDate's month is still editable at now.
	CanEditExpenseByDate(expenseDate, now time.Time) bool
}
