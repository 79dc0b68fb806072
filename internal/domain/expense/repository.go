package expense

import (
	"context"
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
)

type ExpenseRepository interface {
	GetByID(ctx context.Context, id string) (Expense, error)
	Create(ctx context.Context, e Expense) (Expense, error)
	Update(ctx context.Context, e Expense) (Expense, error)

	// UpdateStatus is conditional on the current status being `from`.
	UpdateStatus(ctx context.Context, id string, from, to Status, reviewerID string, at time.Time) (ok bool, err error)

	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) (int, error)
	List(ctx context.Context, scope permission.Scope, filter ListExpenseFilter) ([]Expense, error)
}
