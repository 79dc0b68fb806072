package expense

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/expense"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/user"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/metrics"
	"github.com/cmlabs-hris/workforce-guard/internal/service/guard"
)

type ExpenseServiceImpl struct {
	expense.ExpenseRepository
	userRepo    user.UserRepository
	evaluator   permission.Evaluator
	metrics     *metrics.Recorder
	deadlineDay int
}

func NewExpenseService(
	expenseRepo expense.ExpenseRepository,
	userRepo user.UserRepository,
	evaluator permission.Evaluator,
	recorder *metrics.Recorder,
	deadlineDay int,
) expense.ExpenseService {
	return &ExpenseServiceImpl{
		ExpenseRepository: expenseRepo,
		userRepo:          userRepo,
		evaluator:         evaluator,
		metrics:           recorder,
		deadlineDay:       guard.NormalizeDay(deadlineDay),
	}
}

// canManage reports whether actorID may edit subjectID's expenses: the owner,
// or an actor holding editOthers.
func (e *ExpenseServiceImpl) canManage(ctx context.Context, actorID, subjectID string) (bool, error) {
	if actorID == subjectID {
		return true, nil
	}
	return e.evaluator.HasPermissionForUser(ctx, actorID, subjectID, role.CategoryExpenseManagement, role.ActionEditOthers)
}

func (e *ExpenseServiceImpl) checkDeadline(date, now time.Time) error {
	if !e.CanEditExpenseByDate(date, now) {
		e.metrics.GuardRejected(metrics.GuardExpense)
		return expense.ErrEditDeadlinePassed
	}
	return nil
}

// CanEditExpenseByDate implements expense.ExpenseService.
func (e *ExpenseServiceImpl) CanEditExpenseByDate(expenseDate, now time.Time) bool {
	return guard.CanEditExpenseByDate(expenseDate, now, e.deadlineDay)
}

// CreateExpense implements expense.ExpenseService.
func (e *ExpenseServiceImpl) CreateExpense(ctx context.Context, actorID string, req expense.CreateExpenseRequest, now time.Time) (expense.Expense, error) {
	if err := req.Validate(); err != nil {
		return expense.Expense{}, err
	}

	ok, err := e.canManage(ctx, actorID, req.UserID)
	if err != nil {
		return expense.Expense{}, err
	}
	if !ok {
		return expense.Expense{}, expense.ErrNotAllowed
	}
	if _, err := e.userRepo.GetByID(ctx, req.UserID); err != nil {
		return expense.Expense{}, err
	}
	if err := e.checkDeadline(req.ParsedDate, now); err != nil {
		return expense.Expense{}, err
	}

	return e.ExpenseRepository.Create(ctx, expense.Expense{
		UserID:      req.UserID,
		Date:        req.ParsedDate,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Status:      expense.StatusPending,
	})
}

// editable loads the expense and applies every precondition shared by update
// and delete.
func (e *ExpenseServiceImpl) editable(ctx context.Context, actorID, expenseID string, now time.Time) (expense.Expense, error) {
	current, err := e.ExpenseRepository.GetByID(ctx, expenseID)
	if err != nil {
		return expense.Expense{}, err
	}

	ok, err := e.canManage(ctx, actorID, current.UserID)
	if err != nil {
		return expense.Expense{}, err
	}
	if !ok {
		return expense.Expense{}, expense.ErrNotAllowed
	}
	if current.Status != expense.StatusPending {
		return expense.Expense{}, expense.ErrExpenseNotPending
	}
	if err := e.checkDeadline(current.Date, now); err != nil {
		return expense.Expense{}, err
	}
	return current, nil
}

// UpdateExpense implements expense.ExpenseService. Moving an expense to
// another date is checked against the target month as well.
func (e *ExpenseServiceImpl) UpdateExpense(ctx context.Context, actorID string, req expense.UpdateExpenseRequest, now time.Time) (expense.Expense, error) {
	if err := req.Validate(); err != nil {
		return expense.Expense{}, err
	}

	current, err := e.editable(ctx, actorID, req.ID, now)
	if err != nil {
		return expense.Expense{}, err
	}

	if req.ParsedDate != nil {
		if err := e.checkDeadline(*req.ParsedDate, now); err != nil {
			return expense.Expense{}, err
		}
		current.Date = *req.ParsedDate
	}
	if req.Type != nil {
		current.Type = *req.Type
	}
	if req.Amount != nil {
		current.Amount = *req.Amount
	}
	if req.Description != nil {
		current.Description = req.Description
	}

	return e.ExpenseRepository.Update(ctx, current)
}

// DeleteExpense implements expense.ExpenseService.
func (e *ExpenseServiceImpl) DeleteExpense(ctx context.Context, actorID, expenseID string, now time.Time) error {
	current, err := e.editable(ctx, actorID, expenseID, now)
	if err != nil {
		return err
	}

	if err := e.ExpenseRepository.Delete(ctx, expenseID); err != nil {
		return err
	}
	slog.Info("expense deleted", "expense_id", expenseID, "user_id", current.UserID, "actor_id", actorID)
	return nil
}

// ReviewExpense implements expense.ExpenseService.
func (e *ExpenseServiceImpl) ReviewExpense(ctx context.Context, actorID, expenseID string, action expense.ReviewAction, now time.Time) (expense.Expense, error) {
	target, ok := action.Target()
	if !ok {
		return expense.Expense{}, expense.ErrUnknownReview
	}

	current, err := e.ExpenseRepository.GetByID(ctx, expenseID)
	if err != nil {
		return expense.Expense{}, err
	}

	allowed, err := e.evaluator.HasPermissionForUser(ctx, actorID, current.UserID, role.CategoryExpenseManagement, role.ActionApprove)
	if err != nil {
		return expense.Expense{}, err
	}
	if !allowed {
		return expense.Expense{}, expense.ErrApprovePermission
	}
	if current.Status != expense.StatusPending {
		return expense.Expense{}, expense.ErrExpenseNotPending
	}

	moved, err := e.ExpenseRepository.UpdateStatus(ctx, expenseID, expense.StatusPending, target, actorID, now)
	if err != nil {
		return expense.Expense{}, err
	}
	if !moved {
		return expense.Expense{}, expense.ErrExpenseNotPending
	}

	slog.Info("expense reviewed", "expense_id", expenseID, "status", target, "actor_id", actorID)
	return e.ExpenseRepository.GetByID(ctx, expenseID)
}

// ListExpenses implements expense.ExpenseService.
func (e *ExpenseServiceImpl) ListExpenses(ctx context.Context, actorID string, filter expense.ListExpenseFilter) ([]expense.Expense, error) {
	scope, err := e.evaluator.ResolveScope(ctx, actorID, role.CategoryExpenseManagement, role.ActionView)
	if err != nil {
		return nil, err
	}
	return e.ExpenseRepository.List(ctx, scope, filter)
}
