package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/expense"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/user"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type expenseRepository struct {
	db *database.DB
}

func NewExpenseRepository(db *database.DB) expense.ExpenseRepository {
	return &expenseRepository{db: db}
}

const expenseColumns = `id, user_id, date, type, amount, description, status, reviewed_by, reviewed_at, created_at, updated_at`

func scanExpense(row pgx.Row) (expense.Expense, error) {
	var e expense.Expense
	err := row.Scan(
		&e.ID, &e.UserID, &e.Date, &e.Type, &e.Amount, &e.Description,
		&e.Status, &e.ReviewedBy, &e.ReviewedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// GetByID implements expense.ExpenseRepository.
func (r *expenseRepository) GetByID(ctx context.Context, id string) (expense.Expense, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanExpense(q.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return expense.Expense{}, expense.ErrExpenseNotFound
		}
		return expense.Expense{}, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

// Create implements expense.ExpenseRepository.
func (r *expenseRepository) Create(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO expenses (user_id, date, type, amount, description, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + expenseColumns

	created, err := scanExpense(q.QueryRow(ctx, query, e.UserID, e.Date, e.Type, e.Amount, e.Description, e.Status))
	if err != nil {
		if isForeignKeyViolation(err) {
			return expense.Expense{}, user.ErrUserNotFound
		}
		return expense.Expense{}, fmt.Errorf("failed to create expense: %w", err)
	}
	return created, nil
}

// Update implements expense.ExpenseRepository. Status and review fields are
// only changed through UpdateStatus.
func (r *expenseRepository) Update(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE expenses
		SET date = $2, type = $3, amount = $4, description = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + expenseColumns

	updated, err := scanExpense(q.QueryRow(ctx, query, e.ID, e.Date, e.Type, e.Amount, e.Description))
	if err != nil {
		if isNoRows(err) {
			return expense.Expense{}, expense.ErrExpenseNotFound
		}
		return expense.Expense{}, fmt.Errorf("failed to update expense: %w", err)
	}
	return updated, nil
}

// UpdateStatus implements expense.ExpenseRepository.
func (r *expenseRepository) UpdateStatus(ctx context.Context, id string, from, to expense.Status, reviewerID string, at time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE expenses
		SET status = $3, reviewed_by = $4, reviewed_at = $5, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	tag, err := q.Exec(ctx, query, id, from, to, reviewerID, at)
	if err != nil {
		return false, fmt.Errorf("failed to update expense status: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// Delete implements expense.ExpenseRepository.
func (r *expenseRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return expense.ErrExpenseNotFound
	}
	return nil
}

// DeleteByUser implements expense.ExpenseRepository.
func (r *expenseRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM expenses WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user expenses: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// List implements expense.ExpenseRepository.
func (r *expenseRepository) List(ctx context.Context, scope permission.Scope, f expense.ListExpenseFilter) ([]expense.Expense, error) {
	q := GetQuerier(ctx, r.db)

	var w filter
	w.scope(scope, "user_id")
	if f.UserID != nil {
		w.add("user_id = $%d", *f.UserID)
	}
	w.dateRange("date", f.From, f.To)
	if f.Status != nil {
		w.add("status = $%d", *f.Status)
	}

	query := fmt.Sprintf(`SELECT %s FROM expenses %s ORDER BY date, id`, expenseColumns, w.where())
	rows, err := q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]expense.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
