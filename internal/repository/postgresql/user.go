package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/user"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/database"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT u.id, u.display_id, u.name, u.role_id, u.company_id,
			   ARRAY(SELECT m.manager_id::text FROM user_managers m WHERE m.user_id = u.id ORDER BY m.manager_id),
			   u.created_at, u.updated_at
		FROM users u
		WHERE u.id = $1
	`

	var u user.User
	err := q.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.DisplayID, &u.Name, &u.RoleID, &u.CompanyID,
		&u.ManagerIDs,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	err := inTx(ctx, r.db, func(q database.Querier) error {
		query := `
			INSERT INTO users (display_id, name, role_id, company_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at
		`
		err := q.QueryRow(ctx, query,
			newUser.DisplayID, newUser.Name, newUser.RoleID, newUser.CompanyID,
		).Scan(&newUser.ID, &newUser.CreatedAt, &newUser.UpdatedAt)
		if err != nil {
			switch {
			case isUniqueViolation(err):
				return user.ErrDisplayIDExists
			case isForeignKeyViolation(err):
				return role.ErrRoleNotFound
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return insertManagers(ctx, q, newUser.ID, newUser.ManagerIDs)
	})
	if err != nil {
		return user.User{}, err
	}
	if newUser.ManagerIDs == nil {
		newUser.ManagerIDs = []string{}
	}
	return newUser, nil
}

func insertManagers(ctx context.Context, q database.Querier, userID string, managerIDs []string) error {
	if len(managerIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO user_managers (user_id, manager_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING
	`
	if _, err := q.Exec(ctx, query, userID, managerIDs); err != nil {
		if isForeignKeyViolation(err) {
			return user.ErrManagerNotFound
		}
		return fmt.Errorf("failed to link managers: %w", err)
	}
	return nil
}

// UpdateRole implements user.UserRepository.
func (r *userRepositoryImpl) UpdateRole(ctx context.Context, userID, roleID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE users SET role_id = $2, updated_at = NOW() WHERE id = $1`, userID, roleID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return role.ErrRoleNotFound
		}
		return fmt.Errorf("failed to update user role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// SetManagers implements user.UserRepository.
func (r *userRepositoryImpl) SetManagers(ctx context.Context, userID string, managerIDs []string) error {
	return inTx(ctx, r.db, func(q database.Querier) error {
		tag, err := q.Exec(ctx, `UPDATE users SET updated_at = NOW() WHERE id = $1`, userID)
		if err != nil {
			return fmt.Errorf("failed to touch user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return user.ErrUserNotFound
		}

		if _, err := q.Exec(ctx, `DELETE FROM user_managers WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("failed to clear managers: %w", err)
		}
		return insertManagers(ctx, q, userID, managerIDs)
	})
}

// ListManagedIDs implements user.UserRepository.
func (r *userRepositoryImpl) ListManagedIDs(ctx context.Context, managerID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT user_id::text FROM user_managers WHERE manager_id = $1 ORDER BY user_id`, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list managed users: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan managed user: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// NextDisplayID implements user.UserRepository. Home company users share the
// empty company key.
func (r *userRepositoryImpl) NextDisplayID(ctx context.Context, companyID *string) (string, error) {
	q := GetQuerier(ctx, r.db)

	key := user.SequenceKey(companyID)

	query := `
		INSERT INTO display_id_sequences (company_key, last_value)
		VALUES ($1, 1)
		ON CONFLICT (company_key) DO UPDATE SET last_value = display_id_sequences.last_value + 1
		RETURNING last_value
	`

	var seq int
	if err := q.QueryRow(ctx, query, key).Scan(&seq); err != nil {
		return "", fmt.Errorf("failed to reserve display id: %w", err)
	}
	return fmt.Sprintf("%s%04d", user.DisplayIDPrefix(companyID), seq), nil
}

// Delete implements user.UserRepository. Manager links cascade.
func (r *userRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
