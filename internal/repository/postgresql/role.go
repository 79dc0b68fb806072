package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type roleRepository struct {
	db *database.DB
}

func NewRoleRepository(db *database.DB) role.RoleRepository {
	return &roleRepository{db: db}
}

const roleColumns = `id, name, display_name, is_system, permissions, page_access, created_at, updated_at`

func scanRole(row pgx.Row) (role.Role, error) {
	var r role.Role
	var permissions, pages []byte
	err := row.Scan(&r.ID, &r.Name, &r.DisplayName, &r.IsSystem, &permissions, &pages, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return role.Role{}, err
	}
	if err := json.Unmarshal(permissions, &r.Permissions); err != nil {
		return role.Role{}, fmt.Errorf("decode permissions of role %s: %w", r.ID, err)
	}
	if err := json.Unmarshal(pages, &r.PageAccess); err != nil {
		return role.Role{}, fmt.Errorf("decode page access of role %s: %w", r.ID, err)
	}
	return r, nil
}

func encodeRole(r role.Role) (permissions, pages []byte, err error) {
	if r.Permissions == nil {
		r.Permissions = role.Permissions{}
	}
	if r.PageAccess == nil {
		r.PageAccess = role.PageAccess{}
	}
	if permissions, err = json.Marshal(r.Permissions); err != nil {
		return nil, nil, fmt.Errorf("encode permissions: %w", err)
	}
	if pages, err = json.Marshal(r.PageAccess); err != nil {
		return nil, nil, fmt.Errorf("encode page access: %w", err)
	}
	return permissions, pages, nil
}

// GetByID implements role.RoleRepository.
func (r *roleRepository) GetByID(ctx context.Context, id string) (role.Role, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanRole(q.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return role.Role{}, role.ErrRoleNotFound
		}
		return role.Role{}, fmt.Errorf("failed to get role: %w", err)
	}
	return found, nil
}

// GetByName implements role.RoleRepository.
func (r *roleRepository) GetByName(ctx context.Context, name string) (role.Role, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanRole(q.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE name = $1`, name))
	if err != nil {
		if isNoRows(err) {
			return role.Role{}, role.ErrRoleNotFound
		}
		return role.Role{}, fmt.Errorf("failed to get role by name: %w", err)
	}
	return found, nil
}

// List implements role.RoleRepository.
func (r *roleRepository) List(ctx context.Context) ([]role.Role, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	roles := make([]role.Role, 0)
	for rows.Next() {
		found, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, found)
	}
	return roles, rows.Err()
}

// Create implements role.RoleRepository.
func (r *roleRepository) Create(ctx context.Context, newRole role.Role) (role.Role, error) {
	q := GetQuerier(ctx, r.db)

	permissions, pages, err := encodeRole(newRole)
	if err != nil {
		return role.Role{}, err
	}

	query := `
		INSERT INTO roles (name, display_name, is_system, permissions, page_access)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + roleColumns

	created, err := scanRole(q.QueryRow(ctx, query,
		newRole.Name, newRole.DisplayName, newRole.IsSystem, permissions, pages,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return role.Role{}, role.ErrDuplicateName
		}
		return role.Role{}, fmt.Errorf("failed to create role: %w", err)
	}
	return created, nil
}

// Update implements role.RoleRepository.
func (r *roleRepository) Update(ctx context.Context, updated role.Role) (role.Role, error) {
	q := GetQuerier(ctx, r.db)

	permissions, pages, err := encodeRole(updated)
	if err != nil {
		return role.Role{}, err
	}

	query := `
		UPDATE roles
		SET name = $2, display_name = $3, is_system = $4, permissions = $5, page_access = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + roleColumns

	saved, err := scanRole(q.QueryRow(ctx, query,
		updated.ID, updated.Name, updated.DisplayName, updated.IsSystem, permissions, pages,
	))
	if err != nil {
		if isNoRows(err) {
			return role.Role{}, role.ErrRoleNotFound
		}
		if isUniqueViolation(err) {
			return role.Role{}, role.ErrDuplicateName
		}
		return role.Role{}, fmt.Errorf("failed to update role: %w", err)
	}
	return saved, nil
}

// Delete implements role.RoleRepository.
func (r *roleRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &role.InUseError{RoleID: id}
		}
		return fmt.Errorf("failed to delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return role.ErrRoleNotFound
	}
	return nil
}

// CountUsers implements role.RoleRepository.
func (r *roleRepository) CountUsers(ctx context.Context, id string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role_id = $1`, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count role users: %w", err)
	}
	return count, nil
}
