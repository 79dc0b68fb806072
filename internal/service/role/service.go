package role

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/user"
)

type RoleServiceImpl struct {
	role.RoleRepository
	userRepo  user.UserRepository
	evaluator permission.Evaluator
}

func NewRoleService(roleRepo role.RoleRepository, userRepo user.UserRepository, evaluator permission.Evaluator) role.RoleService {
	return &RoleServiceImpl{
		RoleRepository: roleRepo,
		userRepo:       userRepo,
		evaluator:      evaluator,
	}
}

func (s *RoleServiceImpl) requireManageRoles(ctx context.Context, actorID string) error {
	ok, err := s.evaluator.HasPermission(ctx, actorID, role.CategorySystemSettings, role.ActionManageRoles)
	if err != nil {
		return err
	}
	if !ok {
		return role.ErrManageRolesRequired
	}
	return nil
}

// GetRole implements role.RoleService.
func (s *RoleServiceImpl) GetRole(ctx context.Context, roleID string) (role.Role, error) {
	return s.RoleRepository.GetByID(ctx, roleID)
}

// ListRoles implements role.RoleService.
func (s *RoleServiceImpl) ListRoles(ctx context.Context) ([]role.Role, error) {
	return s.RoleRepository.List(ctx)
}

// CreateRole implements role.RoleService.
func (s *RoleServiceImpl) CreateRole(ctx context.Context, actorID string, req role.UpsertRoleRequest) (role.Role, error) {
	if err := s.requireManageRoles(ctx, actorID); err != nil {
		return role.Role{}, err
	}
	if err := req.Validate(); err != nil {
		return role.Role{}, err
	}

	created, err := s.RoleRepository.Create(ctx, role.Role{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Permissions: req.Permissions,
		PageAccess:  req.PageAccess,
	})
	if err != nil {
		return role.Role{}, err
	}
	slog.Info("role created", "role_id", created.ID, "name", created.Name, "actor_id", actorID)
	return created, nil
}

// UpsertRole implements role.RoleService. The system flag of an existing
// role is preserved.
func (s *RoleServiceImpl) UpsertRole(ctx context.Context, actorID string, req role.UpsertRoleRequest) (role.Role, error) {
	if err := s.requireManageRoles(ctx, actorID); err != nil {
		return role.Role{}, err
	}
	if err := req.Validate(); err != nil {
		return role.Role{}, err
	}

	existing, err := s.RoleRepository.GetByName(ctx, req.Name)
	if err != nil {
		if errors.Is(err, role.ErrRoleNotFound) {
			return s.RoleRepository.Create(ctx, role.Role{
				Name:        req.Name,
				DisplayName: req.DisplayName,
				Permissions: req.Permissions,
				PageAccess:  req.PageAccess,
			})
		}
		return role.Role{}, fmt.Errorf("get role by name: %w", err)
	}

	existing.DisplayName = req.DisplayName
	existing.Permissions = req.Permissions
	existing.PageAccess = req.PageAccess
	updated, err := s.RoleRepository.Update(ctx, existing)
	if err != nil {
		return role.Role{}, err
	}
	slog.Info("role updated", "role_id", updated.ID, "name", updated.Name, "actor_id", actorID)
	return updated, nil
}

// DeleteRole implements role.RoleService.
func (s *RoleServiceImpl) DeleteRole(ctx context.Context, actorID string, roleID string) error {
	if err := s.requireManageRoles(ctx, actorID); err != nil {
		return err
	}

	r, err := s.RoleRepository.GetByID(ctx, roleID)
	if err != nil {
		return err
	}
	if r.IsSystem {
		return role.ErrSystemRoleProtected
	}

	count, err := s.RoleRepository.CountUsers(ctx, roleID)
	if err != nil {
		return fmt.Errorf("count role users: %w", err)
	}
	if count > 0 {
		return &role.InUseError{RoleID: roleID, UserCount: count}
	}

	if err := s.RoleRepository.Delete(ctx, roleID); err != nil {
		return err
	}
	slog.Info("role deleted", "role_id", roleID, "name", r.Name, "actor_id", actorID)
	return nil
}

// PageAccess implements role.RoleService. An actor without a resolvable role
// gets an empty map.
func (s *RoleServiceImpl) PageAccess(ctx context.Context, actorID string) (role.PageAccess, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	r, err := s.RoleRepository.GetByID(ctx, actor.RoleID)
	if err != nil {
		if errors.Is(err, role.ErrRoleNotFound) {
			return role.PageAccess{}, nil
		}
		return nil, err
	}
	if r.PageAccess == nil {
		return role.PageAccess{}, nil
	}
	return r.PageAccess, nil
}
