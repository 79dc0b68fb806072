package role

import "context"

type RoleService interface {
	GetRole(ctx context.Context, roleID string) (Role, error)
	ListRoles(ctx context.Context) ([]Role, error)

	// CreateRole fails with ErrDuplicateName when the name is taken.
	CreateRole(ctx context.Context, actorID string, req UpsertRoleRequest) (Role, error)

	// UpsertRole creates the role or overwrites the matrices of the existing role with that name.
	UpsertRole(ctx context.Context, actorID string, req UpsertRoleRequest) (Role, error)

	// DeleteRole fails with ErrSystemRoleProtected or an *InUseError.
	DeleteRole(ctx context.Context, actorID string, roleID string) error

	// PageAccess returns the page map of the actor's role.
	PageAccess(ctx context.Context, actorID string) (PageAccess, error)
}
