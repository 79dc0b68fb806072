package role

import "context"

type RoleRepository interface {
	GetByID(ctx context.Context, id string) (Role, error)
	GetByName(ctx context.Context, name string) (Role, error)
	List(ctx context.Context) ([]Role, error)
	Create(ctx context.Context, newRole Role) (Role, error)
	Update(ctx context.Context, r Role) (Role, error)
	Delete(ctx context.Context, id string) error

	// CountUsers counts users whose role_id references the role.
	CountUsers(ctx context.Context, id string) (int, error)
}
