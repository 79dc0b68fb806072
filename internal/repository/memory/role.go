package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
)

type roleRepository struct {
	s *Store
}

func NewRoleRepository(s *Store) role.RoleRepository {
	return &roleRepository{s: s}
}

func (r *roleRepository) GetByID(ctx context.Context, id string) (role.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("roles.GetByID"); err != nil {
		return role.Role{}, err
	}

	found, ok := r.s.data.roles[id]
	if !ok {
		return role.Role{}, role.ErrRoleNotFound
	}
	return cloneRole(found), nil
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (role.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("roles.GetByName"); err != nil {
		return role.Role{}, err
	}

	for _, found := range r.s.data.roles {
		if found.Name == name {
			return cloneRole(found), nil
		}
	}
	return role.Role{}, role.ErrRoleNotFound
}

func (r *roleRepository) List(ctx context.Context) ([]role.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("roles.List"); err != nil {
		return nil, err
	}

	roles := make([]role.Role, 0, len(r.s.data.roles))
	for _, found := range r.s.data.roles {
		roles = append(roles, cloneRole(found))
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles, nil
}

func (r *roleRepository) Create(ctx context.Context, newRole role.Role) (role.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("roles.Create"); err != nil {
		return role.Role{}, err
	}

	for _, existing := range r.s.data.roles {
		if existing.Name == newRole.Name {
			return role.Role{}, role.ErrDuplicateName
		}
	}

	if newRole.ID == "" {
		newRole.ID = newID()
	}
	now := r.s.now()
	newRole.CreatedAt = now
	newRole.UpdatedAt = now
	newRole.Permissions = newRole.Permissions.Clone()
	newRole.PageAccess = clonePages(newRole.PageAccess)
	r.s.data.roles[newRole.ID] = newRole
	return newRole, nil
}

func (r *roleRepository) Update(ctx context.Context, updated role.Role) (role.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("roles.Update"); err != nil {
		return role.Role{}, err
	}

	existing, ok := r.s.data.roles[updated.ID]
	if !ok {
		return role.Role{}, role.ErrRoleNotFound
	}
	for id, other := range r.s.data.roles {
		if id != updated.ID && other.Name == updated.Name {
			return role.Role{}, role.ErrDuplicateName
		}
	}

	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = r.s.now()
	updated.Permissions = updated.Permissions.Clone()
	updated.PageAccess = clonePages(updated.PageAccess)
	r.s.data.roles[updated.ID] = updated
	return updated, nil
}

func (r *roleRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("roles.Delete"); err != nil {
		return err
	}

	if _, ok := r.s.data.roles[id]; !ok {
		return role.ErrRoleNotFound
	}
	delete(r.s.data.roles, id)
	return nil
}

func (r *roleRepository) CountUsers(ctx context.Context, id string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("roles.CountUsers"); err != nil {
		return 0, err
	}

	n := 0
	for _, u := range r.s.data.users {
		if u.RoleID == id {
			n++
		}
	}
	return n, nil
}

func cloneRole(r role.Role) role.Role {
	r.Permissions = r.Permissions.Clone()
	r.PageAccess = clonePages(r.PageAccess)
	return r
}
