package memory

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/user"
)

type userRepository struct {
	s *Store
}

func NewUserRepository(s *Store) user.UserRepository {
	return &userRepository{s: s}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.GetByID"); err != nil {
		return user.User{}, err
	}

	u, ok := r.s.data.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	u.ManagerIDs = append([]string(nil), u.ManagerIDs...)
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.Create"); err != nil {
		return user.User{}, err
	}

	if newUser.DisplayID != "" {
		for _, existing := range r.s.data.users {
			if existing.DisplayID == newUser.DisplayID {
				return user.User{}, user.ErrDisplayIDExists
			}
		}
	}
	for _, m := range newUser.ManagerIDs {
		if _, ok := r.s.data.users[m]; !ok {
			return user.User{}, user.ErrManagerNotFound
		}
	}

	if newUser.ID == "" {
		newUser.ID = newID()
	}
	now := r.s.now()
	newUser.CreatedAt = now
	newUser.UpdatedAt = now
	newUser.ManagerIDs = dedupe(newUser.ManagerIDs)
	r.s.data.users[newUser.ID] = newUser
	return newUser, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, userID, roleID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.UpdateRole"); err != nil {
		return err
	}

	u, ok := r.s.data.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.RoleID = roleID
	u.UpdatedAt = r.s.now()
	r.s.data.users[userID] = u
	return nil
}

func (r *userRepository) SetManagers(ctx context.Context, userID string, managerIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.SetManagers"); err != nil {
		return err
	}

	u, ok := r.s.data.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	for _, m := range managerIDs {
		if _, ok := r.s.data.users[m]; !ok {
			return user.ErrManagerNotFound
		}
	}
	u.ManagerIDs = dedupe(managerIDs)
	u.UpdatedAt = r.s.now()
	r.s.data.users[userID] = u
	return nil
}

func (r *userRepository) ListManagedIDs(ctx context.Context, managerID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.ListManagedIDs"); err != nil {
		return nil, err
	}

	var ids []string
	for _, u := range r.s.data.users {
		if u.IsManagedBy(managerID) {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (r *userRepository) NextDisplayID(ctx context.Context, companyID *string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.NextDisplayID"); err != nil {
		return "", err
	}

	key := user.SequenceKey(companyID)
	r.s.data.sequences[key]++
	return fmt.Sprintf("%s%04d", user.DisplayIDPrefix(companyID), r.s.data.sequences[key]), nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.Delete"); err != nil {
		return err
	}

	if _, ok := r.s.data.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.s.data.users, id)

	for uid, u := range r.s.data.users {
		if !u.IsManagedBy(id) {
			continue
		}
		kept := make([]string, 0, len(u.ManagerIDs))
		for _, m := range u.ManagerIDs {
			if m != id {
				kept = append(kept, m)
			}
		}
		u.ManagerIDs = kept
		r.s.data.users[uid] = u
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
