package user

import (
	"context"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	UpdateRole(ctx context.Context, userID, roleID string) error

	// SetManagers replaces the manager set of userID.
	SetManagers(ctx context.Context, userID string, managerIDs []string) error

	// ListManagedIDs returns ids of users that list managerID among their managers.
	ListManagedIDs(ctx context.Context, managerID string) ([]string, error)

	// NextDisplayID reserves the next display id for companyID.
	NextDisplayID(ctx context.Context, companyID *string) (string, error)

	// Delete removes the user and its manager links, in both directions.
	Delete(ctx context.Context, id string) error
}
