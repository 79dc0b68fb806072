package user

import "context"

type UserService interface {
	CreateUser(ctx context.Context, actorID string, req CreateUserRequest) (User, error)
	GetUser(ctx context.Context, actorID, userID string) (User, error)
	SetManagers(ctx context.Context, actorID string, req SetManagersRequest) (User, error)
	AssignRole(ctx context.Context, actorID string, req AssignRoleRequest) (User, error)

	// DeleteUserCascade removes the user and every attendance, correction, shift,
	// expense and registration lock it owns, all or nothing.
	DeleteUserCascade(ctx context.Context, actorID, userID string) error
}
