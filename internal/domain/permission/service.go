package permission

import (
	"context"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
)

// Evaluator answers every identity question of the engine. All methods fail
// closed: unknown actors, roles, categories or actions are denied.
type Evaluator interface {
	// HasPermission reports whether the actor's role grants action in category.
	HasPermission(ctx context.Context, actorID string, category role.Category, action role.Action) (bool, error)

	// HasPermissionForUser resolves All, Company, Assigned and Self tiers in that order.
	HasPermissionForUser(ctx context.Context, actorID, subjectID string, category role.Category, baseAction role.Action) (bool, error)

	// Decide is HasPermissionForUser returning the granting tier.
	Decide(ctx context.Context, actorID, subjectID string, category role.Category, baseAction role.Action) (Decision, error)

	// GetAccessibleUserIDs returns the users the actor manages directly, or
	// nothing when the actor lacks the Assigned tier of stem.
	GetAccessibleUserIDs(ctx context.Context, actorID string, category role.Category, stem role.Action) ([]string, error)

	// ResolveScope applies the All, Company, Assigned, Self fallback for bulk reads.
	ResolveScope(ctx context.Context, actorID string, category role.Category, stem role.Action) (Scope, error)

	// IsManagerOf and SameCompany are the only hierarchy relations.
	IsManagerOf(ctx context.Context, actorID, subjectID string) (bool, error)
	SameCompany(ctx context.Context, aID, bID string) (bool, error)

	// Invalidate drops cached data for userID.
	Invalidate(ctx context.Context, userID string)
}
