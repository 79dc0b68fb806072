package permission

import (
	"context"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
)

// GetAccessibleUserIDs implements permission.Evaluator.
func (e *EvaluatorImpl) GetAccessibleUserIDs(ctx context.Context, actorID string, category role.Category, stem role.Action) ([]string, error) {
	_, r, ok, err := e.loadRole(ctx, actorID)
	if err != nil || !ok {
		return nil, err
	}

	tiers, tiered := role.TiersFor(category, stem)
	if !tiered || tiers.Assigned == "" || !r.Allows(category, tiers.Assigned) {
		return nil, nil
	}
	return e.userRepo.ListManagedIDs(ctx, actorID)
}

// ResolveScope implements permission.Evaluator. Every bulk read goes through
// here: All, then Company, then the assigned set plus the actor, then the
// actor alone.
func (e *EvaluatorImpl) ResolveScope(ctx context.Context, actorID string, category role.Category, stem role.Action) (permission.Scope, error) {
	self := permission.UsersScope(actorID)

	actor, r, ok, err := e.loadRole(ctx, actorID)
	if err != nil {
		return permission.Scope{}, err
	}
	if !ok {
		return self, nil
	}

	tiers, tiered := role.TiersFor(category, stem)
	if !tiered {
		if r.Allows(category, stem) {
			return permission.AllScope(), nil
		}
		return self, nil
	}

	if r.Allows(category, tiers.All) {
		return permission.AllScope(), nil
	}
	if tiers.Company != "" && r.Allows(category, tiers.Company) {
		return permission.CompanyScope(actor.CompanyID), nil
	}

	assigned, err := e.GetAccessibleUserIDs(ctx, actorID, category, stem)
	if err != nil {
		return permission.Scope{}, err
	}
	if len(assigned) > 0 {
		ids := make([]string, 0, len(assigned)+1)
		ids = append(ids, actorID)
		for _, id := range assigned {
			if id != actorID {
				ids = append(ids, id)
			}
		}
		return permission.UsersScope(ids...), nil
	}
	return self, nil
}
