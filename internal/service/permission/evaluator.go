package permission

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/user"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/cache"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/metrics"
)

type EvaluatorImpl struct {
	userRepo user.UserRepository
	roleRepo role.RoleRepository
	users    cache.Store[user.User]
	roles    cache.Store[role.Role]
	metrics  *metrics.Recorder
}

// NewEvaluator builds the evaluator over read-through caches. User entries are
// keyed by user id and role entries by role id; both expire by TTL.
func NewEvaluator(
	userRepo user.UserRepository,
	roleRepo role.RoleRepository,
	users cache.Store[user.User],
	roles cache.Store[role.Role],
	recorder *metrics.Recorder,
) permission.Evaluator {
	return &EvaluatorImpl{
		userRepo: userRepo,
		roleRepo: roleRepo,
		users:    users,
		roles:    roles,
		metrics:  recorder,
	}
}

// loadUser returns found=false for an unknown user.
func (e *EvaluatorImpl) loadUser(ctx context.Context, id string) (user.User, bool, error) {
	if u, ok := e.users.Get(ctx, id); ok {
		e.metrics.CacheLookup(true)
		return u, true, nil
	}
	e.metrics.CacheLookup(false)

	u, err := e.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, false, nil
		}
		return user.User{}, false, err
	}
	e.users.Set(ctx, id, u)
	return u, true, nil
}

// loadRole resolves the actor's role. A missing actor or dangling role id
// yields found=false so callers deny.
func (e *EvaluatorImpl) loadRole(ctx context.Context, actorID string) (user.User, role.Role, bool, error) {
	actor, ok, err := e.loadUser(ctx, actorID)
	if err != nil || !ok {
		return user.User{}, role.Role{}, false, err
	}

	if r, ok := e.roles.Get(ctx, actor.RoleID); ok {
		e.metrics.CacheLookup(true)
		return actor, r, true, nil
	}
	e.metrics.CacheLookup(false)

	r, err := e.roleRepo.GetByID(ctx, actor.RoleID)
	if err != nil {
		if errors.Is(err, role.ErrRoleNotFound) {
			slog.Warn("actor references missing role", "actor_id", actorID, "role_id", actor.RoleID)
			return actor, role.Role{}, false, nil
		}
		return user.User{}, role.Role{}, false, err
	}
	e.roles.Set(ctx, actor.RoleID, r)
	return actor, r, true, nil
}

// HasPermission implements permission.Evaluator.
func (e *EvaluatorImpl) HasPermission(ctx context.Context, actorID string, category role.Category, action role.Action) (bool, error) {
	_, r, ok, err := e.loadRole(ctx, actorID)
	if err != nil {
		return false, err
	}
	allowed := ok && r.Allows(category, action)

	tier := permission.TierNone
	if allowed {
		tier = permission.TierAll
	}
	e.metrics.Decision(string(category), string(action), string(tier), allowed)
	return allowed, nil
}

// HasPermissionForUser implements permission.Evaluator.
func (e *EvaluatorImpl) HasPermissionForUser(ctx context.Context, actorID, subjectID string, category role.Category, baseAction role.Action) (bool, error) {
	d, err := e.Decide(ctx, actorID, subjectID, category, baseAction)
	if err != nil {
		return false, err
	}
	return d.Allowed, nil
}

// Decide implements permission.Evaluator. A tier is only consulted when the
// actor holds its action, so a missing grant never reaches the relation check.
func (e *EvaluatorImpl) Decide(ctx context.Context, actorID, subjectID string, category role.Category, baseAction role.Action) (permission.Decision, error) {
	d, err := e.decide(ctx, actorID, subjectID, category, baseAction)
	if err != nil {
		return permission.Denied(), err
	}
	e.metrics.Decision(string(category), string(baseAction), string(d.Tier), d.Allowed)
	return d, nil
}

func (e *EvaluatorImpl) decide(ctx context.Context, actorID, subjectID string, category role.Category, baseAction role.Action) (permission.Decision, error) {
	actor, r, ok, err := e.loadRole(ctx, actorID)
	if err != nil || !ok {
		return permission.Denied(), err
	}

	tiers, tiered := role.TiersFor(category, baseAction)
	if !tiered {
		// Capabilities carry no scope; the bare action is the All tier.
		if r.Allows(category, baseAction) {
			return permission.Granted(permission.TierAll), nil
		}
		return permission.Denied(), nil
	}

	if r.Allows(category, tiers.All) {
		return permission.Granted(permission.TierAll), nil
	}

	var subject user.User
	var subjectFound bool
	if actorID == subjectID {
		subject, subjectFound = actor, true
	} else if (tiers.Company != "" && r.Allows(category, tiers.Company)) ||
		(tiers.Assigned != "" && r.Allows(category, tiers.Assigned)) {
		subject, subjectFound, err = e.loadUser(ctx, subjectID)
		if err != nil {
			return permission.Denied(), err
		}
	}

	if subjectFound {
		if tiers.Company != "" && r.Allows(category, tiers.Company) && user.SameCompany(actor, subject) {
			return permission.Granted(permission.TierCompany), nil
		}
		if tiers.Assigned != "" && r.Allows(category, tiers.Assigned) && subject.IsManagedBy(actorID) {
			return permission.Granted(permission.TierAssigned), nil
		}
	}

	if actorID == subjectID && role.IsSelfScoped(category) {
		return permission.Granted(permission.TierSelf), nil
	}
	return permission.Denied(), nil
}

// Invalidate implements permission.Evaluator.
func (e *EvaluatorImpl) Invalidate(ctx context.Context, userID string) {
	e.users.Delete(ctx, userID)
}
