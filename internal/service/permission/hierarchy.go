package permission

import (
	"context"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/user"
)

// IsManagerOf implements permission.Evaluator. Only direct links count.
func (e *EvaluatorImpl) IsManagerOf(ctx context.Context, actorID, subjectID string) (bool, error) {
	subject, ok, err := e.loadUser(ctx, subjectID)
	if err != nil || !ok {
		return false, err
	}
	return subject.IsManagedBy(actorID), nil
}

// SameCompany implements permission.Evaluator. Two home company users match.
func (e *EvaluatorImpl) SameCompany(ctx context.Context, aID, bID string) (bool, error) {
	a, ok, err := e.loadUser(ctx, aID)
	if err != nil || !ok {
		return false, err
	}
	b, ok, err := e.loadUser(ctx, bID)
	if err != nil || !ok {
		return false, err
	}
	return user.SameCompany(a, b), nil
}
