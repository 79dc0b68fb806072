package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/expense"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/user"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/database"
)

type UserServiceImpl struct {
	user.UserRepository
	roleRepo       role.RoleRepository
	shiftRepo      shift.ShiftRepository
	lockRepo       shift.RegistrationLockRepository
	attendanceRepo attendance.AttendanceRepository
	correctionRepo attendance.CorrectionRepository
	expenseRepo    expense.ExpenseRepository
	transactor     database.Transactor
	evaluator      permission.Evaluator
}

func NewUserService(
	userRepo user.UserRepository,
	roleRepo role.RoleRepository,
	shiftRepo shift.ShiftRepository,
	lockRepo shift.RegistrationLockRepository,
	attendanceRepo attendance.AttendanceRepository,
	correctionRepo attendance.CorrectionRepository,
	expenseRepo expense.ExpenseRepository,
	transactor database.Transactor,
	evaluator permission.Evaluator,
) user.UserService {
	return &UserServiceImpl{
		UserRepository: userRepo,
		roleRepo:       roleRepo,
		shiftRepo:      shiftRepo,
		lockRepo:       lockRepo,
		attendanceRepo: attendanceRepo,
		correctionRepo: correctionRepo,
		expenseRepo:    expenseRepo,
		transactor:     transactor,
		evaluator:      evaluator,
	}
}

// CreateUser implements user.UserService.
func (s *UserServiceImpl) CreateUser(ctx context.Context, actorID string, req user.CreateUserRequest) (user.User, error) {
	ok, err := s.evaluator.HasPermission(ctx, actorID, role.CategoryUserManagement, role.ActionCreate)
	if err != nil {
		return user.User{}, err
	}
	if !ok {
		return user.User{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return user.User{}, err
	}

	if _, err := s.roleRepo.GetByID(ctx, req.RoleID); err != nil {
		return user.User{}, err
	}

	var created user.User
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		displayID, err := s.UserRepository.NextDisplayID(ctx, req.CompanyID)
		if err != nil {
			return fmt.Errorf("reserve display id: %w", err)
		}

		created, err = s.UserRepository.Create(ctx, user.User{
			DisplayID:  displayID,
			Name:       req.Name,
			RoleID:     req.RoleID,
			CompanyID:  req.CompanyID,
			ManagerIDs: req.ManagerIDs,
		})
		return err
	})
	if err != nil {
		return user.User{}, err
	}
	slog.Info("user created", "user_id", created.ID, "display_id", created.DisplayID, "actor_id", actorID)
	return created, nil
}

// GetUser implements user.UserService. Users can always read their own record.
func (s *UserServiceImpl) GetUser(ctx context.Context, actorID, userID string) (user.User, error) {
	ok, err := s.evaluator.HasPermissionForUser(ctx, actorID, userID, role.CategoryUserManagement, role.ActionView)
	if err != nil {
		return user.User{}, err
	}
	if !ok && actorID != userID {
		return user.User{}, user.ErrInsufficientPermissions
	}
	return s.UserRepository.GetByID(ctx, userID)
}

// SetManagers implements user.UserService. Self management and cycles are
// rejected before anything is written.
func (s *UserServiceImpl) SetManagers(ctx context.Context, actorID string, req user.SetManagersRequest) (user.User, error) {
	if err := req.Validate(); err != nil {
		return user.User{}, err
	}

	ok, err := s.evaluator.HasPermissionForUser(ctx, actorID, req.UserID, role.CategoryUserManagement, role.ActionEdit)
	if err != nil {
		return user.User{}, err
	}
	if !ok {
		return user.User{}, user.ErrInsufficientPermissions
	}

	if _, err := s.UserRepository.GetByID(ctx, req.UserID); err != nil {
		return user.User{}, err
	}
	for _, m := range req.ManagerIDs {
		if m == req.UserID {
			return user.User{}, user.ErrSelfManagement
		}
	}
	if err := s.checkCycle(ctx, req.UserID, req.ManagerIDs); err != nil {
		return user.User{}, err
	}

	if err := s.UserRepository.SetManagers(ctx, req.UserID, req.ManagerIDs); err != nil {
		return user.User{}, err
	}
	s.evaluator.Invalidate(ctx, req.UserID)
	return s.UserRepository.GetByID(ctx, req.UserID)
}

// checkCycle walks up from each proposed manager; reaching userID means the
// new links would close a loop.
func (s *UserServiceImpl) checkCycle(ctx context.Context, userID string, managerIDs []string) error {
	visited := make(map[string]bool)
	queue := append([]string(nil), managerIDs...)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if id == userID {
			return user.ErrManagementCycle
		}
		if visited[id] {
			continue
		}
		visited[id] = true

		m, err := s.UserRepository.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return user.ErrManagerNotFound
			}
			return err
		}
		queue = append(queue, m.ManagerIDs...)
	}
	return nil
}

// AssignRole implements user.UserService.
func (s *UserServiceImpl) AssignRole(ctx context.Context, actorID string, req user.AssignRoleRequest) (user.User, error) {
	if err := req.Validate(); err != nil {
		return user.User{}, err
	}

	ok, err := s.evaluator.HasPermission(ctx, actorID, role.CategorySystemSettings, role.ActionManageRoles)
	if err != nil {
		return user.User{}, err
	}
	if !ok {
		return user.User{}, role.ErrManageRolesRequired
	}

	if _, err := s.roleRepo.GetByID(ctx, req.RoleID); err != nil {
		return user.User{}, err
	}
	if err := s.UserRepository.UpdateRole(ctx, req.UserID, req.RoleID); err != nil {
		return user.User{}, err
	}
	s.evaluator.Invalidate(ctx, req.UserID)
	slog.Info("role assigned", "user_id", req.UserID, "role_id", req.RoleID, "actor_id", actorID)
	return s.UserRepository.GetByID(ctx, req.UserID)
}

// DeleteUserCascade implements user.UserService. Corrections go before the
// attendances they point at.
func (s *UserServiceImpl) DeleteUserCascade(ctx context.Context, actorID, userID string) error {
	ok, err := s.evaluator.HasPermissionForUser(ctx, actorID, userID, role.CategoryUserManagement, role.ActionDelete)
	if err != nil {
		return err
	}
	if !ok {
		return user.ErrInsufficientPermissions
	}

	var managed []string
	var counts [5]int
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.UserRepository.GetByID(ctx, userID); err != nil {
			return err
		}

		var err error
		managed, err = s.UserRepository.ListManagedIDs(ctx, userID)
		if err != nil {
			return fmt.Errorf("list managed users: %w", err)
		}

		if counts[0], err = s.correctionRepo.DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete corrections: %w", err)
		}
		if counts[1], err = s.attendanceRepo.DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete attendances: %w", err)
		}
		if counts[2], err = s.shiftRepo.DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete shifts: %w", err)
		}
		if counts[3], err = s.expenseRepo.DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete expenses: %w", err)
		}
		if counts[4], err = s.lockRepo.DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete registration locks: %w", err)
		}
		if err := s.UserRepository.Delete(ctx, userID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.evaluator.Invalidate(ctx, userID)
	for _, id := range managed {
		s.evaluator.Invalidate(ctx, id)
	}
	slog.Info("user deleted",
		"user_id", userID,
		"actor_id", actorID,
		"corrections", counts[0],
		"attendances", counts[1],
		"shifts", counts[2],
		"expenses", counts[3],
		"locks", counts[4],
	)
	return nil
}
