package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
)

// ==========================================
// SYSTEM ROLES
// ==========================================

func allActions() role.Permissions {
	p := role.Permissions{}
	for _, c := range role.Categories() {
		p = p.Grant(c, role.Actions(c)...)
	}
	return p
}

func pages(keys ...role.PageKey) role.PageAccess {
	p := role.PageAccess{}
	for _, k := range keys {
		p[k] = true
	}
	return p
}

// SystemRoles returns the roles every installation starts with. They are
// flagged isSystem and cannot be deleted.
func SystemRoles() []role.Role {
	return []role.Role{
		{
			Name:        role.NameSuperAdmin,
			DisplayName: "Super Admin",
			IsSystem:    true,
			Permissions: allActions(),
			PageAccess: pages(
				role.PageDashboard, role.PageUsers, role.PageShifts, role.PageAttendance,
				role.PageExpenses, role.PageSettings, role.PageRoles,
			),
		},
		{
			Name:        role.NameCompanyAdmin,
			DisplayName: "Company Admin",
			IsSystem:    true,
			Permissions: role.Permissions{}.
				Grant(role.CategoryUserManagement, role.ActionViewCompany, role.ActionEditCompany, role.ActionCreate).
				Grant(role.CategoryShiftManagement, role.ActionViewCompany, role.ActionEditCompany,
					role.ActionApprove, role.ActionForceRegister, role.ActionLockUnlock).
				Grant(role.CategoryAttendanceManagement, role.ActionViewCompany, role.ActionForceClockInOut, role.ActionEditOthers).
				Grant(role.CategoryExpenseManagement, role.ActionViewCompany, role.ActionApprove, role.ActionEditOthers),
			PageAccess: pages(
				role.PageDashboard, role.PageUsers, role.PageShifts, role.PageAttendance, role.PageExpenses,
			),
		},
		{
			Name:        role.NameManager,
			DisplayName: "Manager",
			IsSystem:    true,
			Permissions: role.Permissions{}.
				Grant(role.CategoryUserManagement, role.ActionViewAssigned).
				Grant(role.CategoryShiftManagement, role.ActionViewAssigned, role.ActionEditAssigned, role.ActionApprove).
				Grant(role.CategoryAttendanceManagement, role.ActionViewAssigned).
				Grant(role.CategoryExpenseManagement, role.ActionViewAssigned, role.ActionApprove),
			PageAccess: pages(
				role.PageDashboard, role.PageUsers, role.PageShifts, role.PageAttendance, role.PageExpenses,
			),
		},
		{
			Name:        role.NameStaff,
			DisplayName: "Staff",
			IsSystem:    true,
			Permissions: role.Permissions{},
			PageAccess: pages(
				role.PageDashboard, role.PageShifts, role.PageAttendance, role.PageExpenses,
			),
		},
	}
}

// SeedSystemRoles upserts SystemRoles by name. Existing rows keep their id.
func SeedSystemRoles(ctx context.Context, repo role.RoleRepository) ([]role.Role, error) {
	var seeded []role.Role
	for _, r := range SystemRoles() {
		existing, err := repo.GetByName(ctx, r.Name)
		switch {
		case err == nil:
			r.ID = existing.ID
			updated, err := repo.Update(ctx, r)
			if err != nil {
				return nil, fmt.Errorf("update system role %s: %w", r.Name, err)
			}
			seeded = append(seeded, updated)
		case errors.Is(err, role.ErrRoleNotFound):
			created, err := repo.Create(ctx, r)
			if err != nil {
				return nil, fmt.Errorf("create system role %s: %w", r.Name, err)
			}
			slog.Info("seeded system role", "name", r.Name, "id", created.ID)
			seeded = append(seeded, created)
		default:
			return nil, fmt.Errorf("get system role %s: %w", r.Name, err)
		}
	}
	return seeded, nil
}
