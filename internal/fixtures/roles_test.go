package fixtures

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
	"github.com/cmlabs-hris/workforce-guard/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemRoles_AreValid(t *testing.T) {
	for _, r := range SystemRoles() {
		assert.True(t, r.IsSystem, r.Name)
		assert.NoError(t, r.Permissions.Validate(), r.Name)
		assert.NoError(t, r.PageAccess.Validate(), r.Name)
	}
}

func TestSystemRoles_SuperAdminHoldsEverything(t *testing.T) {
	super := SystemRoles()[0]
	require.Equal(t, role.NameSuperAdmin, super.Name)

	for _, c := range role.Categories() {
		for _, a := range role.Actions(c) {
			assert.True(t, super.Allows(c, a), "%s.%s", c, a)
		}
	}
}

func TestSeedSystemRoles_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := memory.NewRoleRepository(store)

	first, err := SeedSystemRoles(ctx, repo)
	require.NoError(t, err)
	second, err := SeedSystemRoles(ctx, repo)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
	assert.Equal(t, 4, store.Counts().Roles)
}
