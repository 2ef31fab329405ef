package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agriverse/agriverse/internal/shared"
)

func authenticated(role shared.Role) Snapshot {
	return Snapshot{State: StateAuthenticated, Role: role}
}

func TestAllowedPrefixesProduceNoRedirect(t *testing.T) {
	policy := DefaultPolicy()

	cases := map[shared.Role][]string{
		shared.RoleFarmer:      {"/dashboard", "/dashboard/crops", "/storage", "/storage/requests/42", "/marketplace", "/settings", "/waste/records", "/coops", "/farmgpt"},
		shared.RoleBuyer:       {"/buyer", "/buyer/purchases", "/marketplace", "/marketplace/items/7", "/profile"},
		shared.RoleGodownAdmin: {"/admin", "/admin/overview", "/requests", "/requests/9", "/godowns", "/market"},
	}

	for role, locations := range cases {
		for _, loc := range locations {
			decision := policy.Evaluate(authenticated(role), loc)
			assert.False(t, decision.Redirect, "role %s at %s should stay", role, loc)
		}
	}
}

func TestForeignLocationsRedirectHome(t *testing.T) {
	policy := DefaultPolicy()

	cases := []struct {
		role     shared.Role
		location string
		home     string
	}{
		{shared.RoleFarmer, "/buyer", "/dashboard"},
		{shared.RoleFarmer, "/admin/overview", "/dashboard"},
		{shared.RoleBuyer, "/dashboard", "/buyer"},
		{shared.RoleBuyer, "/storage", "/buyer"},
		{shared.RoleBuyer, "/waste", "/buyer"},
		{shared.RoleGodownAdmin, "/dashboard", "/admin"},
		{shared.RoleGodownAdmin, "/marketplace", "/admin"},
		{shared.RoleGodownAdmin, "/profile", "/admin"},
	}

	for _, tc := range cases {
		decision := policy.Evaluate(authenticated(tc.role), tc.location)
		require.True(t, decision.Redirect, "role %s at %s should redirect", tc.role, tc.location)
		assert.Equal(t, tc.home, decision.Target)
	}
}

func TestUnresolvedNeverRedirects(t *testing.T) {
	policy := DefaultPolicy()

	for _, loc := range []string{"/", "/dashboard", "/admin", "/login", "/nowhere"} {
		decision := policy.Evaluate(Snapshot{State: StateUnresolved}, loc)
		assert.False(t, decision.Redirect, "unresolved session at %s must not redirect", loc)
	}
}

func TestAnonymousRouting(t *testing.T) {
	policy := DefaultPolicy()
	anon := Snapshot{State: StateAnonymous}

	assert.False(t, policy.Evaluate(anon, "/login").Redirect)
	assert.False(t, policy.Evaluate(anon, "/signup").Redirect)
	assert.False(t, policy.Evaluate(anon, "/signup/farmer").Redirect)

	for _, loc := range []string{"/", "/dashboard", "/buyer", "/marketplace"} {
		decision := policy.Evaluate(anon, loc)
		require.True(t, decision.Redirect, "anonymous at %s should redirect", loc)
		assert.Equal(t, "/login", decision.Target)
	}
}

func TestLoginTransitionYieldsSingleRedirect(t *testing.T) {
	policy := DefaultPolicy()

	// While authenticating, the entry location stays put.
	assert.False(t, policy.Evaluate(Snapshot{State: StateAnonymous}, "/login").Redirect)

	// The moment the buyer identity lands, exactly one redirect follows.
	decision := policy.Evaluate(authenticated(shared.RoleBuyer), "/login")
	require.True(t, decision.Redirect)
	assert.Equal(t, "/buyer", decision.Target)

	// Evaluating at the target is a fixed point.
	assert.False(t, policy.Evaluate(authenticated(shared.RoleBuyer), "/buyer").Redirect)
}

func TestRedirectTargetsAreStable(t *testing.T) {
	policy := DefaultPolicy()

	for _, role := range []shared.Role{shared.RoleFarmer, shared.RoleBuyer, shared.RoleGodownAdmin} {
		decision := policy.Evaluate(authenticated(role), "/somewhere/else")
		require.True(t, decision.Redirect)

		// Re-evaluating at the target must be a fixed point: no oscillation.
		again := policy.Evaluate(authenticated(role), decision.Target)
		assert.False(t, again.Redirect, "role %s oscillates at %s", role, decision.Target)
	}

	anonDecision := policy.Evaluate(Snapshot{State: StateAnonymous}, "/dashboard")
	require.True(t, anonDecision.Redirect)
	assert.False(t, policy.Evaluate(Snapshot{State: StateAnonymous}, anonDecision.Target).Redirect)
}

func TestPrefixMatchingIsSegmentAware(t *testing.T) {
	policy := DefaultPolicy()

	assert.True(t, policy.Allows(shared.RoleFarmer, "/dashboard/alerts"))
	assert.False(t, policy.Allows(shared.RoleFarmer, "/dashboardx"))
	assert.False(t, policy.Allows(shared.RoleBuyer, "/profilepic"))
}

func TestNewPolicyRejectsUncoveredHome(t *testing.T) {
	_, err := NewPolicy(map[shared.Role]Rule{
		shared.RoleFarmer: {Home: "/home", Prefixes: []string{"/elsewhere"}},
	}, []string{"/login"}, "/login")
	require.Error(t, err)
}

func TestUnknownRoleFallsBackToLogin(t *testing.T) {
	policy := DefaultPolicy()

	decision := policy.Evaluate(Snapshot{State: StateAuthenticated, Role: "auditor"}, "/dashboard")
	require.True(t, decision.Redirect)
	assert.Equal(t, "/login", decision.Target)
}
