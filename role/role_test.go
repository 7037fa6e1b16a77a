package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrefersHigherPrecedence(t *testing.T) {
	low := Assignment{Role: Teacher, OrganizationID: "org-1"}
	high := Assignment{Role: Principal, OrganizationID: "org-1"}

	r, ok := Resolve([]Assignment{low, high}, Scope{OrganizationID: "org-1"})
	require.True(t, ok)
	assert.Equal(t, Principal, r)

	// Assignment order must not matter.
	r, ok = Resolve([]Assignment{high, low}, Scope{OrganizationID: "org-1"})
	require.True(t, ok)
	assert.Equal(t, Principal, r)
}

func TestResolveScopeFiltering(t *testing.T) {
	assignments := []Assignment{
		{Role: Admin, OrganizationID: "org-1"},
		{Role: Teacher, OrganizationID: "org-2", BranchID: "b-1"},
	}

	r, ok := Resolve(assignments, Scope{OrganizationID: "org-2", BranchID: "b-1"})
	require.True(t, ok)
	assert.Equal(t, Teacher, r)

	_, ok = Resolve(assignments, Scope{OrganizationID: "org-2", BranchID: "b-9"})
	assert.False(t, ok)
}

func TestResolveOrgWideGrantMatchesAnyBranch(t *testing.T) {
	assignments := []Assignment{
		{Role: Accountant, OrganizationID: "org-1"},
	}

	r, ok := Resolve(assignments, Scope{OrganizationID: "org-1", BranchID: "b-7"})
	require.True(t, ok)
	assert.Equal(t, Accountant, r)
}

func TestResolveNoMatchReturnsSafeDefault(t *testing.T) {
	r, ok := Resolve(nil, Scope{OrganizationID: "org-1"})
	assert.False(t, ok)
	assert.Equal(t, Default, r)
}

func TestResolveIgnoresInvalidRole(t *testing.T) {
	assignments := []Assignment{
		{Role: Role(200), OrganizationID: "org-1"},
	}

	_, ok := Resolve(assignments, Scope{OrganizationID: "org-1"})
	assert.False(t, ok)
}

func TestStringParseRoundTrip(t *testing.T) {
	for _, r := range Precedence() {
		parsed, ok := Parse(r.String())
		require.True(t, ok, "parse %q", r.String())
		assert.Equal(t, r, parsed)
	}

	_, ok := Parse("janitor")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Role(200).String())
}

func TestInteractive(t *testing.T) {
	assert.True(t, Admin.Interactive())
	assert.True(t, Teacher.Interactive())
	assert.False(t, Student.Interactive())
	assert.False(t, Parent.Interactive())
	assert.False(t, Role(200).Interactive())
}
