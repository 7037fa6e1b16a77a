package role

// Assignment is one role grant held by an account within a tenant scope.
// An empty BranchID means the grant applies organization-wide.
type Assignment struct {
	Role           Role
	OrganizationID string
	BranchID       string
}

// Scope narrows resolution to one tenant. An empty OrganizationID matches
// every organization; an empty BranchID matches every branch.
type Scope struct {
	OrganizationID string
	BranchID       string
}

// Resolve picks the single effective role for the given assignments.
//
// Assignments outside the scope are ignored. The remaining roles are
// scanned in precedence order and the first hit wins, so assignment order
// never affects the result. When nothing matches, Resolve returns
// ([Default], false) and the caller must treat the session as not
// authorized rather than trusting the fallback role.
func Resolve(assignments []Assignment, scope Scope) (Role, bool) {
	var held [roleCount]bool

	for _, a := range assignments {
		if !a.Role.Valid() {
			continue
		}
		if scope.OrganizationID != "" && a.OrganizationID != scope.OrganizationID {
			continue
		}
		// Organization-wide grants carry into every branch.
		if scope.BranchID != "" && a.BranchID != "" && a.BranchID != scope.BranchID {
			continue
		}
		held[a.Role] = true
	}

	for _, r := range precedence {
		if held[r] {
			return r, true
		}
	}

	return Default, false
}
