package role

// Role identifies one entry in the closed role set. The zero value is
// Student, the least privileged role and the safe default when resolution
// finds no matching assignment.
type Role uint8

const (
	// Student is an exported constant or variable used by the authentication engine.
	Student Role = iota
	// Parent is an exported constant or variable used by the authentication engine.
	Parent
	// Librarian is an exported constant or variable used by the authentication engine.
	Librarian
	// Receptionist is an exported constant or variable used by the authentication engine.
	Receptionist
	// Teacher is an exported constant or variable used by the authentication engine.
	Teacher
	// Accountant is an exported constant or variable used by the authentication engine.
	Accountant
	// Principal is an exported constant or variable used by the authentication engine.
	Principal
	// Admin is an exported constant or variable used by the authentication engine.
	Admin
	// SuperAdmin is an exported constant or variable used by the authentication engine.
	SuperAdmin

	roleCount
)

// Default is returned by [Resolve] when no assignment matches.
const Default = Student

// precedence lists roles most privileged first. Resolution and all
// authority comparisons use this order, never the numeric constant order.
var precedence = [...]Role{
	SuperAdmin,
	Admin,
	Principal,
	Accountant,
	Teacher,
	Receptionist,
	Librarian,
	Parent,
	Student,
}

var names = [...]string{
	Student:      "student",
	Parent:       "parent",
	Librarian:    "librarian",
	Receptionist: "receptionist",
	Teacher:      "teacher",
	Accountant:   "accountant",
	Principal:    "principal",
	Admin:        "admin",
	SuperAdmin:   "superadmin",
}

// String returns the canonical wire name of the role, as embedded in
// token claims and persisted in role assignment rows.
func (r Role) String() string {
	if !r.Valid() {
		return "unknown"
	}
	return names[r]
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	return r < roleCount
}

// Interactive reports whether the role is permitted to start an
// interactive session. Parent and student accounts exist as records for
// tenant provisioning but may not sign in to the staff surface.
func (r Role) Interactive() bool {
	return r.Valid() && r != Student && r != Parent
}

// Parse maps a wire name back onto a [Role]. Unknown names report false.
func Parse(s string) (Role, bool) {
	for r, name := range names {
		if name == s {
			return Role(r), true
		}
	}
	return Default, false
}

// Precedence returns the fixed authority order, most privileged first.
// The returned slice is a copy and safe to retain.
func Precedence() []Role {
	out := make([]Role, len(precedence))
	copy(out, precedence[:])
	return out
}
