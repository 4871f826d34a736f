// internal/pkg/authz/role.go
package authz

import (
	"fmt"
	"strings"
)

// Role is the staff role hierarchy. Roles are totally ordered so permission
// checks are a plain integer comparison, never a string comparison.
type Role int

const (
	RoleChef Role = iota + 1
	RoleManager
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleChef:    "chef",
	RoleManager: "manager",
	RoleAdmin:   "admin",
}

// ParseRole converts a wire name into a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chef":
		return RoleChef, nil
	case "manager":
		return RoleManager, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return 0, fmt.Errorf("unknown role: %q", s)
	}
}

// IsValid reports whether r is one of the defined roles.
func (r Role) IsValid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// MarshalText encodes the role as its wire name.
func (r Role) MarshalText() ([]byte, error) {
	name, ok := roleNames[r]
	if !ok {
		return nil, fmt.Errorf("invalid role: %d", int(r))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a role from its wire name.
func (r *Role) UnmarshalText(text []byte) error {
	role, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// HasPermission reports whether a role satisfies the required level.
func HasPermission(actor, required Role) bool {
	return actor >= required
}

// Actor is the resolved identity every engine operation receives. The engine
// never authenticates credentials itself; the HTTP layer resolves the actor
// from the session token.
type Actor struct {
	ID   uint
	Name string
	Role Role
}

// Can reports whether the actor satisfies the required role level.
func (a Actor) Can(required Role) bool {
	return HasPermission(a.Role, required)
}

// SeesEverything reports whether the actor's reads are unscoped. Chefs only
// see entities they are assigned to; managers and admins see everything.
func (a Actor) SeesEverything() bool {
	return a.Role >= RoleManager
}

// CanActOn reports whether the actor may mutate an entity assigned to
// assigneeID. Managers and admins may act on anything.
func (a Actor) CanActOn(assigneeID uint) bool {
	if a.SeesEverything() {
		return true
	}
	return a.ID == assigneeID
}
