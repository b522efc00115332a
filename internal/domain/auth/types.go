// Package auth contains domain-level types for client-side authentication and sessions.
// It is pure and free of transport/storage concerns.
package auth

import "sort"

// Role represents a permission class attached to a user profile.
type Role int

const (
	RoleAdmin Role = iota + 1
	RoleIssuer
	RoleEditor
)

// Backend role identifiers as issued by the access-management API.
const (
	BackendRoleAdmin  = "ROLE_ADMIN"
	BackendRoleIssuer = "ROLE_ISSUER"
	BackendRoleEditor = "ROLE_EDITOR"
)

var backendRoles = map[string]Role{
	BackendRoleAdmin:  RoleAdmin,
	BackendRoleIssuer: RoleIssuer,
	BackendRoleEditor: RoleEditor,
}

// ParseRole maps a backend role string to a Role. Matching is case-sensitive;
// unknown values report false.
func ParseRole(s string) (Role, bool) {
	r, ok := backendRoles[s]
	return r, ok
}

// String returns the backend identifier for the role.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return BackendRoleAdmin
	case RoleIssuer:
		return BackendRoleIssuer
	case RoleEditor:
		return BackendRoleEditor
	default:
		return "ROLE_UNKNOWN"
	}
}

// RoleSet is an unordered set of roles.
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Contains reports whether r is a member of the set. A nil set contains nothing.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

// Slice returns the roles in a stable order.
func (s RoleSet) Slice() []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the backend identifiers of the roles in a stable order.
func (s RoleSet) Strings() []string {
	roles := s.Slice()
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = r.String()
	}
	return out
}

// Clone returns an independent copy of the set.
func (s RoleSet) Clone() RoleSet {
	if s == nil {
		return nil
	}
	out := make(RoleSet, len(s))
	for r := range s {
		out[r] = struct{}{}
	}
	return out
}

// Profile is the identity of the logged-in user.
type Profile struct {
	Forename string
	Surname  string
	Email    string
	Username string
	Roles    RoleSet
}

// IsAdmin reports whether the profile carries the admin role.
func (p Profile) IsAdmin() bool { return p.Roles.Contains(RoleAdmin) }

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	p.Roles = p.Roles.Clone()
	return p
}

// AuthState is the client's belief about whether it is authenticated.
type AuthState int

const (
	// StateUnknown means no session resolution has happened yet.
	StateUnknown AuthState = iota
	StateAuthenticated
	StateAnonymous
)

func (s AuthState) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Decision is the outcome of a single navigation check.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "allow"
	}
}

// Well-known keys of the persisted client state.
const (
	TokenKey    = "token"
	DarkModeKey = "darkMode"
	LanguageKey = "lang"
)
