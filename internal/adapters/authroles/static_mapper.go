package authroles

import (
	"log/slog"

	domainauth "github.com/gpse/sesam-client/internal/domain/auth"
)

// StaticRoleMapper maps the backend's role strings onto the closed Role set.
// Unrecognised strings are dropped; they are only visible in debug logs.
type StaticRoleMapper struct {
	Logger *slog.Logger
}

// Map returns the roles of names that are known. The result is never nil.
func (m StaticRoleMapper) Map(names []string) domainauth.RoleSet {
	set := domainauth.NewRoleSet()
	for _, name := range names {
		role, ok := domainauth.ParseRole(name)
		if !ok {
			if m.Logger != nil {
				m.Logger.Debug("dropping unknown role", "role", name)
			}
			continue
		}
		set[role] = struct{}{}
	}
	return set
}
