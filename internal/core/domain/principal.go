package domain

import (
	"slices"
	"time"
)

// Principal is the verified identity decoded from an access token. It is a
// snapshot of the user at login time and does not follow later role changes.
type Principal struct {
	Subject     string
	Roles       []string
	Permissions []string
	ExpiresAt   time.Time
}

// HasPermission reports whether name is one of the principal's permissions.
func (p *Principal) HasPermission(name string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Permissions, name)
}
