package auth

import (
	"strings"
)

// Identity is what the identity provider vouches for.
type Identity struct {
	Subject     string
	Email       string
	DisplayName string
	PhotoURL    string
}

// Principal is the acting identity plus its resolved role. It is passed
// explicitly into every gated operation.
type Principal struct {
	Identity
	AccountID int64
	Role      Role
	// RoleResolved is false while the role lookup has not completed.
	RoleResolved bool
}

// NewPrincipal returns a principal whose role is already known.
func NewPrincipal(email, displayName string, role Role) *Principal {
	return &Principal{
		Identity:     Identity{Subject: email, Email: NormalizeEmail(email), DisplayName: displayName},
		Role:         role,
		RoleResolved: true,
	}
}

// PendingPrincipal returns an authenticated principal whose role is still unknown.
func PendingPrincipal(id Identity) *Principal {
	id.Email = NormalizeEmail(id.Email)
	return &Principal{Identity: id, Role: RoleUnknown}
}

// Authenticated reports whether p carries an identity.
func (p *Principal) Authenticated() bool {
	return p != nil && p.Email != ""
}

// IsSelf reports whether email names the principal.
func (p *Principal) IsSelf(email string) bool {
	return p.Authenticated() && NormalizeEmail(email) == p.Email
}

// NormalizeEmail lowercases and trims an email for comparisons.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
