package auth

import "net/url"

// Outcome of an authorization decision.
type Outcome int

const (
	Pending Outcome = iota
	Allow
	Deny
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "pending"
	}
}

// DenyReason explains a Deny outcome.
type DenyReason string

const (
	ReasonNone            DenyReason = ""
	ReasonUnauthenticated DenyReason = "unauthenticated"
	ReasonForbidden       DenyReason = "forbidden"
	ReasonSelfAction      DenyReason = "self_action"
)

const (
	LoginPath     = "/auth/login"
	ForbiddenPath = "/forbidden"
)

// Decision is the result of Authorize. Callers must not act on Reason unless
// Outcome is Deny.
type Decision struct {
	Outcome Outcome
	Reason  DenyReason
}

func (d Decision) Allowed() bool { return d.Outcome == Allow }

// Authorize decides whether p may perform an operation restricted to required.
// It has no side effects and is safe to call on every request.
func Authorize(p *Principal, required RoleSet) Decision {
	if !p.Authenticated() {
		return Decision{Outcome: Deny, Reason: ReasonUnauthenticated}
	}
	if !p.RoleResolved {
		return Decision{Outcome: Pending}
	}
	if !required.Has(p.Role) {
		return Decision{Outcome: Deny, Reason: ReasonForbidden}
	}
	return Decision{Outcome: Allow}
}

// AuthorizeAuthenticated only requires an identity, the role is not consulted.
func AuthorizeAuthenticated(p *Principal) Decision {
	if !p.Authenticated() {
		return Decision{Outcome: Deny, Reason: ReasonUnauthenticated}
	}
	return Decision{Outcome: Allow}
}

// AuthorizeOnTarget is Authorize plus the self-action guard: the principal may
// not act on a record that carries its own email, whatever its role.
func AuthorizeOnTarget(p *Principal, required RoleSet, targetEmail string) Decision {
	d := Authorize(p, required)
	if d.Outcome != Allow {
		return d
	}
	if p.IsSelf(targetEmail) {
		return Decision{Outcome: Deny, Reason: ReasonSelfAction}
	}
	return d
}

// Redirect returns where a denied caller should be sent. requestedPath is
// preserved for the post-login redirect.
func (d Decision) Redirect(requestedPath string) string {
	if d.Outcome != Deny {
		return ""
	}
	if d.Reason == ReasonUnauthenticated {
		if requestedPath == "" {
			return LoginPath
		}
		return LoginPath + "?from=" + url.QueryEscape(requestedPath)
	}
	return ForbiddenPath
}
