package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name      string
		principal *Principal
		required  RoleSet
		outcome   Outcome
		reason    DenyReason
	}{
		{"no principal", nil, AnyRole, Deny, ReasonUnauthenticated},
		{"empty email", &Principal{RoleResolved: true, Role: RoleAdmin}, AnyRole, Deny, ReasonUnauthenticated},
		{"role in flight", PendingPrincipal(Identity{Email: "a@x.io"}), AnyRole, Pending, ReasonNone},
		{"resolved unknown role", NewPrincipal("a@x.io", "A", RoleUnknown), AnyRole, Deny, ReasonForbidden},
		{"user on admin route", NewPrincipal("a@x.io", "A", RoleUser), AdminOnly, Deny, ReasonForbidden},
		{"seller on seller route", NewPrincipal("s@x.io", "S", RoleSeller), SellerOnly, Allow, ReasonNone},
		{"admin on staff route", NewPrincipal("ad@x.io", "Ad", RoleAdmin), StaffAccess, Allow, ReasonNone},
		{"seller on buyer route", NewPrincipal("s@x.io", "S", RoleSeller), BuyerOnly, Deny, ReasonForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Authorize(tt.principal, tt.required)
			assert.Equal(t, tt.outcome, d.Outcome)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestUnknownRoleNeverAllowed(t *testing.T) {
	p := NewPrincipal("u@x.io", "U", RoleUnknown)
	sets := []RoleSet{AnyRole, BuyerOnly, SellerOnly, AdminOnly, StaffAccess, Roles(RoleUnknown)}
	for _, set := range sets {
		assert.NotEqual(t, Allow, Authorize(p, set).Outcome)
	}
}

func TestAuthorizeIsSideEffectFree(t *testing.T) {
	p := NewPrincipal("u@x.io", "U", RoleUser)
	first := Authorize(p, BuyerOnly)
	second := Authorize(p, BuyerOnly)
	assert.Equal(t, first, second)
	assert.Equal(t, RoleUser, p.Role)
}

func TestAuthorizeOnTargetBlocksSelfApproval(t *testing.T) {
	admin := NewPrincipal("Admin@Shop.io", "Admin", RoleAdmin)

	d := AuthorizeOnTarget(admin, AdminOnly, " admin@shop.io ")
	assert.Equal(t, Deny, d.Outcome)
	assert.Equal(t, ReasonSelfAction, d.Reason)

	d = AuthorizeOnTarget(admin, AdminOnly, "seller@shop.io")
	assert.Equal(t, Allow, d.Outcome)
}

func TestAuthorizeOnTargetKeepsRoleDenial(t *testing.T) {
	user := NewPrincipal("u@shop.io", "U", RoleUser)
	d := AuthorizeOnTarget(user, AdminOnly, "u@shop.io")
	assert.Equal(t, ReasonForbidden, d.Reason)
}

func TestAuthorizeAuthenticatedIgnoresRole(t *testing.T) {
	assert.Equal(t, Allow, AuthorizeAuthenticated(PendingPrincipal(Identity{Email: "u@x.io"})).Outcome)
	assert.Equal(t, Deny, AuthorizeAuthenticated(nil).Outcome)
}

func TestDecisionRedirect(t *testing.T) {
	unauth := Decision{Outcome: Deny, Reason: ReasonUnauthenticated}
	assert.Equal(t, "/auth/login?from=%2Fcart%2Fa%40x.io", unauth.Redirect("/cart/a@x.io"))
	assert.Equal(t, LoginPath, unauth.Redirect(""))

	forbidden := Decision{Outcome: Deny, Reason: ReasonForbidden}
	assert.Equal(t, ForbiddenPath, forbidden.Redirect("/dashboard"))

	assert.Empty(t, Decision{Outcome: Pending}.Redirect("/x"))
	assert.Empty(t, Decision{Outcome: Allow}.Redirect("/x"))
}
