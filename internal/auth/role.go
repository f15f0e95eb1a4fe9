package auth

import "strings"

// Role is the resolved authority of a principal. The zero value is
// RoleUnknown, which never satisfies a role check.
type Role int

const (
	RoleUnknown Role = iota
	RoleUser
	RoleSeller
	RoleAdmin
)

// ParseRole maps a stored role name to a Role. Anything unrecognized is RoleUnknown.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return RoleUser
	case "seller":
		return RoleSeller
	case "admin":
		return RoleAdmin
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleSeller:
		return "seller"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// RoleSet is a set of roles a gated operation accepts.
type RoleSet uint8

// Roles builds a RoleSet. RoleUnknown is never added.
func Roles(roles ...Role) RoleSet {
	var set RoleSet
	for _, r := range roles {
		if r == RoleUnknown {
			continue
		}
		set |= 1 << uint(r)
	}
	return set
}

// Has reports whether r is in the set.
func (s RoleSet) Has(r Role) bool {
	if r == RoleUnknown {
		return false
	}
	return s&(1<<uint(r)) != 0
}

var (
	AnyRole     = Roles(RoleUser, RoleSeller, RoleAdmin)
	BuyerOnly   = Roles(RoleUser)
	SellerOnly  = Roles(RoleSeller)
	AdminOnly   = Roles(RoleAdmin)
	StaffAccess = Roles(RoleSeller, RoleAdmin)
)

// Action is a capability surfaced to navigation.
type Action string

const (
	ActionBrowseCatalog      Action = "browse_catalog"
	ActionManageCart         Action = "manage_cart"
	ActionCheckout           Action = "checkout"
	ActionViewOwnPayments    Action = "view_own_payments"
	ActionManageOwnMedicines Action = "manage_own_medicines"
	ActionViewSellerPayments Action = "view_seller_payments"
	ActionManageUsers        Action = "manage_users"
	ActionReviewSellers      Action = "review_sellers"
	ActionManageCatalog      Action = "manage_catalog"
	ActionViewSalesReport    Action = "view_sales_report"
)

// AllowedActions returns the navigation action set for a role.
func AllowedActions(r Role) []Action {
	switch r {
	case RoleUser:
		return []Action{
			ActionBrowseCatalog,
			ActionManageCart,
			ActionCheckout,
			ActionViewOwnPayments,
		}
	case RoleSeller:
		return []Action{
			ActionBrowseCatalog,
			ActionManageOwnMedicines,
			ActionViewSellerPayments,
		}
	case RoleAdmin:
		return []Action{
			ActionBrowseCatalog,
			ActionManageUsers,
			ActionReviewSellers,
			ActionManageCatalog,
			ActionViewSalesReport,
		}
	case RoleUnknown:
		return nil
	}
	return nil
}

// CanPurchase reports whether the role may put items in a cart and pay.
func CanPurchase(r Role) bool {
	switch r {
	case RoleUser:
		return true
	case RoleSeller, RoleAdmin, RoleUnknown:
		return false
	}
	return false
}
