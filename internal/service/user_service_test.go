package service

import (
	"context"
	"testing"

	"storefront-service/internal/apperr"
	"storefront-service/internal/auth"
	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserHarness() (*UserService, *memStore, *recordingInvalidator) {
	st := newMemStore()
	inv := &recordingInvalidator{}
	return NewUserService(st, inv), st, inv
}

func TestRegisterAlwaysCreatesUserRole(t *testing.T) {
	svc, _, _ := newUserHarness()
	ctx := context.Background()
	applicant := auth.PendingPrincipal(auth.Identity{Email: "Applicant@Shop.io", DisplayName: "App"})

	user, err := svc.Register(ctx, applicant, &RegisterRequest{ApplyingFor: "seller"})
	require.NoError(t, err)
	assert.Equal(t, "user", user.Role)
	assert.Equal(t, models.AccountStatusPending, user.Status)
	assert.Equal(t, "applicant@shop.io", user.Email)
	assert.Equal(t, "App", user.Name)

	again, err := svc.Register(ctx, applicant, &RegisterRequest{ApplyingFor: "admin"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, models.AccountStatusPending, again.Status)

	_, err = svc.Register(ctx, &auth.Principal{}, &RegisterRequest{})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestGetRoleSelfOrAdmin(t *testing.T) {
	svc, _, _ := newUserHarness()
	ctx := context.Background()
	_, err := svc.Register(ctx, buyer, &RegisterRequest{})
	require.NoError(t, err)

	info, err := svc.GetRole(ctx, buyer, buyer.Email)
	require.NoError(t, err)
	assert.Equal(t, "user", info.Role)

	_, err = svc.GetRole(ctx, admin, buyer.Email)
	assert.NoError(t, err)

	_, err = svc.GetRole(ctx, seller, buyer.Email)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestDecideSellerApplication(t *testing.T) {
	svc, _, inv := newUserHarness()
	ctx := context.Background()
	applicant := auth.PendingPrincipal(auth.Identity{Email: "applicant@shop.io"})
	_, err := svc.Register(ctx, applicant, &RegisterRequest{ApplyingFor: "seller"})
	require.NoError(t, err)

	pending, err := svc.ListPendingSellers(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	user, err := svc.DecideSellerApplication(ctx, admin, &ApprovalRequest{Email: "applicant@shop.io", Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, "seller", user.Role)
	assert.Equal(t, models.AccountStatusApproved, user.Status)
	assert.Equal(t, []string{"applicant@shop.io"}, inv.emails)

	user, err = svc.DecideSellerApplication(ctx, admin, &ApprovalRequest{Email: "applicant@shop.io", Status: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, "user", user.Role)

	_, err = svc.DecideSellerApplication(ctx, admin, &ApprovalRequest{Email: "applicant@shop.io", Status: "maybe"})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	sellers, err := svc.ListSellerAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, sellers, 1)
}

func TestDecideOwnApplicationDenied(t *testing.T) {
	svc, st, inv := newUserHarness()
	ctx := context.Background()
	_, err := svc.Register(ctx, admin, &RegisterRequest{ApplyingFor: "seller"})
	require.NoError(t, err)

	for _, status := range []string{"approved", "rejected"} {
		_, err := svc.DecideSellerApplication(ctx, admin, &ApprovalRequest{Email: " ADMIN@shop.io", Status: status})
		assert.True(t, apperr.Is(err, apperr.CodeForbidden), status)
	}
	assert.Equal(t, models.AccountStatusPending, st.users["admin@shop.io"].Status)
	assert.Empty(t, inv.emails)
}

func TestDecideIgnoresNonApplicants(t *testing.T) {
	svc, st, inv := newUserHarness()
	ctx := context.Background()
	st.users["second-admin@shop.io"] = &models.UserAccount{
		ID: 42, Email: "second-admin@shop.io", Role: "admin",
		Status: models.AccountStatusUser, ApplyingFor: "user",
	}
	_, err := svc.Register(ctx, auth.PendingPrincipal(auth.Identity{Email: "plain@shop.io"}), &RegisterRequest{})
	require.NoError(t, err)

	for _, target := range []string{"second-admin@shop.io", "plain@shop.io"} {
		for _, status := range []string{"approved", "rejected"} {
			_, err := svc.DecideSellerApplication(ctx, admin, &ApprovalRequest{Email: target, Status: status})
			assert.True(t, apperr.Is(err, apperr.CodeNotFound), "%s %s", target, status)
		}
	}

	assert.Equal(t, "admin", st.users["second-admin@shop.io"].Role)
	assert.Equal(t, "user", st.users["plain@shop.io"].Role)
	assert.Equal(t, models.AccountStatusUser, st.users["plain@shop.io"].Status)
	assert.Empty(t, inv.emails)
}

func TestExistsDrivesFirstLogin(t *testing.T) {
	svc, _, _ := newUserHarness()
	ctx := context.Background()
	newcomer := auth.PendingPrincipal(auth.Identity{Email: "new@shop.io"})

	exists, err := svc.Exists(ctx, newcomer, "new@shop.io")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.Register(ctx, newcomer, &RegisterRequest{})
	require.NoError(t, err)
	exists, err = svc.Exists(ctx, newcomer, "NEW@shop.io")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.Exists(ctx, admin, "new@shop.io")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = svc.Exists(ctx, seller, "new@shop.io")
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))
}

func TestDecideRequiresResolvedAdmin(t *testing.T) {
	svc, _, _ := newUserHarness()
	ctx := context.Background()
	req := &ApprovalRequest{Email: "applicant@shop.io", Status: "approved"}

	_, err := svc.DecideSellerApplication(ctx, seller, req)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))

	unresolved := auth.PendingPrincipal(auth.Identity{Email: "admin@shop.io"})
	_, err = svc.DecideSellerApplication(ctx, unresolved, req)
	assert.True(t, apperr.Is(err, apperr.CodeRolePending))

	unknown := auth.NewPrincipal("ghost@shop.io", "", auth.RoleUnknown)
	_, err = svc.DecideSellerApplication(ctx, unknown, req)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))
}

func TestTouchLoginSelfOnly(t *testing.T) {
	svc, _, _ := newUserHarness()
	ctx := context.Background()
	_, err := svc.Register(ctx, buyer, &RegisterRequest{})
	require.NoError(t, err)

	assert.NoError(t, svc.TouchLogin(ctx, buyer, buyer.Email))
	assert.True(t, apperr.Is(svc.TouchLogin(ctx, seller, buyer.Email), apperr.CodeForbidden))
}
