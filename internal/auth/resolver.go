package auth

import (
	"context"
	"time"

	"storefront-service/internal/apperr"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// AccountLookup is the registry the resolver reads roles from.
type AccountLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*models.UserAccount, error)
}

// RoleCache short-circuits registry lookups.
type RoleCache interface {
	GetRole(ctx context.Context, email string) (role string, accountID int64, found bool, err error)
	SetRole(ctx context.Context, email, role string, accountID int64, ttl time.Duration) error
	InvalidateRole(ctx context.Context, email string) error
}

// RoleResolver turns an authenticated identity into a Principal.
type RoleResolver struct {
	accounts AccountLookup
	cache    RoleCache
	ttl      time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

// NewRoleResolver creates a resolver. cache may be nil.
func NewRoleResolver(accounts AccountLookup, cache RoleCache, ttl, timeout time.Duration) *RoleResolver {
	return &RoleResolver{
		accounts: accounts,
		cache:    cache,
		ttl:      ttl,
		timeout:  timeout,
		logger:   util.GetLogger(),
	}
}

// Resolve looks up the role for id. When the lookup cannot complete the
// principal is returned unresolved, so every gate answers Pending.
func (r *RoleResolver) Resolve(ctx context.Context, id Identity) *Principal {
	p := PendingPrincipal(id)

	if r.cache != nil {
		role, accountID, found, err := r.cache.GetRole(ctx, p.Email)
		if err != nil {
			r.logger.Warn("Role cache read failed", zap.String("email", p.Email), zap.Error(err))
		} else if found {
			p.Role = ParseRole(role)
			p.AccountID = accountID
			p.RoleResolved = true
			return p
		}
	}

	lookupCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	account, err := r.accounts.GetUserByEmail(lookupCtx, p.Email)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			// Not registered yet: resolved, but holds no role.
			p.RoleResolved = true
			return p
		}
		r.logger.Warn("Role lookup failed", zap.String("email", p.Email), zap.Error(err))
		return p
	}

	p.Role = ParseRole(account.Role)
	p.AccountID = account.ID
	p.RoleResolved = true

	if r.cache != nil {
		if err := r.cache.SetRole(ctx, p.Email, p.Role.String(), account.ID, r.ttl); err != nil {
			r.logger.Warn("Role cache write failed", zap.String("email", p.Email), zap.Error(err))
		}
	}

	return p
}

// Invalidate drops a cached role after it changed.
func (r *RoleResolver) Invalidate(ctx context.Context, email string) error {
	if r.cache == nil {
		return nil
	}
	return r.cache.InvalidateRole(ctx, NormalizeEmail(email))
}
