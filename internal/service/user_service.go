package service

import (
	"context"
	"fmt"

	"storefront-service/internal/apperr"
	"storefront-service/internal/auth"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// UserService manages the account registry behind role resolution
type UserService struct {
	users  UserRepository
	roles  RoleInvalidator
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users UserRepository, roles RoleInvalidator) *UserService {
	return &UserService{
		users:  users,
		roles:  roles,
		logger: util.GetLogger(),
	}
}

// RegisterRequest represents a registration of a signed-in principal
type RegisterRequest struct {
	Name        string `json:"name"`
	Photo       string `json:"photo"`
	ApplyingFor string `json:"applying_for"`
}

// RoleInfo is the role lookup answer
type RoleInfo struct {
	Role string `json:"role"`
	ID   int64  `json:"id"`
}

// Register records the principal's account. The role is always user; applying
// for seller parks the account in pending until an admin decides.
func (s *UserService) Register(ctx context.Context, p *auth.Principal, req *RegisterRequest) (*models.UserAccount, error) {
	if !p.Authenticated() {
		return nil, apperr.Validation("sign in before registering")
	}

	applyingFor := auth.RoleUser.String()
	status := models.AccountStatusUser
	if auth.ParseRole(req.ApplyingFor) == auth.RoleSeller {
		applyingFor = models.ApplyingForSeller
		status = models.AccountStatusPending
	}

	name := req.Name
	if name == "" {
		name = p.DisplayName
	}
	photo := req.Photo
	if photo == "" {
		photo = p.PhotoURL
	}

	user := &models.UserAccount{
		Name:        name,
		Email:       p.Email,
		Photo:       photo,
		Role:        auth.RoleUser.String(),
		Status:      status,
		ApplyingFor: applyingFor,
	}

	created, err := s.users.CreateUserIfAbsent(ctx, user)
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info("User registered",
			zap.String("email", user.Email),
			zap.String("applying_for", applyingFor))
	}
	return user, nil
}

// GetRole answers the role lookup. Only the account itself or an admin may ask.
func (s *UserService) GetRole(ctx context.Context, p *auth.Principal, email string) (*RoleInfo, error) {
	if !p.IsSelf(email) && !isAdmin(p) {
		return nil, apperr.NotFound("user not found")
	}

	user, err := s.users.GetUserByEmail(ctx, auth.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return &RoleInfo{Role: auth.ParseRole(user.Role).String(), ID: user.ID}, nil
}

// Exists reports whether an account is registered, so a fresh login knows
// whether to register or only touch the login time
func (s *UserService) Exists(ctx context.Context, p *auth.Principal, email string) (bool, error) {
	if !p.IsSelf(email) && !isAdmin(p) {
		return false, apperr.Forbidden("cannot check another account")
	}
	_, err := s.users.GetUserByEmail(ctx, auth.NormalizeEmail(email))
	if apperr.Is(err, apperr.CodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// TouchLogin records a login for the principal's own account
func (s *UserService) TouchLogin(ctx context.Context, p *auth.Principal, email string) error {
	if !p.IsSelf(email) {
		return apperr.Forbidden("cannot update another account")
	}
	return s.users.TouchLastLogin(ctx, p.Email)
}

// ListPendingSellers returns the open seller applications
func (s *UserService) ListPendingSellers(ctx context.Context) ([]models.UserAccount, error) {
	return s.users.ListUsersByStatus(ctx, models.AccountStatusPending)
}

// ListSellerAccounts returns every account that applied to sell
func (s *UserService) ListSellerAccounts(ctx context.Context) ([]models.UserAccount, error) {
	return s.users.ListUsersByStatus(ctx,
		models.AccountStatusPending, models.AccountStatusApproved, models.AccountStatusRejected)
}

// ApprovalRequest is an admin decision on a seller application
type ApprovalRequest struct {
	Email  string `json:"email" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// DecideSellerApplication approves or rejects an application. An admin can
// never decide their own application.
func (s *UserService) DecideSellerApplication(ctx context.Context, p *auth.Principal, req *ApprovalRequest) (*models.UserAccount, error) {
	d := auth.AuthorizeOnTarget(p, auth.AdminOnly, req.Email)
	switch d.Outcome {
	case auth.Pending:
		return nil, apperr.New(apperr.CodeRolePending, "role is still being resolved")
	case auth.Deny:
		if d.Reason == auth.ReasonSelfAction {
			return nil, apperr.Forbidden("cannot decide your own application").
				WithDetails(map[string]string{"reason": string(d.Reason)})
		}
		return nil, apperr.Forbidden("admin role required")
	}

	var role, status string
	switch req.Status {
	case models.AccountStatusApproved:
		role, status = auth.RoleSeller.String(), models.AccountStatusApproved
	case models.AccountStatusRejected:
		role, status = auth.RoleUser.String(), models.AccountStatusRejected
	default:
		return nil, apperr.Validation(fmt.Sprintf("status must be %q or %q",
			models.AccountStatusApproved, models.AccountStatusRejected))
	}

	target := auth.NormalizeEmail(req.Email)
	user, err := s.users.UpdateUserApproval(ctx, target, role, status)
	if err != nil {
		return nil, err
	}

	if s.roles != nil {
		if err := s.roles.Invalidate(ctx, target); err != nil {
			s.logger.Warn("Failed to invalidate cached role", zap.String("email", target), zap.Error(err))
		}
	}

	s.logger.Info("Seller application decided",
		zap.String("email", target),
		zap.String("status", status),
		zap.String("admin", p.Email))
	return user, nil
}
