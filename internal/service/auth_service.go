package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/heardesk/complaint-service/internal/auth"
	"github.com/heardesk/complaint-service/internal/config"
	"github.com/heardesk/complaint-service/internal/domain"
	"github.com/heardesk/complaint-service/internal/repository"
	apperrors "github.com/heardesk/complaint-service/pkg/util"
)

// AuthService coordinates registration and login flows. Roles come from the
// externally supplied policy, never from stored credentials.
type AuthService struct {
	users      repository.UserRepository
	policy     auth.RolePolicy
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Policy   auth.RolePolicy
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		policy:     deps.Policy,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new standard user account. A reserved administrator
// email is rejected before any write is attempted.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, time.Time, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", time.Time{}, newAuthError(CodeInvalidEmail)
	}
	if len(password) < auth.MinPasswordLength {
		return nil, "", time.Time{}, newAuthError(CodeWeakPassword)
	}
	if s.policy.IsReserved(email) {
		return nil, "", time.Time{}, apperrors.NewForbidden("admin accounts cannot be registered; use admin login")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, newAuthError(CodeEmailInUse)
	} else if err != pgx.ErrNoRows {
		return nil, "", time.Time{}, translateAuthErr(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Email:        email,
		DisplayName:  strings.TrimSpace(name),
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, translateAuthErr(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Login authenticates a user; role and last_login_at are refreshed from the
// policy on every successful login.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	email = normalizeEmail(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, newAuthError(CodeUserNotFound)
		}
		return nil, "", time.Time{}, translateAuthErr(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, newAuthError(CodeWrongPassword)
	}

	role := s.policy.RoleFor(email)
	if err := s.users.RecordLogin(ctx, user.ID, role); err != nil {
		return nil, "", time.Time{}, translateAuthErr(err)
	}
	user.Role = role
	user.LastLoginAt = time.Now()

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// LoginAdmin authenticates and additionally requires the administrator role.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, token, exp, err := s.Login(ctx, email, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user.Role != domain.RoleAdmin {
		return nil, "", time.Time{}, apperrors.NewForbidden("administrator role required")
	}
	return user, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// normalizeEmail lowercases the address so both sync-adapter variants agree
// on account lookup regardless of how the caller typed it.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
