package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/config"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/repository"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	profiles   repository.ProfileRepository
	staff      repository.StaffRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	ProfileRepo repository.ProfileRepository
	StaffRepo   repository.StaffRepository
}

// Session is the result of a successful register or login.
type Session struct {
	Profile     *domain.Profile
	Role        domain.Role
	AccessToken string
	Token       domain.AccessToken
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		profiles:   deps.ProfileRepo,
		staff:      deps.StaffRepo,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a citizen account.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.NewValidationError("invalid email", map[string]any{"email": email})
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return nil, apperrors.NewValidationError(err.Error(), nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	profile := &domain.Profile{Email: email, PasswordHash: hash}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		profile.Name = &trimmed
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if err := s.staff.SetRole(ctx, domain.RoleAssignment{UserID: profile.ID, Role: domain.RoleCitizen}); err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.issue(profile, domain.RoleCitizen)
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	profile, err := s.profiles.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(profile.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	role, err := s.staff.GetRole(ctx, profile.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		role = domain.RoleCitizen
	} else if err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.issue(profile, role)
}

func (s *AuthService) issue(profile *domain.Profile, role domain.Role) (*Session, error) {
	token, signed, err := s.tokenMgr.GenerateToken(profile.ID, role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{Profile: profile, Role: role, AccessToken: signed, Token: token}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
