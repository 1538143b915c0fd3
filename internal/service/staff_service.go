package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/cache"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/repository"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

// StaffService manages roles and the assignable staff roster.
type StaffService struct {
	staff    repository.StaffRepository
	profiles repository.ProfileRepository
	roster   *cache.RosterCache
	logger   *zap.Logger
}

// StaffDependencies bundles collaborators for the staff service.
type StaffDependencies struct {
	StaffRepo   repository.StaffRepository
	ProfileRepo repository.ProfileRepository
	RosterCache *cache.RosterCache
	Logger      *zap.Logger
}

// NewStaffService constructs the service.
func NewStaffService(deps StaffDependencies) *StaffService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{
		staff:    deps.StaffRepo,
		profiles: deps.ProfileRepo,
		roster:   deps.RosterCache,
		logger:   logger,
	}
}

func requireAdmin(actor domain.Actor) error {
	if actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// Roster returns every employee and admin. A cached snapshot is served when
// available; cache failures fall back to the database.
func (s *StaffService) Roster(ctx context.Context) ([]domain.StaffMember, error) {
	roster, hit, err := s.roster.Get(ctx)
	if err != nil {
		s.logger.Warn("roster cache read failed", zap.Error(err))
	}
	if hit {
		return roster, nil
	}

	roster, err = s.staff.ListRoster(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if roster == nil {
		roster = []domain.StaffMember{}
	}
	if err := s.roster.Set(ctx, roster); err != nil {
		s.logger.Warn("roster cache write failed", zap.Error(err))
	}
	return roster, nil
}

// IsStaff reports whether userID is on the roster.
func (s *StaffService) IsStaff(ctx context.Context, userID string) (bool, error) {
	roster, err := s.Roster(ctx)
	if err != nil {
		return false, err
	}
	for _, member := range roster {
		if member.ID == userID {
			return true, nil
		}
	}
	return false, nil
}

// Role returns the user's role. Users without a role row are citizens.
func (s *StaffService) Role(ctx context.Context, userID string) (domain.Role, error) {
	role, err := s.staff.GetRole(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.RoleCitizen, nil
	}
	if err != nil {
		return "", apperrors.MapError(err)
	}
	return role, nil
}

// SetRole changes a user's role. Admin only.
func (s *StaffService) SetRole(ctx context.Context, actor domain.Actor, userID string, role domain.Role) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if !role.Valid() {
		return apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}
	if _, err := s.profiles.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}
	if err := s.staff.SetRole(ctx, domain.RoleAssignment{UserID: userID, Role: role}); err != nil {
		return apperrors.MapError(err)
	}
	if err := s.roster.Invalidate(ctx); err != nil {
		s.logger.Warn("roster cache invalidate failed", zap.Error(err))
	}
	s.logger.Info("role updated",
		zap.String("user_id", userID),
		zap.String("role", string(role)),
		zap.String("changed_by", actor.UserID))
	return nil
}
