package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/repository"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

// CommentService manages the append-only comment thread of a grievance.
type CommentService struct {
	comments   repository.CommentRepository
	grievances repository.GrievanceRepository
}

// NewCommentService constructs the service.
func NewCommentService(comments repository.CommentRepository, grievances repository.GrievanceRepository) *CommentService {
	return &CommentService{comments: comments, grievances: grievances}
}

// List returns comments oldest first.
func (s *CommentService) List(ctx context.Context, actor domain.Actor, grievanceID string) ([]domain.Comment, error) {
	if err := s.authorize(ctx, actor, grievanceID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByGrievance(ctx, grievanceID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}

// Add appends a comment.
func (s *CommentService) Add(ctx context.Context, actor domain.Actor, grievanceID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content is required", nil)
	}
	if err := s.authorize(ctx, actor, grievanceID); err != nil {
		return nil, err
	}
	comment := &domain.Comment{
		GrievanceID: grievanceID,
		UserID:      actor.UserID,
		Content:     content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return comment, nil
}

func (s *CommentService) authorize(ctx context.Context, actor domain.Actor, grievanceID string) error {
	grievance, err := s.grievances.GetByID(ctx, grievanceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("grievance", map[string]any{"grievance_id": grievanceID})
		}
		return apperrors.MapError(err)
	}
	if !actor.CanView(*grievance) {
		return apperrors.NewForbidden("access denied")
	}
	return nil
}
