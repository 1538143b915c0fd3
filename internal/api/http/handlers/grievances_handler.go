package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grievance-service/internal/api/dto"
	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/service"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

// Grievances is the grievance workflow consumed by the HTTP layer.
type Grievances interface {
	Submit(ctx context.Context, actor domain.Actor, input service.SubmitInput) (*domain.Grievance, error)
	AnalyzeText(text string) (service.Analysis, error)
	ListMine(ctx context.Context, userID string) ([]domain.Grievance, error)
	ListAssigned(ctx context.Context, staffID string) ([]domain.Grievance, error)
	ListAll(ctx context.Context, search string) ([]service.GrievanceListing, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.Grievance, error)
	GetByTicketID(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Grievance, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, id string, status domain.Status) (*domain.Grievance, error)
	Assign(ctx context.Context, actor domain.Actor, id string, staffID *string) (*domain.Grievance, error)
	AutoAssign(ctx context.Context, actor domain.Actor, id string) (*domain.Grievance, error)
	BulkUpdateStatus(ctx context.Context, actor domain.Actor, ids []string, status domain.Status) (service.BulkResult, error)
	BulkAssign(ctx context.Context, actor domain.Actor, ids []string, staffID *string) (service.BulkResult, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

// Comments is the comment thread consumed by the HTTP layer.
type Comments interface {
	List(ctx context.Context, actor domain.Actor, grievanceID string) ([]domain.Comment, error)
	Add(ctx context.Context, actor domain.Actor, grievanceID, content string) (*domain.Comment, error)
}

// GrievancesHandler serves citizen and shared grievance endpoints.
type GrievancesHandler struct {
	grievances Grievances
	comments   Comments
}

// NewGrievancesHandler constructs handler.
func NewGrievancesHandler(grievances Grievances, comments Comments) *GrievancesHandler {
	return &GrievancesHandler{grievances: grievances, comments: comments}
}

// Submit POST /grievances.
func (h *GrievancesHandler) Submit(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.SubmitGrievanceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	grievance, err := h.grievances.Submit(c.UserContext(), principal.Actor(), service.SubmitInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		FileURL:     req.FileURL,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewGrievanceResponse(*grievance)})
}

// Analyze POST /grievances/analyze.
func (h *GrievancesHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	analysis, err := h.grievances.AnalyzeText(req.Text)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AnalyzeResponse{
		Sentiment: analysis.Sentiment,
		Polarity:  analysis.Polarity,
		Priority:  analysis.Priority,
	}})
}

// Mine GET /grievances/mine.
func (h *GrievancesHandler) Mine(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	items, err := h.grievances.ListMine(c.UserContext(), principal.Profile.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGrievanceList(items)})
}

// Track GET /grievances/track/:ticketId.
func (h *GrievancesHandler) Track(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	grievance, err := h.grievances.GetByTicketID(c.UserContext(), principal.Actor(), c.Params("ticketId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTrackResponse(*grievance)})
}

// Get GET /grievances/:id.
func (h *GrievancesHandler) Get(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	grievance, err := h.grievances.Get(c.UserContext(), principal.Actor(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGrievanceResponse(*grievance)})
}

// ListComments GET /grievances/:id/comments.
func (h *GrievancesHandler) ListComments(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	comments, err := h.comments.List(c.UserContext(), principal.Actor(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		items = append(items, dto.NewCommentResponse(comment))
	}
	return c.JSON(fiber.Map{"data": items})
}

// AddComment POST /grievances/:id/comments.
func (h *GrievancesHandler) AddComment(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Content) == "" {
		return apperrors.NewValidationError("content required", nil)
	}
	comment, err := h.comments.Add(c.UserContext(), principal.Actor(), c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCommentResponse(*comment)})
}

func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Profile == nil {
		return nil, apperrors.NewUnauthorized("user required")
	}
	return principal, nil
}
