package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grievance-service/internal/api/dto"
	"github.com/spec-kit/grievance-service/internal/domain"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

// Staff manages roles and the roster.
type Staff interface {
	Roster(ctx context.Context) ([]domain.StaffMember, error)
	SetRole(ctx context.Context, actor domain.Actor, userID string, role domain.Role) error
}

// AdminHandler serves the admin dashboard endpoints.
type AdminHandler struct {
	grievances Grievances
	staff      Staff
}

// NewAdminHandler constructs handler.
func NewAdminHandler(grievances Grievances, staff Staff) *AdminHandler {
	return &AdminHandler{grievances: grievances, staff: staff}
}

// List GET /admin/grievances?search=.
func (h *AdminHandler) List(c *fiber.Ctx) error {
	listings, err := h.grievances.ListAll(c.UserContext(), c.Query("search"))
	if err != nil {
		return err
	}
	items := make([]dto.GrievanceResponse, 0, len(listings))
	for _, l := range listings {
		item := dto.NewGrievanceResponse(l.Grievance)
		name := l.SubmitterName
		item.SubmitterName = &name
		item.AssigneeName = l.AssigneeName
		items = append(items, item)
	}
	return c.JSON(fiber.Map{"data": items})
}

// Stats GET /admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.grievances.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStatsResponse(stats)})
}

// Roster GET /admin/staff.
func (h *AdminHandler) Roster(c *fiber.Ctx) error {
	roster, err := h.staff.Roster(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRoster(roster)})
}

// Assign PATCH /admin/grievances/:id/assignee.
func (h *AdminHandler) Assign(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	grievance, err := h.grievances.Assign(c.UserContext(), principal.Actor(), c.Params("id"), normalizeAssignee(req.AssigneeID))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGrievanceResponse(*grievance)})
}

// AutoAssign POST /admin/grievances/:id/auto-assign.
func (h *AdminHandler) AutoAssign(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	grievance, err := h.grievances.AutoAssign(c.UserContext(), principal.Actor(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGrievanceResponse(*grievance)})
}

// BulkStatus POST /admin/grievances/bulk/status.
func (h *AdminHandler) BulkStatus(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.BulkStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.IDs) == 0 {
		return apperrors.NewValidationError("ids required", nil)
	}
	result, err := h.grievances.BulkUpdateStatus(c.UserContext(), principal.Actor(), req.IDs, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BulkResponse{Succeeded: result.Succeeded}})
}

// BulkAssign POST /admin/grievances/bulk/assign.
func (h *AdminHandler) BulkAssign(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.BulkAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.IDs) == 0 {
		return apperrors.NewValidationError("ids required", nil)
	}
	result, err := h.grievances.BulkAssign(c.UserContext(), principal.Actor(), req.IDs, normalizeAssignee(req.AssigneeID))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BulkResponse{Succeeded: result.Succeeded}})
}

// SetRole PUT /admin/users/:id/role.
func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	userID := c.Params("id")
	if err := h.staff.SetRole(c.UserContext(), principal.Actor(), userID, req.Role); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"user_id": userID, "role": req.Role}})
}

// normalizeAssignee treats an empty id as unassign.
func normalizeAssignee(id *string) *string {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	return &trimmed
}
