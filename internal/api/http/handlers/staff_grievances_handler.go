package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grievance-service/internal/api/dto"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

// StaffGrievancesHandler serves the employee work queue.
type StaffGrievancesHandler struct {
	grievances Grievances
}

// NewStaffGrievancesHandler constructs handler.
func NewStaffGrievancesHandler(grievances Grievances) *StaffGrievancesHandler {
	return &StaffGrievancesHandler{grievances: grievances}
}

// Assigned GET /staff/grievances/assigned.
func (h *StaffGrievancesHandler) Assigned(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	items, err := h.grievances.ListAssigned(c.UserContext(), principal.Profile.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGrievanceList(items)})
}

// UpdateStatus PATCH /staff/grievances/:id/status.
func (h *StaffGrievancesHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	grievance, err := h.grievances.UpdateStatus(c.UserContext(), principal.Actor(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGrievanceResponse(*grievance)})
}
