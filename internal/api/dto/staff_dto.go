package dto

import "github.com/spec-kit/grievance-service/internal/domain"

// StaffMemberResponse is a roster entry.
type StaffMemberResponse struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Name        *string     `json:"name"`
	DisplayName string      `json:"display_name"`
	Role        domain.Role `json:"role"`
}

// SetRoleRequest payload.
type SetRoleRequest struct {
	Role domain.Role `json:"role"`
}

// NewRoster maps roster entries.
func NewRoster(members []domain.StaffMember) []StaffMemberResponse {
	out := make([]StaffMemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, StaffMemberResponse{
			ID:          m.ID,
			Email:       m.Email,
			Name:        m.Name,
			DisplayName: m.DisplayName(),
			Role:        m.Role,
		})
	}
	return out
}
