package dto

import (
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// SubmitGrievanceRequest payload.
type SubmitGrievanceRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    domain.Category `json:"category"`
	FileURL     *string         `json:"file_url"`
}

// AnalyzeRequest payload for the sentiment preview.
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// AnalyzeResponse previews derived fields.
type AnalyzeResponse struct {
	Sentiment domain.Sentiment `json:"sentiment"`
	Polarity  float64          `json:"polarity"`
	Priority  domain.Priority  `json:"priority"`
}

// GrievanceResponse is the full grievance view.
type GrievanceResponse struct {
	ID            string           `json:"id"`
	TicketID      string           `json:"ticket_id"`
	UserID        string           `json:"user_id"`
	Category      domain.Category  `json:"category"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Sentiment     domain.Sentiment `json:"sentiment"`
	Priority      domain.Priority  `json:"priority"`
	Status        domain.Status    `json:"status"`
	AssignedTo    *string          `json:"assigned_to"`
	FileURL       *string          `json:"file_url"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	SubmitterName *string          `json:"submitter_name,omitempty"`
	AssigneeName  *string          `json:"assignee_name,omitempty"`
}

// TrackResponse is what a citizen sees when tracking by ticket id.
type TrackResponse struct {
	TicketID  string          `json:"ticket_id"`
	Title     string          `json:"title"`
	Category  domain.Category `json:"category"`
	Priority  domain.Priority `json:"priority"`
	Status    domain.Status   `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.Status `json:"status"`
}

// AssignRequest payload. A null assignee_id unassigns.
type AssignRequest struct {
	AssigneeID *string `json:"assignee_id"`
}

// BulkStatusRequest payload.
type BulkStatusRequest struct {
	IDs    []string      `json:"ids"`
	Status domain.Status `json:"status"`
}

// BulkAssignRequest payload.
type BulkAssignRequest struct {
	IDs        []string `json:"ids"`
	AssigneeID *string  `json:"assignee_id"`
}

// BulkResponse reports which ids were updated.
type BulkResponse struct {
	Succeeded []string `json:"succeeded"`
}

// CommentRequest payload.
type CommentRequest struct {
	Content string `json:"content"`
}

// CommentResponse is one thread entry.
type CommentResponse struct {
	ID          string    `json:"id"`
	GrievanceID string    `json:"grievance_id"`
	UserID      string    `json:"user_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// AttachmentResponse returns the stored file location.
type AttachmentResponse struct {
	FileURL string `json:"file_url"`
}

// StatsResponse aggregates dashboard counts.
type StatsResponse struct {
	Total       int                      `json:"total"`
	ByStatus    map[domain.Status]int    `json:"by_status"`
	ByPriority  map[domain.Priority]int  `json:"by_priority"`
	ByCategory  map[domain.Category]int  `json:"by_category"`
	BySentiment map[domain.Sentiment]int `json:"by_sentiment"`
}

// NewGrievanceResponse maps a grievance.
func NewGrievanceResponse(g domain.Grievance) GrievanceResponse {
	return GrievanceResponse{
		ID:          g.ID,
		TicketID:    g.TicketID,
		UserID:      g.UserID,
		Category:    g.Category,
		Title:       g.Title,
		Description: g.Description,
		Sentiment:   g.Sentiment,
		Priority:    g.Priority,
		Status:      g.Status,
		AssignedTo:  g.AssignedTo,
		FileURL:     g.FileURL,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// NewGrievanceList maps a slice, never returning nil.
func NewGrievanceList(items []domain.Grievance) []GrievanceResponse {
	out := make([]GrievanceResponse, 0, len(items))
	for _, g := range items {
		out = append(out, NewGrievanceResponse(g))
	}
	return out
}

// NewTrackResponse maps a grievance to its tracking view.
func NewTrackResponse(g domain.Grievance) TrackResponse {
	return TrackResponse{
		TicketID:  g.TicketID,
		Title:     g.Title,
		Category:  g.Category,
		Priority:  g.Priority,
		Status:    g.Status,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// NewCommentResponse maps a comment.
func NewCommentResponse(c domain.Comment) CommentResponse {
	return CommentResponse{
		ID:          c.ID,
		GrievanceID: c.GrievanceID,
		UserID:      c.UserID,
		Content:     c.Content,
		CreatedAt:   c.CreatedAt,
	}
}

// NewStatsResponse maps dashboard counts.
func NewStatsResponse(s domain.Stats) StatsResponse {
	return StatsResponse{
		Total:       s.Total,
		ByStatus:    s.ByStatus,
		ByPriority:  s.ByPriority,
		ByCategory:  s.ByCategory,
		BySentiment: s.BySentiment,
	}
}
