package domain

import "time"

// Category enumerates the fixed grievance categories.
type Category string

const (
	CategoryIT             Category = "IT"
	CategoryHR             Category = "HR"
	CategoryInfrastructure Category = "Infrastructure"
	CategoryAcademic       Category = "Academic"
	CategoryFinance        Category = "Finance"
	CategoryAdministration Category = "Administration"
	CategoryOther          Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryIT,
	CategoryHR,
	CategoryInfrastructure,
	CategoryAcademic,
	CategoryFinance,
	CategoryAdministration,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Sentiment is the coarse polarity classification of grievance text.
type Sentiment string

const (
	SentimentHighlyNegative Sentiment = "highly_negative"
	SentimentNegative       Sentiment = "negative"
	SentimentNeutral        Sentiment = "neutral"
	SentimentPositive       Sentiment = "positive"
)

// Sentiments lists every sentiment label.
var Sentiments = []Sentiment{
	SentimentHighlyNegative,
	SentimentNegative,
	SentimentNeutral,
	SentimentPositive,
}

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentHighlyNegative, SentimentNegative, SentimentNeutral, SentimentPositive:
		return true
	}
	return false
}

// Priority enumerates grievance urgency.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority level.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Status enumerates lifecycle states for grievances.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Statuses lists every status.
var Statuses = []Status{StatusPending, StatusInProgress, StatusResolved, StatusClosed}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Grievance is the aggregate for a submitted complaint.
type Grievance struct {
	ID          string
	TicketID    string
	UserID      string
	Category    Category
	Title       string
	Description string
	Sentiment   Sentiment
	Priority    Priority
	Status      Status
	AssignedTo  *string
	FileURL     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
