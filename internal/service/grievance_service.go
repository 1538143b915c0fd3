package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/cache"
	"github.com/spec-kit/grievance-service/internal/config"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
	"github.com/spec-kit/grievance-service/internal/observability"
	"github.com/spec-kit/grievance-service/internal/repository"
	"github.com/spec-kit/grievance-service/internal/triage"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

// GrievanceService coordinates grievance workflows.
type GrievanceService struct {
	grievances repository.GrievanceRepository
	profiles   repository.ProfileRepository
	history    repository.GrievanceHistoryRepository
	staff      *StaffService
	names      *cache.ProfileCache
	scorer     *triage.Scorer
	ids        *triage.Generator
	assigner   *triage.Assigner
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.GrievanceConfig
}

// GrievanceDependencies bundles collaborators for the grievance service.
type GrievanceDependencies struct {
	GrievanceRepo repository.GrievanceRepository
	ProfileRepo   repository.ProfileRepository
	HistoryRepo   repository.GrievanceHistoryRepository
	Staff         *StaffService
	ProfileCache  *cache.ProfileCache
	Scorer        *triage.Scorer
	IDs           *triage.Generator
	Assigner      *triage.Assigner
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	Config        config.GrievanceConfig
}

// SubmitInput describes a new grievance.
type SubmitInput struct {
	Title       string
	Description string
	Category    domain.Category
	FileURL     *string
}

// Analysis previews the derived sentiment and priority for a description.
type Analysis struct {
	Sentiment domain.Sentiment
	Polarity  float64
	Priority  domain.Priority
}

// GrievanceListing is a grievance with resolved display names.
type GrievanceListing struct {
	Grievance     domain.Grievance
	SubmitterName string
	AssigneeName  *string
}

// NewGrievanceService constructs the service.
func NewGrievanceService(deps GrievanceDependencies) *GrievanceService {
	svc := &GrievanceService{
		grievances: deps.GrievanceRepo,
		profiles:   deps.ProfileRepo,
		history:    deps.HistoryRepo,
		staff:      deps.Staff,
		names:      deps.ProfileCache,
		scorer:     deps.Scorer,
		ids:        deps.IDs,
		assigner:   deps.Assigner,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		cfg:        deps.Config,
	}
	if svc.scorer == nil {
		svc.scorer = triage.DefaultScorer()
	}
	if svc.ids == nil {
		svc.ids = triage.NewDefaultGenerator()
	}
	if svc.assigner == nil {
		svc.assigner = triage.NewDefaultAssigner()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.cfg.TicketIDAttempts <= 0 {
		svc.cfg.TicketIDAttempts = 1
	}
	if svc.cfg.BulkConcurrency <= 0 {
		svc.cfg.BulkConcurrency = 1
	}
	return svc
}

// Submit validates and files a grievance on behalf of actor. Sentiment,
// priority and ticket id are derived here and never taken from the caller.
func (s *GrievanceService) Submit(ctx context.Context, actor domain.Actor, input SubmitInput) (*domain.Grievance, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)

	problems := map[string]any{}
	if title == "" {
		problems["title"] = "title is required"
	}
	if !input.Category.Valid() {
		problems["category"] = "unknown category"
	}
	if description == "" {
		problems["description"] = "description is required"
	} else if utf8.RuneCountInString(description) < s.cfg.MinDescriptionLength {
		problems["description"] = "description is too short"
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidationError("invalid grievance", problems)
	}

	score, priority := s.scorer.Derive(description)
	grievance := &domain.Grievance{
		UserID:      actor.UserID,
		Category:    input.Category,
		Title:       title,
		Description: description,
		Sentiment:   score.Label,
		Priority:    priority,
		Status:      domain.StatusPending,
		FileURL:     input.FileURL,
	}

	for attempt := 1; ; attempt++ {
		grievance.TicketID = s.ids.Generate()
		err := s.grievances.Create(ctx, grievance)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicateTicketID) {
			return nil, apperrors.MapError(err)
		}
		observability.TicketIDCollisions.Inc()
		s.logger.Warn("ticket id collision", zap.String("ticket_id", grievance.TicketID), zap.Int("attempt", attempt))
		if attempt >= s.cfg.TicketIDAttempts {
			return nil, apperrors.NewConflict("could not allocate a unique ticket id", map[string]any{"attempts": attempt})
		}
	}

	observability.GrievancesSubmitted.WithLabelValues(string(grievance.Priority)).Inc()
	s.publishEvent(ctx, events.Event{
		Type:        events.EventGrievanceCreated,
		GrievanceID: grievance.ID,
		Actor:       actor,
		Payload: events.GrievanceCreatedPayload{
			TicketID:  grievance.TicketID,
			Category:  grievance.Category,
			Sentiment: grievance.Sentiment,
			Priority:  grievance.Priority,
		},
	})
	return grievance, nil
}

// AnalyzeText previews sentiment and priority without persisting anything.
func (s *GrievanceService) AnalyzeText(text string) (Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return Analysis{}, apperrors.NewValidationError("text is required", nil)
	}
	score, priority := s.scorer.Derive(text)
	return Analysis{Sentiment: score.Label, Polarity: score.Polarity, Priority: priority}, nil
}

// ListMine returns the caller's grievances, newest first.
func (s *GrievanceService) ListMine(ctx context.Context, userID string) ([]domain.Grievance, error) {
	return s.list(ctx, repository.GrievanceFilter{UserID: &userID})
}

// ListAssigned returns grievances assigned to staffID, newest first.
func (s *GrievanceService) ListAssigned(ctx context.Context, staffID string) ([]domain.Grievance, error) {
	return s.list(ctx, repository.GrievanceFilter{AssignedTo: &staffID})
}

// ListAll returns every grievance with display names, filtered by a
// case-insensitive search over title, ticket id and submitter name.
func (s *GrievanceService) ListAll(ctx context.Context, search string) ([]GrievanceListing, error) {
	grievances, err := s.list(ctx, repository.GrievanceFilter{})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(grievances)*2)
	for _, g := range grievances {
		ids = append(ids, g.UserID)
		if g.AssignedTo != nil {
			ids = append(ids, *g.AssignedTo)
		}
	}
	profiles, err := s.resolveProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	listings := make([]GrievanceListing, 0, len(grievances))
	for _, g := range grievances {
		listing := GrievanceListing{Grievance: g}
		if p, ok := profiles[g.UserID]; ok {
			listing.SubmitterName = p.DisplayName()
		}
		if g.AssignedTo != nil {
			if p, ok := profiles[*g.AssignedTo]; ok {
				name := p.DisplayName()
				listing.AssigneeName = &name
			}
		}
		if needle != "" && !matchesSearch(listing, needle) {
			continue
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

func matchesSearch(l GrievanceListing, needle string) bool {
	return strings.Contains(strings.ToLower(l.Grievance.Title), needle) ||
		strings.Contains(strings.ToLower(l.Grievance.TicketID), needle) ||
		strings.Contains(strings.ToLower(l.SubmitterName), needle)
}

// Get fetches a grievance the actor may view.
func (s *GrievanceService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Grievance, error) {
	grievance, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanView(*grievance) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return grievance, nil
}

// GetByTicketID looks a grievance up by its public ticket id.
func (s *GrievanceService) GetByTicketID(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Grievance, error) {
	ticketID = strings.ToUpper(strings.TrimSpace(ticketID))
	if !triage.ValidTicketID(ticketID) {
		return nil, apperrors.NewValidationError("malformed ticket id", map[string]any{"ticket_id": ticketID})
	}
	grievance, err := s.grievances.GetByTicketID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("grievance", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !actor.CanView(*grievance) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return grievance, nil
}

// UpdateStatus moves a grievance to any valid status. Employees may only
// update grievances assigned to them.
func (s *GrievanceService) UpdateStatus(ctx context.Context, actor domain.Actor, id string, status domain.Status) (*domain.Grievance, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}
	if !actor.Role.IsStaff() {
		return nil, apperrors.NewForbidden("staff role required")
	}
	grievance, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && (grievance.AssignedTo == nil || *grievance.AssignedTo != actor.UserID) {
		return nil, apperrors.NewForbidden("grievance is not assigned to you")
	}

	oldStatus := grievance.Status
	grievance, err = s.grievances.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordHistory(ctx, actor, grievance.ID, domain.ChangeTypeStatus,
		map[string]any{"status": oldStatus},
		map[string]any{"status": status})
	s.publishEvent(ctx, events.Event{
		Type:        events.EventGrievanceStatusChanged,
		GrievanceID: grievance.ID,
		Actor:       actor,
		Payload: events.GrievanceStatusChangedPayload{
			Grievance: *grievance,
			OldStatus: oldStatus,
			NewStatus: status,
		},
	})
	return grievance, nil
}

// Stats aggregates counts across all grievances.
func (s *GrievanceService) Stats(ctx context.Context) (domain.Stats, error) {
	grievances, err := s.list(ctx, repository.GrievanceFilter{})
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.ComputeStats(grievances), nil
}

func (s *GrievanceService) list(ctx context.Context, filter repository.GrievanceFilter) ([]domain.Grievance, error) {
	grievances, err := s.grievances.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if grievances == nil {
		grievances = []domain.Grievance{}
	}
	return grievances, nil
}

func (s *GrievanceService) load(ctx context.Context, id string) (*domain.Grievance, error) {
	grievance, err := s.grievances.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("grievance", map[string]any{"grievance_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return grievance, nil
}

func (s *GrievanceService) resolveProfiles(ctx context.Context, ids []string) (map[string]domain.Profile, error) {
	if s.names == nil {
		profiles, err := s.profiles.ListByIDs(ctx, ids)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		out := make(map[string]domain.Profile, len(profiles))
		for _, p := range profiles {
			out[p.ID] = p
		}
		return out, nil
	}
	profiles, err := s.names.Resolve(ctx, ids, s.profiles.ListByIDs)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return profiles, nil
}

func (s *GrievanceService) recordHistory(ctx context.Context, actor domain.Actor, grievanceID string, change domain.ChangeType, oldValue, newValue map[string]any) {
	if s.history == nil {
		return
	}
	changedBy := actor.UserID
	entry := &domain.GrievanceHistory{
		GrievanceID: grievanceID,
		ChangedByID: &changedBy,
		ChangeType:  change,
		OldValue:    oldValue,
		NewValue:    newValue,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record grievance history",
			zap.String("grievance_id", grievanceID),
			zap.String("change_type", string(change)),
			zap.Error(err))
	}
}

func (s *GrievanceService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
