package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/cache"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
	"github.com/spec-kit/grievance-service/internal/notify"
	"github.com/spec-kit/grievance-service/internal/observability"
	"github.com/spec-kit/grievance-service/internal/repository"
	"github.com/spec-kit/grievance-service/internal/worker"
)

// NotificationService turns grievance events into emails. Delivery runs on
// the worker pool; failures are logged and counted, never retried.
type NotificationService struct {
	dispatcher events.Dispatcher
	pool       *worker.Pool
	sender     notify.Sender
	profiles   repository.ProfileRepository
	names      *cache.ProfileCache
	logger     *zap.Logger
}

// NotificationDependencies bundles collaborators for notifications.
type NotificationDependencies struct {
	Dispatcher   events.Dispatcher
	Pool         *worker.Pool
	Sender       notify.Sender
	ProfileRepo  repository.ProfileRepository
	ProfileCache *cache.ProfileCache
	Logger       *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		pool:       deps.Pool,
		sender:     deps.Sender,
		profiles:   deps.ProfileRepo,
		names:      deps.ProfileCache,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventGrievanceCreated, n.handleGrievanceCreated)
	n.dispatcher.Subscribe(events.EventGrievanceStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventGrievanceAssigned, n.handleAssigned)
}

func (n *NotificationService) handleGrievanceCreated(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.GrievanceCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("grievance submitted",
		zap.String("grievance_id", event.GrievanceID),
		zap.String("ticket_id", payload.TicketID),
		zap.String("priority", string(payload.Priority)))
	return nil
}

func (n *NotificationService) handleStatusChanged(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.GrievanceStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	g := payload.Grievance
	n.enqueue(notify.TypeStatusChange, g.ID, func(ctx context.Context) (notify.Payload, error) {
		owner, err := n.profile(ctx, g.UserID)
		if err != nil {
			return notify.Payload{}, err
		}
		return notify.Payload{
			Type:           notify.TypeStatusChange,
			GrievanceID:    g.ID,
			GrievanceTitle: g.Title,
			TicketID:       g.TicketID,
			RecipientEmail: owner.Email,
			RecipientName:  owner.Name,
			OldStatus:      payload.OldStatus,
			NewStatus:      payload.NewStatus,
		}, nil
	})
	return nil
}

func (n *NotificationService) handleAssigned(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.GrievanceAssignedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	if payload.AssigneeID == nil {
		return nil
	}
	g := payload.Grievance
	assigneeID := *payload.AssigneeID
	actorID := event.Actor.UserID
	n.enqueue(notify.TypeAssignment, g.ID, func(ctx context.Context) (notify.Payload, error) {
		assignee, err := n.profile(ctx, assigneeID)
		if err != nil {
			return notify.Payload{}, err
		}
		p := notify.Payload{
			Type:           notify.TypeAssignment,
			GrievanceID:    g.ID,
			GrievanceTitle: g.Title,
			TicketID:       g.TicketID,
			RecipientEmail: assignee.Email,
			RecipientName:  assignee.Name,
		}
		if actor, err := n.profile(ctx, actorID); err == nil {
			name := actor.DisplayName()
			p.AssignedByName = &name
		}
		return p, nil
	})
	return nil
}

// enqueue hands the delivery to the pool and returns immediately.
func (n *NotificationService) enqueue(kind notify.Type, grievanceID string, build func(context.Context) (notify.Payload, error)) {
	if n.pool == nil || n.sender == nil {
		return
	}
	err := n.pool.Submit(worker.Job{
		Name: "notify:" + string(kind),
		Run: func(ctx context.Context) error {
			payload, err := build(ctx)
			if err != nil {
				observability.NotificationsTotal.WithLabelValues(string(kind), "failed").Inc()
				return fmt.Errorf("build %s notification for %s: %w", kind, grievanceID, err)
			}
			return n.Deliver(ctx, payload)
		},
	})
	if err != nil {
		observability.NotificationsDropped.Inc()
		n.logger.Warn("notification dropped",
			zap.String("type", string(kind)),
			zap.String("grievance_id", grievanceID),
			zap.Error(err))
	}
}

// Deliver renders and sends one notification.
func (n *NotificationService) Deliver(ctx context.Context, payload notify.Payload) error {
	kind := string(payload.Type)
	if payload.RecipientEmail == "" {
		observability.NotificationsTotal.WithLabelValues(kind, "skipped").Inc()
		return errors.New("recipient has no email")
	}
	email, err := notify.Render(payload)
	if err != nil {
		observability.NotificationsTotal.WithLabelValues(kind, "failed").Inc()
		return err
	}
	if err := n.sender.Send(ctx, email); err != nil {
		observability.NotificationsTotal.WithLabelValues(kind, "failed").Inc()
		return err
	}
	observability.NotificationsTotal.WithLabelValues(kind, "sent").Inc()
	n.logger.Info("notification sent",
		zap.String("type", kind),
		zap.String("ticket_id", payload.TicketID),
		zap.String("recipient", payload.RecipientEmail))
	return nil
}

func (n *NotificationService) profile(ctx context.Context, id string) (domain.Profile, error) {
	if n.names != nil {
		found, err := n.names.Resolve(ctx, []string{id}, n.profiles.ListByIDs)
		if err != nil {
			return domain.Profile{}, err
		}
		if p, ok := found[id]; ok {
			return p, nil
		}
		return domain.Profile{}, fmt.Errorf("profile %s not found", id)
	}
	p, err := n.profiles.GetByID(ctx, id)
	if err != nil {
		return domain.Profile{}, err
	}
	return *p, nil
}
