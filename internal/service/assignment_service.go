package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
	"github.com/spec-kit/grievance-service/internal/observability"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

var errNoStaffService = errors.New("staff service not configured")

// BulkResult reports the outcome of a bulk operation per grievance id.
type BulkResult struct {
	Succeeded []string
	Failed    map[string]error
}

// Assign sets or clears the assignee of a grievance. Admin only. A nil
// staffID unassigns.
func (s *GrievanceService) Assign(ctx context.Context, actor domain.Actor, id string, staffID *string) (*domain.Grievance, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, staffID); err != nil {
		return nil, err
	}
	return s.applyAssignment(ctx, actor, id, staffID)
}

func (s *GrievanceService) checkAssignee(ctx context.Context, staffID *string) error {
	if staffID == nil {
		return nil
	}
	if s.staff == nil {
		return apperrors.NewInternalError(errNoStaffService)
	}
	ok, err := s.staff.IsStaff(ctx, *staffID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewValidationError("assignee is not a staff member", map[string]any{"staff_id": *staffID})
	}
	return nil
}

func (s *GrievanceService) applyAssignment(ctx context.Context, actor domain.Actor, id string, staffID *string) (*domain.Grievance, error) {
	grievance, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := grievance.AssignedTo
	grievance, err = s.grievances.UpdateAssignee(ctx, id, staffID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordHistory(ctx, actor, grievance.ID, domain.ChangeTypeAssignee,
		map[string]any{"assigned_to": previous},
		map[string]any{"assigned_to": staffID})
	s.publishEvent(ctx, events.Event{
		Type:        events.EventGrievanceAssigned,
		GrievanceID: grievance.ID,
		Actor:       actor,
		Payload: events.GrievanceAssignedPayload{
			Grievance:  *grievance,
			AssigneeID: staffID,
			Previous:   previous,
		},
	})
	return grievance, nil
}

// AutoAssign picks an assignee from the current roster and assigns it.
// An empty pool is reported as NO_ELIGIBLE_ASSIGNEE.
func (s *GrievanceService) AutoAssign(ctx context.Context, actor domain.Actor, id string) (*domain.Grievance, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if s.staff == nil {
		return nil, apperrors.NewInternalError(errNoStaffService)
	}
	grievance, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	roster, err := s.staff.Roster(ctx)
	if err != nil {
		return nil, err
	}

	staffID, ok := s.assigner.SelectAssignee(grievance.Category, grievance.Priority, roster)
	if !ok {
		observability.AutoAssignOutcomes.WithLabelValues("no_eligible").Inc()
		return nil, apperrors.NewNoEligibleAssignee(map[string]any{
			"grievance_id": id,
			"priority":     grievance.Priority,
		})
	}
	observability.AutoAssignOutcomes.WithLabelValues("assigned").Inc()
	s.logger.Info("auto-assigned grievance",
		zap.String("grievance_id", id),
		zap.String("assignee", staffID),
		zap.String("priority", string(grievance.Priority)))
	return s.applyAssignment(ctx, actor, id, &staffID)
}

// BulkUpdateStatus applies UpdateStatus to each id independently. Items that
// succeed stay applied when others fail. A batch with no successes returns
// the shared failure code instead of a partial result.
func (s *GrievanceService) BulkUpdateStatus(ctx context.Context, actor domain.Actor, ids []string, status domain.Status) (BulkResult, error) {
	if err := requireAdmin(actor); err != nil {
		return BulkResult{}, err
	}
	if !status.Valid() {
		return BulkResult{}, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}
	return s.runBulk(ctx, "status", ids, func(ctx context.Context, id string) error {
		_, err := s.UpdateStatus(ctx, actor, id, status)
		return err
	})
}

// BulkAssign applies Assign to each id independently.
func (s *GrievanceService) BulkAssign(ctx context.Context, actor domain.Actor, ids []string, staffID *string) (BulkResult, error) {
	if err := requireAdmin(actor); err != nil {
		return BulkResult{}, err
	}
	if err := s.checkAssignee(ctx, staffID); err != nil {
		return BulkResult{}, err
	}
	return s.runBulk(ctx, "assign", ids, func(ctx context.Context, id string) error {
		_, err := s.applyAssignment(ctx, actor, id, staffID)
		return err
	})
}

func (s *GrievanceService) runBulk(ctx context.Context, operation string, ids []string, apply func(context.Context, string) error) (BulkResult, error) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return BulkResult{}, apperrors.NewValidationError("no grievances selected", nil)
	}

	outcomes := make([]error, len(unique))
	var g errgroup.Group
	g.SetLimit(s.cfg.BulkConcurrency)
	for i, id := range unique {
		g.Go(func() error {
			outcomes[i] = apply(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	result := BulkResult{Succeeded: []string{}, Failed: map[string]error{}}
	for i, id := range unique {
		if outcomes[i] != nil {
			result.Failed[id] = outcomes[i]
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	if len(result.Failed) == 0 {
		return result, nil
	}

	observability.BulkItemFailures.WithLabelValues(operation).Add(float64(len(result.Failed)))
	if len(result.Succeeded) == 0 {
		s.logger.Warn("bulk operation failed", zap.String("operation", operation), zap.Int("failed", len(result.Failed)))
		return result, apperrors.NewBulkFailure(result.Failed)
	}
	messages := make(map[string]string, len(result.Failed))
	for id, err := range result.Failed {
		messages[id] = apperrors.ToDomainError(err).Message
	}
	s.logger.Warn("bulk operation partially failed",
		zap.String("operation", operation),
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)))
	return result, apperrors.NewBulkPartialFailure(len(result.Succeeded), messages)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
