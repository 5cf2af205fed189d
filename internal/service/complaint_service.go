package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heardesk/complaint-service/internal/domain"
	"github.com/heardesk/complaint-service/internal/events"
	"github.com/heardesk/complaint-service/internal/query"
	"github.com/heardesk/complaint-service/internal/repository"
	apperrors "github.com/heardesk/complaint-service/pkg/util"
)

// Identity is the caller's session context, threaded into every operation so
// role gating stays testable without a live backend.
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  domain.Role
}

// IsAdmin reports the administrator role.
func (id Identity) IsAdmin() bool {
	return id.Role == domain.RoleAdmin
}

// ComplaintService is the mutation and read API over the complaint store.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	dispatcher events.Dispatcher
	roleGated  bool
}

// ComplaintDependencies bundles requirements for the service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	Dispatcher    events.Dispatcher
	// RoleGated enables administrator-only mutation checks. The remote
	// deployment sets it; the local single-user deployment does not.
	RoleGated bool
}

// CreateComplaintInput describes complaint creation payload.
type CreateComplaintInput struct {
	Title         string
	Description   string
	Category      domain.ComplaintCategory
	Priority      domain.ComplaintPriority
	SubmitterName string
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		dispatcher: deps.Dispatcher,
		roleGated:  deps.RoleGated,
	}
}

// Create validates the payload per field, then persists a new complaint with
// status submitted and both timestamps set by the store.
func (s *ComplaintService) Create(ctx context.Context, identity Identity, input CreateComplaintInput) (*domain.Complaint, error) {
	if identity.ID == "" {
		return nil, apperrors.NewUnauthorized("authentication required")
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	submitterName := strings.TrimSpace(input.SubmitterName)
	if submitterName == "" {
		submitterName = identity.Name
	}

	fields := map[string]any{}
	if input.Title == "" {
		fields["title"] = "title is required"
	}
	if input.Description == "" {
		fields["description"] = "description is required"
	}
	if !domain.ValidCategory(input.Category) {
		fields["category"] = "category must be one of the supported set"
	}
	if submitterName == "" {
		fields["submitterName"] = "submitter name is required"
	}
	if input.Priority != "" && !domain.ValidPriority(input.Priority) {
		fields["priority"] = "priority must be low, medium or high"
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError("invalid complaint", fields)
	}

	complaint := &domain.Complaint{
		Title:          input.Title,
		Description:    input.Description,
		Status:         domain.ComplaintStatusSubmitted,
		Category:       input.Category,
		Priority:       input.Priority,
		SubmittedBy:    identity.ID,
		SubmitterName:  submitterName,
		SubmitterEmail: identity.Email,
	}
	if complaint.Priority == "" {
		complaint.Priority = domain.ComplaintPriorityMedium
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		OwnerID:     complaint.SubmittedBy,
		Actor:       actorFor(identity),
		Payload: events.ComplaintCreatedPayload{
			Title:    complaint.Title,
			Category: complaint.Category,
			Priority: complaint.Priority,
		},
	})
	return complaint, nil
}

// ListVisible returns the caller's visibility scope: the full store for
// administrators, own records otherwise.
func (s *ComplaintService) ListVisible(ctx context.Context, identity Identity) ([]domain.Complaint, error) {
	if identity.IsAdmin() {
		return s.complaints.ListAll(ctx)
	}
	return s.complaints.ListByOwner(ctx, identity.ID)
}

// Get fetches a single complaint, enforcing visibility.
func (s *ComplaintService) Get(ctx context.Context, identity Identity, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !identity.IsAdmin() && complaint.SubmittedBy != identity.ID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return complaint, nil
}

// Stats computes aggregate counts over the caller-visible snapshot.
func (s *ComplaintService) Stats(ctx context.Context, identity Identity) (query.Stats, error) {
	records, err := s.ListVisible(ctx, identity)
	if err != nil {
		return query.Stats{}, apperrors.MapError(err)
	}
	return query.Compute(records, time.Now()), nil
}

// UpdateStatus changes a complaint's status; an optional note replaces the
// administrator annotation.
func (s *ComplaintService) UpdateStatus(ctx context.Context, identity Identity, id string, newStatus domain.ComplaintStatus, note *string) (*domain.Complaint, error) {
	if err := s.requireMutator(identity); err != nil {
		return nil, err
	}
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": "unknown status value"})
	}
	if note != nil {
		trimmed := strings.TrimSpace(*note)
		if trimmed == "" {
			note = nil
		} else {
			note = &trimmed
		}
	}

	before, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	complaint, err := s.complaints.UpdateStatus(ctx, id, domain.StatusPatch{Status: newStatus, Note: note})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaint.ID,
		OwnerID:     complaint.SubmittedBy,
		Actor:       actorFor(identity),
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: before.Status,
			NewStatus: complaint.Status,
			Note:      note,
		},
	})
	return complaint, nil
}

// UpdatePriority changes a complaint's priority.
func (s *ComplaintService) UpdatePriority(ctx context.Context, identity Identity, id string, newPriority domain.ComplaintPriority) (*domain.Complaint, error) {
	if err := s.requireMutator(identity); err != nil {
		return nil, err
	}
	if !domain.ValidPriority(newPriority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": "unknown priority value"})
	}

	before, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	complaint, err := s.complaints.UpdatePriority(ctx, id, domain.PriorityPatch{Priority: newPriority})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintPriorityChanged,
		ComplaintID: complaint.ID,
		OwnerID:     complaint.SubmittedBy,
		Actor:       actorFor(identity),
		Payload: events.ComplaintPriorityChangedPayload{
			OldPriority: before.Priority,
			NewPriority: complaint.Priority,
		},
	})
	return complaint, nil
}

// Assign sets the complaint's assignee.
func (s *ComplaintService) Assign(ctx context.Context, identity Identity, id, assignee string) (*domain.Complaint, error) {
	if err := s.requireMutator(identity); err != nil {
		return nil, err
	}
	assignee = strings.TrimSpace(assignee)
	if assignee == "" {
		return nil, apperrors.NewValidationError("invalid assignee", map[string]any{"assignedTo": "assignee is required"})
	}

	complaint, err := s.complaints.Assign(ctx, id, domain.AssignmentPatch{AssignedTo: assignee})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintAssigned,
		ComplaintID: complaint.ID,
		OwnerID:     complaint.SubmittedBy,
		Actor:       actorFor(identity),
		Payload:     events.ComplaintAssignedPayload{AssignedTo: assignee},
	})
	return complaint, nil
}

// Delete removes a complaint from the store.
func (s *ComplaintService) Delete(ctx context.Context, identity Identity, id string) error {
	if err := s.requireMutator(identity); err != nil {
		return err
	}
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := s.complaints.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintDeleted,
		ComplaintID: complaint.ID,
		OwnerID:     complaint.SubmittedBy,
		Actor:       actorFor(identity),
	})
	return nil
}

// requireMutator runs the permission check synchronously before any I/O, so
// an unauthorized caller causes no partial side effect.
func (s *ComplaintService) requireMutator(identity Identity) error {
	if !s.roleGated {
		return nil
	}
	if !identity.IsAdmin() {
		return apperrors.NewForbidden("administrator role required")
	}
	return nil
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
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

func actorFor(identity Identity) events.Actor {
	return events.Actor{UserID: identity.ID, Role: identity.Role}
}
