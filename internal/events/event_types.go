package events

import (
	"time"

	"github.com/heardesk/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated         EventType = "complaint_created"
	EventComplaintStatusChanged   EventType = "complaint_status_changed"
	EventComplaintPriorityChanged EventType = "complaint_priority_changed"
	EventComplaintAssigned        EventType = "complaint_assigned"
	EventComplaintDeleted         EventType = "complaint_deleted"
)

// AllComplaintEvents lists every complaint event type, for subscribers that
// react to any change in the store.
func AllComplaintEvents() []EventType {
	return []EventType{
		EventComplaintCreated,
		EventComplaintStatusChanged,
		EventComplaintPriorityChanged,
		EventComplaintAssigned,
		EventComplaintDeleted,
	}
}

// Actor identifies who caused an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	OwnerID     string      `json:"owner_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload,omitempty"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	Title    string                   `json:"title"`
	Category domain.ComplaintCategory `json:"category"`
	Priority domain.ComplaintPriority `json:"priority"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
	Note      *string                `json:"note,omitempty"`
}

// ComplaintPriorityChangedPayload payload.
type ComplaintPriorityChangedPayload struct {
	OldPriority domain.ComplaintPriority `json:"old_priority"`
	NewPriority domain.ComplaintPriority `json:"new_priority"`
}

// ComplaintAssignedPayload payload.
type ComplaintAssignedPayload struct {
	AssignedTo string `json:"assigned_to"`
}
