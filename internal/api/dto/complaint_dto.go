package dto

import (
	"time"

	"github.com/heardesk/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Title         string                   `json:"title"`
	Description   string                   `json:"description"`
	Category      domain.ComplaintCategory `json:"category"`
	Priority      domain.ComplaintPriority `json:"priority"`
	SubmitterName string                   `json:"submitter_name"`
}

// UpdateStatusRequest payload for status mutations; the optional note becomes
// the administrator annotation.
type UpdateStatusRequest struct {
	Status domain.ComplaintStatus `json:"status"`
	Note   *string                `json:"note,omitempty"`
}

// UpdatePriorityRequest payload.
type UpdatePriorityRequest struct {
	Priority domain.ComplaintPriority `json:"priority"`
}

// AssignRequest payload.
type AssignRequest struct {
	AssignedTo string `json:"assigned_to"`
}

// ComplaintResponse is the wire shape of a complaint.
type ComplaintResponse struct {
	ID             string                   `json:"id"`
	Title          string                   `json:"title"`
	Description    string                   `json:"description"`
	Status         domain.ComplaintStatus   `json:"status"`
	Category       domain.ComplaintCategory `json:"category"`
	Priority       domain.ComplaintPriority `json:"priority"`
	SubmittedBy    string                   `json:"submitted_by"`
	SubmitterName  string                   `json:"submitter_name"`
	SubmitterEmail string                   `json:"submitter_email,omitempty"`
	AssignedTo     *string                  `json:"assigned_to,omitempty"`
	AdminNotes     *string                  `json:"admin_notes,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

// FromComplaint maps a domain complaint to its response shape.
func FromComplaint(c *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:             c.ID,
		Title:          c.Title,
		Description:    c.Description,
		Status:         c.Status,
		Category:       c.Category,
		Priority:       c.Priority,
		SubmittedBy:    c.SubmittedBy,
		SubmitterName:  c.SubmitterName,
		SubmitterEmail: c.SubmitterEmail,
		AssignedTo:     c.AssignedTo,
		AdminNotes:     c.AdminNotes,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// FromComplaints maps a snapshot slice.
func FromComplaints(records []domain.Complaint) []ComplaintResponse {
	items := make([]ComplaintResponse, 0, len(records))
	for i := range records {
		items = append(items, FromComplaint(&records[i]))
	}
	return items
}
