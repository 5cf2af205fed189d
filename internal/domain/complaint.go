package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusSubmitted  ComplaintStatus = "submitted"
	ComplaintStatusInProgress ComplaintStatus = "in-progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusClosed     ComplaintStatus = "closed"
)

// ComplaintPriority enumerates urgency levels.
type ComplaintPriority string

const (
	ComplaintPriorityLow    ComplaintPriority = "low"
	ComplaintPriorityMedium ComplaintPriority = "medium"
	ComplaintPriorityHigh   ComplaintPriority = "high"
)

// ComplaintCategory is one of the fixed set of complaint categories.
type ComplaintCategory string

const (
	CategoryTechnical ComplaintCategory = "Technical"
	CategoryService   ComplaintCategory = "Service"
	CategoryBilling   ComplaintCategory = "Billing"
	CategoryProduct   ComplaintCategory = "Product"
	CategoryAccount   ComplaintCategory = "Account"
	CategoryPrivacy   ComplaintCategory = "Privacy"
	CategoryOther     ComplaintCategory = "Other"
)

// Complaint is the aggregate for user-submitted complaints.
type Complaint struct {
	ID             string
	Title          string
	Description    string
	Status         ComplaintStatus
	Category       ComplaintCategory
	Priority       ComplaintPriority
	SubmittedBy    string
	SubmitterName  string
	SubmitterEmail string
	AssignedTo     *string
	AdminNotes     *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StatusPatch describes a status mutation. Note, when present, replaces AdminNotes.
type StatusPatch struct {
	Status ComplaintStatus
	Note   *string
}

// PriorityPatch describes a priority mutation.
type PriorityPatch struct {
	Priority ComplaintPriority
}

// AssignmentPatch describes an assignment mutation.
type AssignmentPatch struct {
	AssignedTo string
}

// ValidStatus reports whether s is one of the four complaint statuses.
func ValidStatus(s ComplaintStatus) bool {
	switch s {
	case ComplaintStatusSubmitted, ComplaintStatusInProgress, ComplaintStatusResolved, ComplaintStatusClosed:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the three priorities.
func ValidPriority(p ComplaintPriority) bool {
	switch p {
	case ComplaintPriorityLow, ComplaintPriorityMedium, ComplaintPriorityHigh:
		return true
	}
	return false
}

// ValidCategory reports whether c belongs to the fixed category set.
func ValidCategory(c ComplaintCategory) bool {
	switch c {
	case CategoryTechnical, CategoryService, CategoryBilling, CategoryProduct, CategoryAccount, CategoryPrivacy, CategoryOther:
		return true
	}
	return false
}
