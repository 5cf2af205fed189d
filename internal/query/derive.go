// Package query computes filtered subsets and aggregate counts over a
// complaint snapshot. Derivations are pure and recomputed on every call; a
// snapshot is a linear scan away from any view.
package query

import (
	"strings"
	"time"

	"github.com/heardesk/complaint-service/internal/domain"
)

// All matches every value of a criterion.
const All = "all"

// recentWindow bounds the "recent" stat.
const recentWindow = 7 * 24 * time.Hour

// Criteria configures Filter. Empty or "all" fields match everything; the
// provided fields combine with logical AND.
type Criteria struct {
	Status   string
	Priority string
	Category string
	Search   string
}

// Stats aggregates counts over a snapshot.
type Stats struct {
	Total          int `json:"total"`
	Submitted      int `json:"submitted"`
	InProgress     int `json:"inProgress"`
	Resolved       int `json:"resolved"`
	Closed         int `json:"closed"`
	LowPriority    int `json:"lowPriority"`
	MediumPriority int `json:"mediumPriority"`
	HighPriority   int `json:"highPriority"`
	Recent         int `json:"recent"`
}

// Filter returns the records matching all provided criteria, preserving the
// snapshot's order.
func Filter(records []domain.Complaint, criteria Criteria) []domain.Complaint {
	search := strings.ToLower(strings.TrimSpace(criteria.Search))
	result := make([]domain.Complaint, 0, len(records))
	for _, record := range records {
		if !matchField(criteria.Status, string(record.Status)) {
			continue
		}
		if !matchField(criteria.Priority, string(record.Priority)) {
			continue
		}
		if !matchField(criteria.Category, string(record.Category)) {
			continue
		}
		if search != "" && !matchSearch(&record, search) {
			continue
		}
		result = append(result, record)
	}
	return result
}

// ByID finds a record in the snapshot.
func ByID(records []domain.Complaint, id string) (*domain.Complaint, bool) {
	for i := range records {
		if records[i].ID == id {
			return &records[i], true
		}
	}
	return nil, false
}

// ByStatus filters on a single status.
func ByStatus(records []domain.Complaint, status domain.ComplaintStatus) []domain.Complaint {
	return Filter(records, Criteria{Status: string(status)})
}

// ByCategory filters on a single category.
func ByCategory(records []domain.Complaint, category domain.ComplaintCategory) []domain.Complaint {
	return Filter(records, Criteria{Category: string(category)})
}

// ByPriority filters on a single priority.
func ByPriority(records []domain.Complaint, priority domain.ComplaintPriority) []domain.Complaint {
	return Filter(records, Criteria{Priority: string(priority)})
}

// Compute tallies status, priority and recency counts for the snapshot.
func Compute(records []domain.Complaint, now time.Time) Stats {
	stats := Stats{Total: len(records)}
	cutoff := now.Add(-recentWindow)
	for _, record := range records {
		switch record.Status {
		case domain.ComplaintStatusSubmitted:
			stats.Submitted++
		case domain.ComplaintStatusInProgress:
			stats.InProgress++
		case domain.ComplaintStatusResolved:
			stats.Resolved++
		case domain.ComplaintStatusClosed:
			stats.Closed++
		}
		switch record.Priority {
		case domain.ComplaintPriorityLow:
			stats.LowPriority++
		case domain.ComplaintPriorityMedium:
			stats.MediumPriority++
		case domain.ComplaintPriorityHigh:
			stats.HighPriority++
		}
		if record.CreatedAt.After(cutoff) {
			stats.Recent++
		}
	}
	return stats
}

func matchField(criterion, value string) bool {
	return criterion == "" || criterion == All || criterion == value
}

// matchSearch checks a case-insensitive substring against title, description,
// category and submitter name.
func matchSearch(record *domain.Complaint, search string) bool {
	return strings.Contains(strings.ToLower(record.Title), search) ||
		strings.Contains(strings.ToLower(record.Description), search) ||
		strings.Contains(strings.ToLower(string(record.Category)), search) ||
		strings.Contains(strings.ToLower(record.SubmitterName), search)
}
