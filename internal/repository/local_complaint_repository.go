package repository

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/heardesk/complaint-service/internal/domain"
)

// localComplaintRepository persists the full collection as a JSON array in a
// single file slot. Missing or unreadable data falls back to the seed set;
// load and persist failures are logged, never raised to the caller.
type localComplaintRepository struct {
	mu         sync.Mutex
	path       string
	logger     *zap.Logger
	complaints []domain.Complaint
}

// complaintRecord is the serialized shape of a complaint in the local slot.
type complaintRecord struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Status         string    `json:"status"`
	Category       string    `json:"category"`
	Priority       string    `json:"priority"`
	SubmittedBy    string    `json:"submittedBy"`
	SubmitterName  string    `json:"submitterName"`
	SubmitterEmail string    `json:"submitterEmail,omitempty"`
	AssignedTo     *string   `json:"assignedTo,omitempty"`
	AdminNotes     *string   `json:"adminNotes,omitempty"`
	SubmittedAt    time.Time `json:"submittedAt"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// NewLocalComplaintRepository loads the slot at path, seeding example data
// when the slot is absent or cannot be decoded.
func NewLocalComplaintRepository(path string, logger *zap.Logger) ComplaintRepository {
	repo := &localComplaintRepository{path: path, logger: logger}
	repo.load()
	return repo
}

func (r *localComplaintRepository) load() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Error("read complaint slot failed; using seed data", zap.Error(err))
		}
		r.complaints = seedComplaints()
		return
	}
	var records []complaintRecord
	if err := json.Unmarshal(data, &records); err != nil {
		r.logger.Error("decode complaint slot failed; using seed data", zap.Error(err))
		r.complaints = seedComplaints()
		return
	}
	r.complaints = make([]domain.Complaint, 0, len(records))
	for _, rec := range records {
		r.complaints = append(r.complaints, rec.toDomain())
	}
}

// persist writes the whole collection through to the slot. A failure keeps
// the in-memory mutation and is only logged.
func (r *localComplaintRepository) persist() {
	records := make([]complaintRecord, 0, len(r.complaints))
	for i := range r.complaints {
		records = append(records, toRecord(&r.complaints[i]))
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		r.logger.Error("encode complaint slot failed", zap.Error(err))
		return
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		r.logger.Error("persist complaint slot failed", zap.Error(err))
	}
}

func (r *localComplaintRepository) Create(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	complaint.ID = uuid.NewString()
	complaint.CreatedAt = now
	complaint.UpdatedAt = now
	// insertion order, newest first
	r.complaints = append([]domain.Complaint{*complaint}, r.complaints...)
	r.persist()
	return nil
}

func (r *localComplaintRepository) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.complaints {
		if r.complaints[i].ID == id {
			found := r.complaints[i]
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *localComplaintRepository) ListAll(_ context.Context) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Complaint(nil), r.complaints...), nil
}

func (r *localComplaintRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]domain.Complaint, 0)
	for _, complaint := range r.complaints {
		if complaint.SubmittedBy == ownerID {
			result = append(result, complaint)
		}
	}
	return result, nil
}

func (r *localComplaintRepository) UpdateStatus(_ context.Context, id string, patch domain.StatusPatch) (*domain.Complaint, error) {
	return r.mutate(id, func(c *domain.Complaint) {
		c.Status = patch.Status
		if patch.Note != nil {
			c.AdminNotes = patch.Note
		}
	})
}

func (r *localComplaintRepository) UpdatePriority(_ context.Context, id string, patch domain.PriorityPatch) (*domain.Complaint, error) {
	return r.mutate(id, func(c *domain.Complaint) {
		c.Priority = patch.Priority
	})
}

func (r *localComplaintRepository) Assign(_ context.Context, id string, patch domain.AssignmentPatch) (*domain.Complaint, error) {
	return r.mutate(id, func(c *domain.Complaint) {
		assignee := patch.AssignedTo
		c.AssignedTo = &assignee
	})
}

func (r *localComplaintRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.complaints {
		if r.complaints[i].ID == id {
			r.complaints = append(r.complaints[:i], r.complaints[i+1:]...)
			r.persist()
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *localComplaintRepository) mutate(id string, apply func(*domain.Complaint)) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.complaints {
		if r.complaints[i].ID == id {
			apply(&r.complaints[i])
			r.complaints[i].UpdatedAt = time.Now()
			r.persist()
			updated := r.complaints[i]
			return &updated, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (rec complaintRecord) toDomain() domain.Complaint {
	return domain.Complaint{
		ID:             rec.ID,
		Title:          rec.Title,
		Description:    rec.Description,
		Status:         domain.ComplaintStatus(rec.Status),
		Category:       domain.ComplaintCategory(rec.Category),
		Priority:       domain.ComplaintPriority(rec.Priority),
		SubmittedBy:    rec.SubmittedBy,
		SubmitterName:  rec.SubmitterName,
		SubmitterEmail: rec.SubmitterEmail,
		AssignedTo:     rec.AssignedTo,
		AdminNotes:     rec.AdminNotes,
		CreatedAt:      rec.SubmittedAt,
		UpdatedAt:      rec.LastUpdated,
	}
}

func toRecord(c *domain.Complaint) complaintRecord {
	return complaintRecord{
		ID:             c.ID,
		Title:          c.Title,
		Description:    c.Description,
		Status:         string(c.Status),
		Category:       string(c.Category),
		Priority:       string(c.Priority),
		SubmittedBy:    c.SubmittedBy,
		SubmitterName:  c.SubmitterName,
		SubmitterEmail: c.SubmitterEmail,
		AssignedTo:     c.AssignedTo,
		AdminNotes:     c.AdminNotes,
		SubmittedAt:    c.CreatedAt,
		LastUpdated:    c.UpdatedAt,
	}
}

func seedComplaints() []domain.Complaint {
	assignedService := "Support Team Lead"
	assignedBilling := "Billing Department"
	return []domain.Complaint{
		{
			ID:            "1",
			Title:         "Website Loading Issues",
			Description:   "The website takes too long to load on mobile devices, especially on slower connections. This affects user experience significantly.",
			Status:        domain.ComplaintStatusSubmitted,
			Category:      domain.CategoryTechnical,
			Priority:      domain.ComplaintPriorityHigh,
			SubmittedBy:   "John Smith",
			SubmitterName: "John Smith",
			CreatedAt:     time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:            "2",
			Title:         "Customer Service Response Delay",
			Description:   "Response time for customer service is over 24 hours, which is unacceptable for urgent matters.",
			Status:        domain.ComplaintStatusInProgress,
			Category:      domain.CategoryService,
			Priority:      domain.ComplaintPriorityMedium,
			SubmittedBy:   "Sarah Johnson",
			SubmitterName: "Sarah Johnson",
			AssignedTo:    &assignedService,
			CreatedAt:     time.Date(2025, 9, 21, 0, 0, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:            "3",
			Title:         "Billing Discrepancy",
			Description:   "My last invoice shows charges that don't match my service plan. Need clarification on additional fees.",
			Status:        domain.ComplaintStatusResolved,
			Category:      domain.CategoryBilling,
			Priority:      domain.ComplaintPriorityHigh,
			SubmittedBy:   "Mike Davis",
			SubmitterName: "Mike Davis",
			AssignedTo:    &assignedBilling,
			CreatedAt:     time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2025, 9, 21, 0, 0, 0, 0, time.UTC),
		},
	}
}
