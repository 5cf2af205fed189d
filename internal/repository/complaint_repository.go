package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heardesk/complaint-service/internal/domain"
)

// ComplaintRepository is the sync-adapter boundary for complaint persistence.
// The Postgres implementation backs the remote deployment; the file-backed
// implementation in local_complaint_repository.go backs the local one.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListAll(ctx context.Context) ([]domain.Complaint, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Complaint, error)
	UpdateStatus(ctx context.Context, id string, patch domain.StatusPatch) (*domain.Complaint, error)
	UpdatePriority(ctx context.Context, id string, patch domain.PriorityPatch) (*domain.Complaint, error)
	Assign(ctx context.Context, id string, patch domain.AssignmentPatch) (*domain.Complaint, error)
	Delete(ctx context.Context, id string) error
}

type pgComplaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository returns a Postgres-backed implementation.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &pgComplaintRepository{pool: pool}
}

const complaintColumns = `id, title, description, status, category, priority,
       submitted_by, submitter_name, submitter_email, assigned_to, admin_notes,
       created_at, updated_at`

func (r *pgComplaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (title, description, status, category, priority, submitted_by, submitter_name, submitter_email)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.Title,
		complaint.Description,
		complaint.Status,
		complaint.Category,
		complaint.Priority,
		complaint.SubmittedBy,
		complaint.SubmitterName,
		complaint.SubmitterEmail,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *pgComplaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *pgComplaintRepository) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *pgComplaintRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE submitted_by=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *pgComplaintRepository) UpdateStatus(ctx context.Context, id string, patch domain.StatusPatch) (*domain.Complaint, error) {
	const query = `
        UPDATE complaints SET status=$1, admin_notes=COALESCE($2, admin_notes), updated_at=NOW()
        WHERE id=$3
        RETURNING ` + complaintColumns
	return r.fetchSingle(ctx, query, patch.Status, patch.Note, id)
}

func (r *pgComplaintRepository) UpdatePriority(ctx context.Context, id string, patch domain.PriorityPatch) (*domain.Complaint, error) {
	const query = `
        UPDATE complaints SET priority=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING ` + complaintColumns
	return r.fetchSingle(ctx, query, patch.Priority, id)
}

func (r *pgComplaintRepository) Assign(ctx context.Context, id string, patch domain.AssignmentPatch) (*domain.Complaint, error) {
	const query = `
        UPDATE complaints SET assigned_to=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING ` + complaintColumns
	return r.fetchSingle(ctx, query, patch.AssignedTo, id)
}

func (r *pgComplaintRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgComplaintRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Complaint, error) {
	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&complaint.ID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Status,
		&complaint.Category,
		&complaint.Priority,
		&complaint.SubmittedBy,
		&complaint.SubmitterName,
		&complaint.SubmitterEmail,
		&complaint.AssignedTo,
		&complaint.AdminNotes,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(
			&complaint.ID,
			&complaint.Title,
			&complaint.Description,
			&complaint.Status,
			&complaint.Category,
			&complaint.Priority,
			&complaint.SubmittedBy,
			&complaint.SubmitterName,
			&complaint.SubmitterEmail,
			&complaint.AssignedTo,
			&complaint.AdminNotes,
			&complaint.CreatedAt,
			&complaint.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
