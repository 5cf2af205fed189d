package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/heardesk/complaint-service/internal/domain"
)

func slotPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "complaints_data.json")
}

func TestLocalRepo_MissingSlotFallsBackToSeed(t *testing.T) {
	repo := NewLocalComplaintRepository(slotPath(t), zap.NewNop())

	records, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "Website Loading Issues", records[0].Title)
	require.Equal(t, domain.ComplaintStatusInProgress, records[1].Status)
	require.Equal(t, domain.ComplaintStatusResolved, records[2].Status)
}

func TestLocalRepo_CorruptSlotFallsBackToSeed(t *testing.T) {
	path := slotPath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	repo := NewLocalComplaintRepository(path, zap.NewNop())
	records, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
}

func TestLocalRepo_PersistedRecordsSurviveReload(t *testing.T) {
	path := slotPath(t)
	repo := NewLocalComplaintRepository(path, zap.NewNop())

	complaint := &domain.Complaint{
		Title:          "Persisted",
		Description:    "Should survive a reload.",
		Status:         domain.ComplaintStatusSubmitted,
		Category:       domain.CategoryPrivacy,
		Priority:       domain.ComplaintPriorityLow,
		SubmittedBy:    "user-1",
		SubmitterName:  "John Smith",
		SubmitterEmail: "john@example.com",
	}
	require.NoError(t, repo.Create(context.Background(), complaint))
	require.NotEmpty(t, complaint.ID)

	note := "looked into it"
	_, err := repo.UpdateStatus(context.Background(), complaint.ID, domain.StatusPatch{Status: domain.ComplaintStatusInProgress, Note: &note})
	require.NoError(t, err)

	reloaded := NewLocalComplaintRepository(path, zap.NewNop())
	got, err := reloaded.GetByID(context.Background(), complaint.ID)
	require.NoError(t, err)
	require.Equal(t, complaint.Title, got.Title)
	require.Equal(t, complaint.Description, got.Description)
	require.Equal(t, domain.ComplaintStatusInProgress, got.Status)
	require.Equal(t, complaint.Category, got.Category)
	require.Equal(t, complaint.Priority, got.Priority)
	require.Equal(t, complaint.SubmittedBy, got.SubmittedBy)
	require.Equal(t, complaint.SubmitterEmail, got.SubmitterEmail)
	require.NotNil(t, got.AdminNotes)
	require.Equal(t, note, *got.AdminNotes)
	require.True(t, got.CreatedAt.Equal(complaint.CreatedAt))
	require.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))
}

func TestLocalRepo_CreatePrependsNewest(t *testing.T) {
	repo := NewLocalComplaintRepository(slotPath(t), zap.NewNop())

	complaint := &domain.Complaint{
		Title:         "Newest",
		Description:   "d",
		Status:        domain.ComplaintStatusSubmitted,
		Category:      domain.CategoryOther,
		Priority:      domain.ComplaintPriorityMedium,
		SubmittedBy:   "user-1",
		SubmitterName: "John Smith",
	}
	require.NoError(t, repo.Create(context.Background(), complaint))

	records, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 4)
	require.Equal(t, "Newest", records[0].Title)
}

func TestLocalRepo_ListByOwnerFilters(t *testing.T) {
	repo := NewLocalComplaintRepository(slotPath(t), zap.NewNop())

	mine, err := repo.ListByOwner(context.Background(), "John Smith")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "Website Loading Issues", mine[0].Title)

	none, err := repo.ListByOwner(context.Background(), "nobody")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestLocalRepo_MutationsAndDelete(t *testing.T) {
	repo := NewLocalComplaintRepository(slotPath(t), zap.NewNop())

	updated, err := repo.UpdatePriority(context.Background(), "1", domain.PriorityPatch{Priority: domain.ComplaintPriorityLow})
	require.NoError(t, err)
	require.Equal(t, domain.ComplaintPriorityLow, updated.Priority)

	assigned, err := repo.Assign(context.Background(), "1", domain.AssignmentPatch{AssignedTo: "Support Team Lead"})
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedTo)
	require.Equal(t, "Support Team Lead", *assigned.AssignedTo)

	require.NoError(t, repo.Delete(context.Background(), "1"))
	_, err = repo.GetByID(context.Background(), "1")
	require.ErrorIs(t, err, pgx.ErrNoRows)

	require.ErrorIs(t, repo.Delete(context.Background(), "1"), pgx.ErrNoRows)

	records, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestLocalRepo_UnknownIDMutationsReturnNoRows(t *testing.T) {
	repo := NewLocalComplaintRepository(slotPath(t), zap.NewNop())

	_, err := repo.UpdateStatus(context.Background(), "missing", domain.StatusPatch{Status: domain.ComplaintStatusClosed})
	require.ErrorIs(t, err, pgx.ErrNoRows)
}
