package repository

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/heardesk/complaint-service/internal/domain"
)

// localUserRepository keeps accounts in a JSON file slot next to the
// complaint slot. Same failure policy: persist errors are logged, never
// raised, so a full disk cannot lock users out of an already loaded store.
type localUserRepository struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
	users  []domain.User
}

type userRecord struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"passwordHash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	LastLoginAt  time.Time `json:"lastLoginAt"`
}

// NewLocalUserRepository loads the account slot at path. An absent or
// unreadable slot starts empty; accounts are created through registration.
func NewLocalUserRepository(path string, logger *zap.Logger) UserRepository {
	repo := &localUserRepository{path: path, logger: logger}
	repo.load()
	return repo
}

func (r *localUserRepository) load() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Error("read user slot failed; starting empty", zap.Error(err))
		}
		return
	}
	var records []userRecord
	if err := json.Unmarshal(data, &records); err != nil {
		r.logger.Error("decode user slot failed; starting empty", zap.Error(err))
		return
	}
	r.users = make([]domain.User, 0, len(records))
	for _, rec := range records {
		r.users = append(r.users, domain.User{
			ID:           rec.ID,
			Email:        rec.Email,
			DisplayName:  rec.DisplayName,
			PasswordHash: rec.PasswordHash,
			Role:         domain.Role(rec.Role),
			CreatedAt:    rec.CreatedAt,
			LastLoginAt:  rec.LastLoginAt,
		})
	}
}

func (r *localUserRepository) persist() {
	records := make([]userRecord, 0, len(r.users))
	for _, u := range r.users {
		records = append(records, userRecord{
			ID:           u.ID,
			Email:        u.Email,
			DisplayName:  u.DisplayName,
			PasswordHash: u.PasswordHash,
			Role:         string(u.Role),
			CreatedAt:    u.CreatedAt,
			LastLoginAt:  u.LastLoginAt,
		})
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		r.logger.Error("encode user slot failed", zap.Error(err))
		return
	}
	if err := os.WriteFile(r.path, data, 0o600); err != nil {
		r.logger.Error("persist user slot failed", zap.Error(err))
	}
}

func (r *localUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.LastLoginAt = now
	r.users = append(r.users, *user)
	r.persist()
	return nil
}

func (r *localUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == id {
			found := r.users[i]
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *localUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if strings.EqualFold(r.users[i].Email, email) {
			found := r.users[i]
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *localUserRepository) RecordLogin(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == id {
			r.users[i].Role = role
			r.users[i].LastLoginAt = time.Now()
			r.persist()
			return nil
		}
	}
	return pgx.ErrNoRows
}
