package service

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/heardesk/complaint-service/internal/auth"
	"github.com/heardesk/complaint-service/internal/config"
	"github.com/heardesk/complaint-service/internal/domain"
	apperrors "github.com/heardesk/complaint-service/pkg/util"
)

type fakeUserRepo struct {
	users  map[string]*domain.User
	writes int
	// failWith, when set, is returned by every call; createErr fails only
	// Create, leaving lookups working.
	failWith  error
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if f.failWith != nil {
		return f.failWith
	}
	if f.createErr != nil {
		return f.createErr
	}
	f.writes++
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.LastLoginAt = user.CreatedAt
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if user, ok := f.users[id]; ok {
		found := *user
		return &found, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, user := range f.users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) RecordLogin(_ context.Context, id string, role domain.Role) error {
	if f.failWith != nil {
		return f.failWith
	}
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	f.writes++
	user.Role = role
	user.LastLoginAt = time.Now()
	return nil
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 5,
			BcryptCost:            4,
		},
	}
}

func newTestAuthService(repo *fakeUserRepo, adminEmails ...string) *AuthService {
	return NewAuthService(testConfig(), AuthDependencies{
		UserRepo: repo,
		Policy:   auth.NewStaticRolePolicy(adminEmails),
	})
}

func TestRegister_CreatesStandardUserWithToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	user, token, exp, err := svc.Register(context.Background(), "John Smith", "john@example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, domain.RoleUser, user.Role)
	require.NotEmpty(t, token)
	require.True(t, exp.After(time.Now()))

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.SubjectID)
	require.Equal(t, domain.RoleUser, claims.Role)
}

func TestRegister_RejectsReservedEmailBeforeAnyWrite(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo, "Admin@Example.com")

	_, _, _, err := svc.Register(context.Background(), "Imposter", "admin@example.com", "secret1")
	require.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	require.Zero(t, repo.writes)
	require.Empty(t, repo.users)
}

func TestRegister_ValidationFailures(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	_, _, _, err := svc.Register(context.Background(), "n", "not-an-email", "secret1")
	require.True(t, apperrors.IsCode(err, CodeInvalidEmail))

	_, _, _, err = svc.Register(context.Background(), "n", "short@example.com", "12345")
	require.True(t, apperrors.IsCode(err, CodeWeakPassword))

	_, _, _, err = svc.Register(context.Background(), "John", "john@example.com", "secret1")
	require.NoError(t, err)
	_, _, _, err = svc.Register(context.Background(), "John Again", "john@example.com", "secret1")
	require.True(t, apperrors.IsCode(err, CodeEmailInUse))
}

func TestLogin_ErrorCodes(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	_, _, _, err := svc.Login(context.Background(), "nobody@example.com", "secret1")
	require.True(t, apperrors.IsCode(err, CodeUserNotFound))

	_, _, _, err = svc.Register(context.Background(), "John", "john@example.com", "secret1")
	require.NoError(t, err)

	_, _, _, err = svc.Login(context.Background(), "john@example.com", "wrong-pass")
	require.True(t, apperrors.IsCode(err, CodeWrongPassword))

	user, token, _, err := svc.Login(context.Background(), "john@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, user.Role)
	require.NotEmpty(t, token)
}

func TestLogin_RoleComesFromPolicy(t *testing.T) {
	repo := newFakeUserRepo()
	// Registered before the address became reserved; login still promotes.
	plain := newTestAuthService(repo)
	_, _, _, err := plain.Register(context.Background(), "Jane", "jane@example.com", "secret1")
	require.NoError(t, err)

	svc := newTestAuthService(repo, "jane@example.com")
	user, _, _, err := svc.Login(context.Background(), "jane@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, user.Role)

	// The stored account reflects the refreshed role.
	stored, err := repo.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, stored.Role)
}

func TestLoginAdmin_RequiresAdminRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo, "root@example.com")

	_, _, _, err := svc.Register(context.Background(), "John", "john@example.com", "secret1")
	require.NoError(t, err)

	_, _, _, err = svc.LoginAdmin(context.Background(), "john@example.com", "secret1")
	require.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestAuthErrorMessage_FixedMapping(t *testing.T) {
	require.Equal(t, "No account found with this email address.", AuthErrorMessage(CodeUserNotFound))
	require.Equal(t, "Incorrect password.", AuthErrorMessage(CodeWrongPassword))
	require.Equal(t, "An account with this email already exists.", AuthErrorMessage(CodeEmailInUse))
	require.Equal(t, "Password should be at least 6 characters.", AuthErrorMessage(CodeWeakPassword))
	require.Equal(t, "Invalid email address.", AuthErrorMessage(CodeInvalidEmail))
	require.Equal(t, "Too many failed attempts. Please try again later.", AuthErrorMessage(CodeRateLimited))
	require.Equal(t, "An error occurred. Please try again.", AuthErrorMessage("SOMETHING_ELSE"))
}

func TestAuth_EmailMatchingIsCaseInsensitive(t *testing.T) {
	// The fake repository matches emails exactly, so these pass only if the
	// service normalizes the address on both paths.
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	registered, _, _, err := svc.Register(context.Background(), "John", "John@Example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, "john@example.com", registered.Email)

	user, _, _, err := svc.Login(context.Background(), "JOHN@EXAMPLE.COM", "secret1")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)

	_, _, _, err = svc.Register(context.Background(), "John Again", "jOhN@eXaMpLe.CoM", "secret1")
	require.True(t, apperrors.IsCode(err, CodeEmailInUse))
}

func TestRegister_UniqueViolationSurfacesEmailInUse(t *testing.T) {
	// A concurrent signup can slip between the existence check and the
	// insert; the constraint failure must read as email-in-use.
	repo := newFakeUserRepo()
	repo.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	svc := newTestAuthService(repo)

	_, _, _, err := svc.Register(context.Background(), "John", "john@example.com", "secret1")
	require.True(t, apperrors.IsCode(err, CodeEmailInUse))
}

func TestLogin_NetworkFailureSubstitutesConnectivityMessage(t *testing.T) {
	repo := newFakeUserRepo()
	repo.failWith = &net.OpError{Op: "dial", Err: &net.DNSError{IsTimeout: true}}
	svc := newTestAuthService(repo)

	_, _, _, err := svc.Login(context.Background(), "john@example.com", "secret1")
	require.True(t, apperrors.IsCode(err, CodeNetwork))
	require.Contains(t, err.Error(), "Network error")
}
