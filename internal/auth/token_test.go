package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/heardesk/complaint-service/internal/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)

	token, exp, err := tm.GenerateToken("user-1", domain.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.True(t, exp.After(time.Now()))

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.SubjectID)
	require.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 5).GenerateToken("user-1", domain.RoleUser)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 5).ParseToken(token)
	require.Error(t, err)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("secret", 5).ParseToken("not.a.token")
	require.Error(t, err)
}

func TestTokenManager_DefaultsNonPositiveTTL(t *testing.T) {
	tm := NewTokenManager("secret", 0)
	_, exp, err := tm.GenerateToken("user-1", domain.RoleUser)
	require.NoError(t, err)
	require.True(t, exp.After(time.Now().Add(30*time.Minute)))
}
