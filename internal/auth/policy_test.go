package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heardesk/complaint-service/internal/domain"
)

func TestStaticRolePolicy_NormalizesEmails(t *testing.T) {
	policy := NewStaticRolePolicy([]string{" Admin@Example.com ", "ops@example.com"})

	require.True(t, policy.IsReserved("admin@example.com"))
	require.True(t, policy.IsReserved("ADMIN@EXAMPLE.COM"))
	require.True(t, policy.IsReserved("  ops@example.com"))
	require.False(t, policy.IsReserved("user@example.com"))

	require.Equal(t, domain.RoleAdmin, policy.RoleFor("admin@example.com"))
	require.Equal(t, domain.RoleUser, policy.RoleFor("user@example.com"))
}

func TestStaticRolePolicy_EmptyListHasNoAdmins(t *testing.T) {
	policy := NewStaticRolePolicy(nil)
	require.False(t, policy.IsReserved("anyone@example.com"))
	require.Equal(t, domain.RoleUser, policy.RoleFor("anyone@example.com"))
}
