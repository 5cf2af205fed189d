package auth

import (
	"strings"

	"github.com/heardesk/complaint-service/internal/domain"
)

// RolePolicy assigns a role to an email address. Supplied externally so role
// gating stays testable without embedding credentials in the core.
type RolePolicy interface {
	RoleFor(email string) domain.Role
	IsReserved(email string) bool
}

// StaticRolePolicy treats a fixed set of email addresses as administrators;
// every other identity is a standard user.
type StaticRolePolicy struct {
	admins map[string]struct{}
}

// NewStaticRolePolicy builds a policy from the configured admin email list.
func NewStaticRolePolicy(adminEmails []string) *StaticRolePolicy {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		admins[normalizeEmail(email)] = struct{}{}
	}
	return &StaticRolePolicy{admins: admins}
}

// RoleFor returns admin for reserved addresses, user otherwise.
func (p *StaticRolePolicy) RoleFor(email string) domain.Role {
	if p.IsReserved(email) {
		return domain.RoleAdmin
	}
	return domain.RoleUser
}

// IsReserved reports whether the email belongs to the administrator set.
// Registration with a reserved address must be rejected before any write.
func (p *StaticRolePolicy) IsReserved(email string) bool {
	_, ok := p.admins[normalizeEmail(email)]
	return ok
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
