package service

import (
	"errors"
	"net"
	"net/http"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/heardesk/complaint-service/pkg/util"
)

// uniqueViolation is the Postgres SQLSTATE for unique-constraint failures.
const uniqueViolation = "23505"

// Auth error codes carried by DomainError for authentication failures.
const (
	CodeUserNotFound  = "AUTH_USER_NOT_FOUND"
	CodeWrongPassword = "AUTH_WRONG_PASSWORD"
	CodeEmailInUse    = "AUTH_EMAIL_IN_USE"
	CodeWeakPassword  = "AUTH_WEAK_PASSWORD"
	CodeInvalidEmail  = "AUTH_INVALID_EMAIL"
	CodeRateLimited   = "AUTH_RATE_LIMITED"
	CodeNetwork       = "AUTH_NETWORK_UNREACHABLE"
)

// authMessages is the fixed code-to-message mapping surfaced to end users.
var authMessages = map[string]string{
	CodeUserNotFound:  "No account found with this email address.",
	CodeWrongPassword: "Incorrect password.",
	CodeEmailInUse:    "An account with this email already exists.",
	CodeWeakPassword:  "Password should be at least 6 characters.",
	CodeInvalidEmail:  "Invalid email address.",
	CodeRateLimited:   "Too many failed attempts. Please try again later.",
	CodeNetwork:       "Network error: unable to reach the authentication backend. Check your connection.",
}

var authStatus = map[string]int{
	CodeUserNotFound:  http.StatusUnauthorized,
	CodeWrongPassword: http.StatusUnauthorized,
	CodeEmailInUse:    http.StatusConflict,
	CodeWeakPassword:  http.StatusBadRequest,
	CodeInvalidEmail:  http.StatusBadRequest,
	CodeRateLimited:   http.StatusTooManyRequests,
	CodeNetwork:       http.StatusServiceUnavailable,
}

// AuthErrorMessage resolves a code to its user-facing message.
func AuthErrorMessage(code string) string {
	if msg, ok := authMessages[code]; ok {
		return msg
	}
	return "An error occurred. Please try again."
}

func newAuthError(code string) error {
	status, ok := authStatus[code]
	if !ok {
		status = http.StatusBadRequest
	}
	return apperrors.NewDomainError(code, AuthErrorMessage(code), status, nil)
}

// translateAuthErr substitutes the connectivity message when the underlying
// failure looks like a network problem, and maps a users.email unique
// violation to the email-in-use code so the pre-insert existence check racing
// a concurrent signup still surfaces the right error.
func translateAuthErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return newAuthError(CodeEmailInUse)
	}
	if isNetworkError(err) {
		return apperrors.NewDomainError(CodeNetwork, AuthErrorMessage(CodeNetwork), http.StatusServiceUnavailable, map[string]any{"cause": err.Error()})
	}
	return apperrors.MapError(err)
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EHOSTUNREACH)
}
