package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/heardesk/complaint-service/internal/api/http/handlers"
	"github.com/heardesk/complaint-service/internal/auth"
	"github.com/heardesk/complaint-service/internal/config"
	"github.com/heardesk/complaint-service/internal/events"
	"github.com/heardesk/complaint-service/internal/observability"
	"github.com/heardesk/complaint-service/internal/repository"
	"github.com/heardesk/complaint-service/internal/service"
)

// newTestApp wires the full HTTP surface over the file-backed repositories,
// mirroring the local deployment when roleGated is false and the remote
// permission model when it is true.
func newTestApp(t *testing.T, roleGated bool) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	dir := t.TempDir()

	complaintRepo := repository.NewLocalComplaintRepository(filepath.Join(dir, "complaints_data.json"), logger)
	userRepo := repository.NewLocalUserRepository(filepath.Join(dir, "users_data.json"), logger)
	dispatcher := events.NewInMemoryDispatcher()

	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: complaintRepo,
		Dispatcher:    dispatcher,
		RoleGated:     roleGated,
	})
	authService := service.NewAuthService(config.Config{
		Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 5, BcryptCost: 4},
	}, service.AuthDependencies{
		UserRepo: userRepo,
		Policy:   auth.NewStaticRolePolicy(nil),
	})

	mode := config.StorageModeLocal
	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:             handlers.NewHealthHandler("complaint-service", "test", mode, nil, nil),
		Users:              handlers.NewUsersHandler(authService),
		Complaints:         handlers.NewComplaintsHandler(complaintService),
		AdminComplaints:    handlers.NewAdminComplaintsHandler(complaintService),
		AuthMiddleware:     auth.NewAuthMiddleware(authService.TokenManager(), userRepo),
		RoleGatedMutations: roleGated,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

func registerAndLogin(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/auth/register", "", map[string]string{
		"name":     "John Smith",
		"email":    email,
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, status)
	token := body["data"].(map[string]any)["auth"].(map[string]any)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createOverHTTP(t *testing.T, app *fiber.App, token string) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/complaints", token, map[string]string{
		"title":       "Website Loading Issues",
		"description": "The site is slow on mobile.",
		"category":    "Technical",
	})
	require.Equal(t, http.StatusCreated, status)
	id := body["data"].(map[string]any)["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestRoutes_UngatedModeAllowsStandardUserTriage(t *testing.T) {
	app := newTestApp(t, false)
	token := registerAndLogin(t, app, "john@example.com")
	id := createOverHTTP(t, app, token)

	status, body := doJSON(t, app, http.MethodPatch, "/api/admin/complaints/"+id+"/status", token, map[string]string{
		"status": "resolved",
		"note":   "done",
	})
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	require.Equal(t, "resolved", data["status"])
	require.Equal(t, "done", data["admin_notes"])

	status, _ = doJSON(t, app, http.MethodPatch, "/api/admin/complaints/"+id+"/priority", token, map[string]string{
		"priority": "high",
	})
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodDelete, "/api/admin/complaints/"+id, token, nil)
	require.Equal(t, http.StatusNoContent, status)
}

func TestRoutes_GatedModeRejectsStandardUserTriage(t *testing.T) {
	app := newTestApp(t, true)
	token := registerAndLogin(t, app, "sarah@example.com")
	id := createOverHTTP(t, app, token)

	status, body := doJSON(t, app, http.MethodPatch, "/api/admin/complaints/"+id+"/status", token, map[string]string{
		"status": "resolved",
	})
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "ACCESS_DENIED", body["error"].(map[string]any)["code"])
}

func TestRoutes_TriageRequiresAuthenticationInEitherMode(t *testing.T) {
	for _, roleGated := range []bool{false, true} {
		app := newTestApp(t, roleGated)
		status, _ := doJSON(t, app, http.MethodPatch, "/api/admin/complaints/some-id/status", "", map[string]string{
			"status": "resolved",
		})
		require.Equal(t, http.StatusUnauthorized, status, fmt.Sprintf("roleGated=%v", roleGated))
	}
}
