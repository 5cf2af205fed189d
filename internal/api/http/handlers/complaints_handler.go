package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/heardesk/complaint-service/internal/api/dto"
	"github.com/heardesk/complaint-service/internal/auth"
	"github.com/heardesk/complaint-service/internal/query"
	"github.com/heardesk/complaint-service/internal/service"
	apperrors "github.com/heardesk/complaint-service/pkg/util"
)

// ComplaintsHandler manages the authenticated user's complaint endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// Create POST /api/complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.service.Create(c.Context(), identity, service.CreateComplaintInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Priority:      req.Priority,
		SubmitterName: req.SubmitterName,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// List GET /api/complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return err
	}
	records, err := h.service.ListVisible(c.Context(), identity)
	if err != nil {
		return err
	}
	filtered := query.Filter(records, criteriaFromQuery(c))
	return c.JSON(fiber.Map{"data": dto.FromComplaints(filtered)})
}

// Stats GET /api/complaints/stats.
func (h *ComplaintsHandler) Stats(c *fiber.Ctx) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return err
	}
	stats, err := h.service.Stats(c.Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// Get GET /api/complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return err
	}
	complaint, err := h.service.Get(c.Context(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

func criteriaFromQuery(c *fiber.Ctx) query.Criteria {
	return query.Criteria{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
}

func identityFromContext(c *fiber.Ctx) (service.Identity, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return service.Identity{}, apperrors.NewUnauthorized("authentication required")
	}
	return service.Identity{
		ID:    principal.ID,
		Name:  principal.DisplayName,
		Email: principal.Email,
		Role:  principal.Role,
	}, nil
}
