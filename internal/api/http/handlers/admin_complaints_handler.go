package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/heardesk/complaint-service/internal/api/dto"
	"github.com/heardesk/complaint-service/internal/query"
	"github.com/heardesk/complaint-service/internal/service"
	apperrors "github.com/heardesk/complaint-service/pkg/util"
)

// AdminComplaintsHandler exposes triage endpoints over the full store.
type AdminComplaintsHandler struct {
	service *service.ComplaintService
}

// NewAdminComplaintsHandler constructs handler.
func NewAdminComplaintsHandler(complaintService *service.ComplaintService) *AdminComplaintsHandler {
	return &AdminComplaintsHandler{service: complaintService}
}

// List GET /api/admin/complaints.
func (h *AdminComplaintsHandler) List(c *fiber.Ctx) error {
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

// UpdateStatus PATCH /api/admin/complaints/:id/status.
func (h *AdminComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.service.UpdateStatus(c.Context(), identity, c.Params("id"), req.Status, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// UpdatePriority PATCH /api/admin/complaints/:id/priority.
func (h *AdminComplaintsHandler) UpdatePriority(c *fiber.Ctx) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdatePriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.service.UpdatePriority(c.Context(), identity, c.Params("id"), req.Priority)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// Assign PATCH /api/admin/complaints/:id/assignee.
func (h *AdminComplaintsHandler) Assign(c *fiber.Ctx) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.service.Assign(c.Context(), identity, c.Params("id"), req.AssignedTo)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// Delete DELETE /api/admin/complaints/:id.
func (h *AdminComplaintsHandler) Delete(c *fiber.Ctx) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), identity, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
