package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staffing-service/internal/api/dto"
	"github.com/spec-kit/staffing-service/internal/auth"
	"github.com/spec-kit/staffing-service/internal/domain"
	"github.com/spec-kit/staffing-service/internal/service"
	apperrors "github.com/spec-kit/staffing-service/pkg/util"
)

// ApplicationsHandler manages application transition endpoints.
type ApplicationsHandler struct {
	service *service.ApplicationService
}

// NewApplicationsHandler constructs handler.
func NewApplicationsHandler(applicationService *service.ApplicationService) *ApplicationsHandler {
	return &ApplicationsHandler{service: applicationService}
}

// Submit POST /shifts/:id/applications (therapist).
func (h *ApplicationsHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	application, err := h.service.Submit(c.Context(), c.Params("id"), principal.User.ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": applicationResponse(application)})
}

// Withdraw POST /applications/:id/withdraw (therapist).
func (h *ApplicationsHandler) Withdraw(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	application, err := h.service.Withdraw(c.Context(), c.Params("id"), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": applicationResponse(application)})
}

// Decide POST /applications/:id/decision (organizer).
func (h *ApplicationsHandler) Decide(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	var accept bool
	switch strings.ToLower(strings.TrimSpace(req.Outcome)) {
	case "accept":
		accept = true
	case "reject":
		accept = false
	default:
		return apperrors.NewValidationError("outcome must be accept or reject",
			map[string]any{"outcome": req.Outcome})
	}

	application, booking, err := h.service.Decide(c.Context(), c.Params("id"), principal.User.ID, accept)
	if err != nil {
		return err
	}
	resp := fiber.Map{"data": applicationResponse(application)}
	if booking != nil {
		resp["booking"] = bookingResponse(booking)
	}
	return c.JSON(resp)
}

func applicationResponse(application *domain.Application) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ID:          application.ID,
		ShiftID:     application.ShiftID,
		TherapistID: application.TherapistID,
		Status:      application.Status,
		CreatedAt:   application.CreatedAt,
		DecidedAt:   application.DecidedAt,
	}
}
