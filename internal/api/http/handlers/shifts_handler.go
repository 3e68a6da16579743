package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staffing-service/internal/api/dto"
	"github.com/spec-kit/staffing-service/internal/auth"
	"github.com/spec-kit/staffing-service/internal/domain"
	"github.com/spec-kit/staffing-service/internal/service"
	apperrors "github.com/spec-kit/staffing-service/pkg/util"
)

// ShiftsHandler manages shift publication and browsing endpoints.
type ShiftsHandler struct {
	service *service.ShiftService
}

// NewShiftsHandler constructs handler.
func NewShiftsHandler(shiftService *service.ShiftService) *ShiftsHandler {
	return &ShiftsHandler{service: shiftService}
}

// CreateShift POST /shifts (organizer).
func (h *ShiftsHandler) CreateShift(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateShiftRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	shift, err := h.service.CreateShift(c.Context(), principal.User.ID, service.ShiftCreateInput{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Address:     req.Address,
		HourlyRate:  req.HourlyRate,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": shiftResponse(shift)})
}

// ListShifts GET /shifts. Organizers see their own shifts; therapists see
// open ones.
func (h *ShiftsHandler) ListShifts(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit, offset := parsePagination(c)

	var (
		shifts []domain.Shift
		err    error
	)
	if principal.Role == domain.RoleOrganizer {
		shifts, err = h.service.ListOrganizerShifts(c.Context(), principal.User.ID, limit, offset)
	} else {
		shifts, err = h.service.ListOpenShifts(c.Context(), limit, offset)
	}
	if err != nil {
		return err
	}

	items := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		items = append(items, shiftResponse(&shifts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetShift GET /shifts/:id.
func (h *ShiftsHandler) GetShift(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	shift, err := h.service.GetShift(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": shiftResponse(shift)})
}

func parsePagination(c *fiber.Ctx) (limit, offset int) {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	return pageSize, (page - 1) * pageSize
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func shiftResponse(shift *domain.Shift) dto.ShiftResponse {
	return dto.ShiftResponse{
		ID:          shift.ID,
		OrganizerID: shift.OrganizerID,
		Title:       shift.Title,
		Description: shift.Description,
		StartTime:   shift.StartTime,
		EndTime:     shift.EndTime,
		Location:    shift.Location,
		Address:     shift.Address,
		HourlyRate:  shift.HourlyRate,
		Status:      shift.Status,
		CreatedAt:   shift.CreatedAt,
		UpdatedAt:   shift.UpdatedAt,
	}
}
