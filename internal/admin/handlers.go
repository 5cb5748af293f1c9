package admin

import (
	"errors"

	"farmlink-backend/internal/middleware"
	"farmlink-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// GET /api/admin/reports?status= (admin)
func (h *Handlers) GetReports(c *fiber.Ctx) error {
	reports, err := h.Service.GetReports(c.Context(), c.Query("status"))
	if err != nil {
		return response.Error(c, 500, "Internal Server Error")
	}
	return c.JSON(reports)
}

// GET /api/admin/reports/:id (admin)
func (h *Handlers) GetReportByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid ID format")
	}
	report, err := h.Service.GetReportByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			return response.Error(c, 404, err.Error())
		}
		return response.Error(c, 500, "Internal Server Error")
	}
	return c.JSON(report)
}

// PUT /api/admin/reports/:id/resolve (admin)
func (h *Handlers) ResolveReport(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid ID format")
	}
	var body struct {
		ActionTaken string `json:"actionTaken"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, 400, "Invalid request body")
	}
	admin := middleware.CurrentUser(c)
	report, err := h.Service.ResolveReport(c.Context(), id, admin.UserID, body.ActionTaken)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			return response.Error(c, 404, err.Error())
		}
		return response.Error(c, 500, "Internal Server Error")
	}
	return c.JSON(report)
}

// PUT /api/admin/reports/:id/dismiss (admin)
func (h *Handlers) DismissReport(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid ID format")
	}
	admin := middleware.CurrentUser(c)
	report, err := h.Service.DismissReport(c.Context(), id, admin.UserID)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			return response.Error(c, 404, err.Error())
		}
		return response.Error(c, 500, "Internal Server Error")
	}
	return c.JSON(report)
}

// GET /api/admin/dashboard (admin)
func (h *Handlers) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.Service.GetDashboardStats(c.Context())
	if err != nil {
		return response.Error(c, 500, "Internal Server Error")
	}
	return c.JSON(stats)
}
