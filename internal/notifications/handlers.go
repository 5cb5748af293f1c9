package notifications

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

// GET /api/notifications?read= (auth)
func (h *Handlers) GetNotifications(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	var read *bool
	switch c.Query("read") {
	case "true":
		v := true
		read = &v
	case "false":
		v := false
		read = &v
	}
	out, err := h.Service.List(c.Context(), user.UserID, read)
	if err != nil {
		return response.Error(c, 500, "Internal Server Error")
	}
	return c.JSON(out)
}

// PUT /api/notifications/:id/read (auth)
func (h *Handlers) MarkAsRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid ID format")
	}
	user := middleware.CurrentUser(c)
	n, err := h.Service.MarkAsRead(c.Context(), id, user.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return response.Error(c, 404, err.Error())
		}
		return response.Error(c, 500, "Internal Server Error")
	}
	return c.JSON(n)
}
