package response

import (
	"math"

	"github.com/gofiber/fiber/v2"
)

// Pagination is the pager metadata returned alongside windowed lists.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination computes page count from total and limit.
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// List sends { success, data, pagination }.
func List(c *fiber.Ctx, data interface{}, p Pagination) error {
	return c.JSON(fiber.Map{"success": true, "data": data, "pagination": p})
}

// Data sends { success, data } with the given status.
func Data(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

// Count sends { success, count, data } for deduplicated/latest lists.
func Count(c *fiber.Ctx, data interface{}, count int) error {
	return c.JSON(fiber.Map{"success": true, "count": count, "data": data})
}

// Error sends { success: false, error } with the given status.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": message})
}
