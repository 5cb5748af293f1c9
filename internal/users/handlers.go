package users

import (
	"encoding/json"
	"errors"

	"farmlink-backend/internal/domain"
	"farmlink-backend/internal/middleware"
	"farmlink-backend/internal/pkg/params"
	"farmlink-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Handlers struct {
	Service *Service
}

type userBody struct {
	FirstName      *string             `json:"firstName"`
	LastName       *string             `json:"lastName"`
	Email          *string             `json:"email"`
	Role           *string             `json:"role"`
	IsVerified     *bool               `json:"isVerified"`
	Location       *domain.Coordinates `json:"location"`
	FarmSize       *float64            `json:"farmSize"`
	Crops          []string            `json:"crops"`
	ProfilePicture *string             `json:"profilePicture"`
}

func (b *userBody) toInput(adminFields bool) UpdateUserInput {
	in := UpdateUserInput{
		FirstName:      b.FirstName,
		LastName:       b.LastName,
		Email:          b.Email,
		Location:       b.Location,
		FarmSize:       b.FarmSize,
		ProfilePicture: b.ProfilePicture,
	}
	if adminFields {
		if b.Role != nil && (*b.Role == domain.RoleFarmer || *b.Role == domain.RoleBuyer || *b.Role == domain.RoleAdmin) {
			in.Role = b.Role
		}
		in.IsVerified = b.IsVerified
	}
	if b.Crops != nil {
		if raw, err := json.Marshal(b.Crops); err == nil {
			in.Crops = datatypes.JSON(raw)
		}
	}
	return in
}

// GET /api/users (admin)
func (h *Handlers) GetUsers(c *fiber.Ctx) error {
	users, err := h.Service.GetUsers(c.Context())
	if err != nil {
		return response.Error(c, 500, "Internal Server Error")
	}
	return c.JSON(users)
}

// GET /api/users/:id (admin)
func (h *Handlers) GetUserByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid ID format")
	}
	user, err := h.Service.GetUserByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return response.Error(c, 404, err.Error())
		}
		return response.Error(c, 500, "Internal Server Error")
	}
	return c.JSON(user)
}

// PUT /api/users/:id (admin)
func (h *Handlers) UpdateUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid ID format")
	}
	var body userBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, 400, "Invalid request body")
	}
	user, err := h.Service.UpdateUser(c.Context(), id, body.toInput(true))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return response.Error(c, 404, err.Error())
		}
		return response.Error(c, 500, "Internal Server Error")
	}
	return c.JSON(user)
}

// DELETE /api/users/:id (admin)
func (h *Handlers) DeleteUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid ID format")
	}
	if err := h.Service.DeleteUser(c.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return response.Error(c, 404, err.Error())
		}
		return response.Error(c, 500, "Internal Server Error")
	}
	return c.JSON(fiber.Map{"message": "User removed"})
}

// GET /api/users/farmers/nearby (auth)
func (h *Handlers) GetNearbyFarmers(c *fiber.Ctx) error {
	lng := params.Float(c.Query("longitude"))
	lat := params.Float(c.Query("latitude"))
	if lng == nil || lat == nil {
		return response.Error(c, 400, "Please provide longitude and latitude")
	}
	distance := 50.0
	if d := params.Float(c.Query("distance")); d != nil && *d > 0 {
		distance = *d
	}
	farmers, err := h.Service.GetNearbyFarmers(c.Context(), *lng, *lat, distance)
	if err != nil {
		return response.Error(c, 500, "Internal Server Error")
	}
	return c.JSON(farmers)
}

// GET /api/auth/profile (auth)
func (h *Handlers) GetProfile(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

// PUT /api/auth/profile (auth). Role and verification are not
// self-service fields.
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	var body userBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, 400, "Invalid request body")
	}
	user := middleware.CurrentUser(c)
	updated, err := h.Service.UpdateUser(c.Context(), user.UserID, body.toInput(false))
	if err != nil {
		return response.Error(c, 500, "Internal Server Error")
	}
	return c.JSON(updated)
}
