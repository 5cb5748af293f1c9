package listings

import (
	"encoding/json"
	"errors"
	"strings"

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

type listingBody struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Price       *float64            `json:"price"`
	Category    *string             `json:"category"`
	Quantity    *float64            `json:"quantity"`
	Unit        *string             `json:"unit"`
	Images      []string            `json:"images"`
	Location    *domain.Coordinates `json:"location"`
	IsActive    *bool               `json:"isActive"`
}

// POST /api/listings (farmer)
func (h *Handlers) CreateListing(c *fiber.Ctx) error {
	var body listingBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, 400, "Invalid request body")
	}
	var problems []string
	if body.Title == nil || strings.TrimSpace(*body.Title) == "" {
		problems = append(problems, "Title is required")
	}
	if body.Description == nil || strings.TrimSpace(*body.Description) == "" {
		problems = append(problems, "Description is required")
	}
	if body.Price == nil || *body.Price <= 0 {
		problems = append(problems, "Price must be a positive number")
	}
	if body.Category == nil || !domain.ValidListingCategory(*body.Category) {
		problems = append(problems, "Invalid category")
	}
	if body.Quantity == nil || *body.Quantity <= 0 {
		problems = append(problems, "Quantity must be a positive number")
	}
	if body.Unit == nil || strings.TrimSpace(*body.Unit) == "" {
		problems = append(problems, "Unit is required")
	}
	if body.Location == nil {
		problems = append(problems, "Location must be an array of [longitude, latitude]")
	}
	if len(problems) > 0 {
		return response.Error(c, 400, strings.Join(problems, ", "))
	}

	images := datatypes.JSON([]byte("[]"))
	if body.Images != nil {
		b, _ := marshalImages(body.Images)
		images = b
	}
	user := middleware.CurrentUser(c)
	listing, err := h.Service.CreateListing(c.Context(), user.UserID, domain.Listing{
		Title:       *body.Title,
		Description: *body.Description,
		Price:       *body.Price,
		Category:    *body.Category,
		Quantity:    *body.Quantity,
		Unit:        *body.Unit,
		Images:      images,
		Location:    *body.Location,
	})
	if err != nil {
		return response.Error(c, 500, "Internal Server Error")
	}
	return c.Status(201).JSON(listing)
}

// GET /api/listings (public)
func (h *Handlers) GetListings(c *fiber.Ctx) error {
	filter := ListingFilter{
		Category: c.Query("category"),
		MinPrice: params.Float(c.Query("minPrice")),
		MaxPrice: params.Float(c.Query("maxPrice")),
	}
	if loc := c.Query("location"); loc != "" {
		parts := strings.Split(loc, ",")
		if len(parts) != 2 {
			return response.Error(c, 400, "location must be 'longitude,latitude'")
		}
		lng := params.Float(parts[0])
		lat := params.Float(parts[1])
		if lng == nil || lat == nil {
			return response.Error(c, 400, "location must be 'longitude,latitude'")
		}
		radius := 50.0
		if r := params.Float(c.Query("radius")); r != nil && *r > 0 {
			radius = *r
		}
		filter.Geo = &GeoFilter{Longitude: *lng, Latitude: *lat, RadiusKm: radius}
	}
	listings, err := h.Service.GetListings(c.Context(), filter)
	if err != nil {
		return response.Error(c, 500, "Internal Server Error")
	}
	return c.JSON(listings)
}

// GET /api/listings/:id (public)
func (h *Handlers) GetListingByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid ID format")
	}
	listing, err := h.Service.GetListingByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return response.Error(c, 404, err.Error())
		}
		return response.Error(c, 500, "Internal Server Error")
	}
	return c.JSON(listing)
}

// PUT /api/listings/:id (owner or admin)
func (h *Handlers) UpdateListing(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid ID format")
	}
	var body listingBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, 400, "Invalid request body")
	}
	in := UpdateListingInput{
		Title:       body.Title,
		Description: body.Description,
		Price:       body.Price,
		Category:    body.Category,
		Quantity:    body.Quantity,
		Unit:        body.Unit,
		Location:    body.Location,
		IsActive:    body.IsActive,
	}
	if body.Images != nil {
		b, _ := marshalImages(body.Images)
		in.Images = b
	}
	listing, err := h.Service.UpdateListing(c.Context(), id, middleware.CurrentUser(c), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return response.Error(c, 404, err.Error())
		case errors.Is(err, ErrNotOwner):
			return response.Error(c, 403, err.Error())
		case errors.Is(err, ErrValidation):
			return response.Error(c, 400, err.Error())
		default:
			return response.Error(c, 500, "Internal Server Error")
		}
	}
	return c.JSON(listing)
}

// DELETE /api/listings/:id (owner or admin)
func (h *Handlers) DeleteListing(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid ID format")
	}
	if err := h.Service.DeleteListing(c.Context(), id, middleware.CurrentUser(c)); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return response.Error(c, 404, err.Error())
		case errors.Is(err, ErrNotOwner):
			return response.Error(c, 403, err.Error())
		default:
			return response.Error(c, 500, "Internal Server Error")
		}
	}
	return c.JSON(fiber.Map{"message": "Listing removed"})
}

// GET /api/listings/user/:id (auth)
func (h *Handlers) GetUserListings(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid ID format")
	}
	listings, err := h.Service.GetUserListings(c.Context(), id)
	if err != nil {
		return response.Error(c, 500, "Internal Server Error")
	}
	return c.JSON(listings)
}

func marshalImages(images []string) (datatypes.JSON, error) {
	b, err := json.Marshal(images)
	if err != nil {
		return datatypes.JSON([]byte("[]")), err
	}
	return datatypes.JSON(b), nil
}
