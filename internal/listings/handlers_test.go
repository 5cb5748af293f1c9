package listings

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"farmlink-backend/internal/domain"
	"farmlink-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupListingApp(t *testing.T, actor *domain.User) (*fiber.App, *Service) {
	svc := setupListingTest(t)
	h := &Handlers{Service: svc}

	app := fiber.New()
	if actor != nil {
		app.Use(func(c *fiber.Ctx) error {
			middleware.SetCurrentUser(c, actor)
			return c.Next()
		})
	}
	app.Get("/api/listings", h.GetListings)
	app.Post("/api/listings", h.CreateListing)
	app.Get("/api/listings/user/:id", h.GetUserListings)
	app.Get("/api/listings/:id", h.GetListingByID)
	app.Put("/api/listings/:id", h.UpdateListing)
	app.Delete("/api/listings/:id", h.DeleteListing)
	return app, svc
}

func TestCreateListing_ValidationProblemsJoined(t *testing.T) {
	seller := domain.User{Role: domain.RoleFarmer}
	app, _ := setupListingApp(t, &seller)

	payload, _ := json.Marshal(map[string]interface{}{
		"title":    "Maize",
		"price":    -2,
		"category": "spaceships",
	})
	req := httptest.NewRequest("POST", "/api/listings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "Price must be a positive number")
	assert.Contains(t, body["error"], "Invalid category")
	assert.Contains(t, body["error"], "Location must be an array of [longitude, latitude]")
}

func TestCreateListing_ReturnsRawListing(t *testing.T) {
	svcSeller := domain.User{Role: domain.RoleFarmer}
	app, svc := setupListingApp(t, &svcSeller)
	seller := seedSeller(t, svc.DB, "alice")
	svcSeller.UserID = seller.UserID

	payload, _ := json.Marshal(map[string]interface{}{
		"title":       "Fresh maize",
		"description": "Harvested this week",
		"price":       120,
		"category":    "produce",
		"quantity":    500,
		"unit":        "kg",
		"location":    map[string]interface{}{"type": "Point", "coordinates": []float64{32.58, 0.31}},
		"images":      []string{"https://img.example.com/1.jpg"},
	})
	req := httptest.NewRequest("POST", "/api/listings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Fresh maize", body["title"])
	assert.Equal(t, seller.UserID.String(), body["seller"])
	assert.Equal(t, true, body["isActive"])

	loc := body["location"].(map[string]interface{})
	assert.Equal(t, "Point", loc["type"])
}

func TestGetListings_MalformedLocation(t *testing.T) {
	app, _ := setupListingApp(t, nil)

	req := httptest.NewRequest("GET", "/api/listings?location=32.58", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/listings?location=abc,0.31", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateListing_ForbiddenForNonOwner(t *testing.T) {
	intruder := domain.User{Role: domain.RoleBuyer}
	app, svc := setupListingApp(t, &intruder)
	owner := seedSeller(t, svc.DB, "alice")
	other := seedSeller(t, svc.DB, "bob")
	intruder.UserID = other.UserID
	listing := seedListing(t, svc.DB, owner.UserID, "Maize", 100, 0, 0)

	payload, _ := json.Marshal(map[string]interface{}{"title": "Hijacked"})
	req := httptest.NewRequest("PUT", "/api/listings/"+listing.ListingID.String(), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestDeleteListing_RemovedMessage(t *testing.T) {
	actor := domain.User{Role: domain.RoleFarmer}
	app, svc := setupListingApp(t, &actor)
	owner := seedSeller(t, svc.DB, "alice")
	actor.UserID = owner.UserID
	listing := seedListing(t, svc.DB, owner.UserID, "Maize", 100, 0, 0)

	req := httptest.NewRequest("DELETE", "/api/listings/"+listing.ListingID.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Listing removed", body["message"])
}

func TestGetListingByID_NotFoundAndMalformed(t *testing.T) {
	app, _ := setupListingApp(t, nil)

	req := httptest.NewRequest("GET", "/api/listings/not-a-uuid", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/listings/7b9d3c8e-0b1a-4b7e-9c2d-1f2e3a4b5c6d", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
