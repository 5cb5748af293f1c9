package messaging

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

func setupMessagingApp(t *testing.T, actor *domain.User) (*fiber.App, *Service) {
	svc := setupMessagingTest(t)
	h := &Handlers{Service: svc}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		middleware.SetCurrentUser(c, actor)
		return c.Next()
	})
	app.Post("/api/messages", h.SendMessage)
	app.Get("/api/messages/conversations", h.GetConversations)
	app.Get("/api/messages/:userId", h.GetMessages)
	return app, svc
}

func TestSendMessage_BodyValidation(t *testing.T) {
	actor := &domain.User{}
	app, svc := setupMessagingApp(t, actor)
	alice := seedMessagingUser(t, svc.DB, "alice")
	bob := seedMessagingUser(t, svc.DB, "bob")
	actor.UserID = alice.UserID

	// Bad receiver id.
	payload, _ := json.Marshal(map[string]string{"receiver": "nope", "content": "hi"})
	req := httptest.NewRequest("POST", "/api/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Blank content.
	payload, _ = json.Marshal(map[string]string{"receiver": bob.UserID.String(), "content": "   "})
	req = httptest.NewRequest("POST", "/api/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Valid send.
	payload, _ = json.Marshal(map[string]string{"receiver": bob.UserID.String(), "content": "hi"})
	req = httptest.NewRequest("POST", "/api/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "hi", body["content"])
	assert.Equal(t, bob.UserID.String(), body["receiver"])
}

func TestSendMessage_UnknownReceiver404(t *testing.T) {
	actor := &domain.User{}
	app, svc := setupMessagingApp(t, actor)
	alice := seedMessagingUser(t, svc.DB, "alice")
	actor.UserID = alice.UserID

	payload, _ := json.Marshal(map[string]string{
		"receiver": "7b9d3c8e-0b1a-4b7e-9c2d-1f2e3a4b5c6d", "content": "hi",
	})
	req := httptest.NewRequest("POST", "/api/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetMessages_MalformedCounterpartID(t *testing.T) {
	actor := &domain.User{}
	app, _ := setupMessagingApp(t, actor)

	req := httptest.NewRequest("GET", "/api/messages/not-a-uuid", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
