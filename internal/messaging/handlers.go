package messaging

import (
	"errors"
	"strings"

	"farmlink-backend/internal/middleware"
	"farmlink-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

type sendMessageBody struct {
	Receiver string `json:"receiver"`
	Content  string `json:"content"`
	Listing  string `json:"listing"`
}

// POST /api/messages (auth)
func (h *Handlers) SendMessage(c *fiber.Ctx) error {
	var body sendMessageBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, 400, "Invalid request body")
	}
	receiverID, err := uuid.Parse(body.Receiver)
	if err != nil {
		return response.Error(c, 400, "Invalid receiver ID")
	}
	if strings.TrimSpace(body.Content) == "" {
		return response.Error(c, 400, "Content is required")
	}
	var listingID *uuid.UUID
	if body.Listing != "" {
		id, err := uuid.Parse(body.Listing)
		if err != nil {
			return response.Error(c, 400, "Invalid listing ID")
		}
		listingID = &id
	}
	user := middleware.CurrentUser(c)
	msg, err := h.Service.SendMessage(c.Context(), user.UserID, receiverID, body.Content, listingID)
	if err != nil {
		if errors.Is(err, ErrReceiverNotFound) {
			return response.Error(c, 404, err.Error())
		}
		return response.Error(c, 500, "Internal Server Error")
	}
	return c.Status(201).JSON(msg)
}

// GET /api/messages/conversations (auth)
func (h *Handlers) GetConversations(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	convs, err := h.Service.GetConversations(c.Context(), user.UserID)
	if err != nil {
		return response.Error(c, 500, "Internal Server Error")
	}
	return c.JSON(convs)
}

// GET /api/messages/:userId (auth)
func (h *Handlers) GetMessages(c *fiber.Ctx) error {
	otherID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return response.Error(c, 400, "Invalid ID format")
	}
	user := middleware.CurrentUser(c)
	msgs, err := h.Service.GetMessages(c.Context(), user.UserID, otherID)
	if err != nil {
		return response.Error(c, 500, "Internal Server Error")
	}
	return c.JSON(msgs)
}
