package handlers

import (
	"errors"

	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/httpx"
	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/service"
	"github.com/gofiber/fiber/v2"
)

const defaultHistoryLimit = 50

type MessageHandler struct {
	chatService *service.ChatService
}

func NewMessageHandler(chatService *service.ChatService) *MessageHandler {
	return &MessageHandler{chatService: chatService}
}

// GetRoomMessages serves room history with schedule references already
// hydrated; deleted schedules render as placeholders.
func (h *MessageHandler) GetRoomMessages(c *fiber.Ctx) error {
	roomID, err := c.ParamsInt("id")
	if err != nil || roomID <= 0 {
		return httpx.BadRequest(c, "invalid_room_id", "Invalid room id")
	}

	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit <= 0 || limit > 200 {
		limit = defaultHistoryLimit
	}

	views, err := h.chatService.RoomHistory(uint(roomID), limit)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoomNotFound):
			return httpx.NotFound(c, "room_not_found", "Room not found")
		case errors.Is(err, service.ErrInvalidRoomContext):
			return httpx.NotFound(c, "invalid_room_context", "Room's group no longer exists")
		default:
			return httpx.Internal(c, "history_failed")
		}
	}

	return c.JSON(fiber.Map{
		"messages": views,
		"count":    len(views),
	})
}

// GetRoomUnread reports the requesting member's unread count for a room.
func (h *MessageHandler) GetRoomUnread(c *fiber.Ctx) error {
	roomID, err := c.ParamsInt("id")
	if err != nil || roomID <= 0 {
		return httpx.BadRequest(c, "invalid_room_id", "Invalid room id")
	}

	userID, err := httpx.LocalString(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "missing_identity", "Missing identity")
	}

	unread, err := h.chatService.Unread(uint(roomID), userID)
	if err != nil {
		if errors.Is(err, service.ErrUnknownIdentity) {
			return httpx.NotFound(c, "not_a_member", "Not a member of this room")
		}
		return httpx.Internal(c, "unread_failed")
	}

	return c.JSON(fiber.Map{
		"room_id": roomID,
		"unread":  unread,
	})
}
