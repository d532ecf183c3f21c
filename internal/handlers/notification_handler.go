package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/httpx"
	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/notify"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// keepAliveFrame is distinguishable from data frames by its type sentinel.
type keepAliveFrame struct {
	Type string `json:"type"`
}

const defaultKeepAliveInterval = 30 * time.Second

type NotificationHandler struct {
	bridge            *notify.Bridge
	keepAliveInterval time.Duration
}

// NewNotificationHandler builds a handler streaming from bridge. A
// non-positive keepAlive falls back to the default interval.
func NewNotificationHandler(bridge *notify.Bridge, keepAlive time.Duration) *NotificationHandler {
	if keepAlive <= 0 {
		keepAlive = defaultKeepAliveInterval
	}
	return &NotificationHandler{
		bridge:            bridge,
		keepAliveInterval: keepAlive,
	}
}

// StreamChat serves GET /notification/chat/:groupId as a server-sent event
// stream. Chat events for the group are multiplexed with fixed-interval
// keep-alive frames so idle-timeout proxies do not close the connection.
func (h *NotificationHandler) StreamChat(c *fiber.Ctx) error {
	groupID, err := c.ParamsInt("groupId")
	if err != nil || groupID <= 0 {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group id")
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	events, cancel := h.bridge.Subscribe(uint(groupID))

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		h.stream(w, events)
	}))

	return nil
}

// stream pumps chat events and keep-alive frames to w until the
// subscription closes or the peer goes away.
func (h *NotificationHandler) stream(w *bufio.Writer, events <-chan notify.Event) {
	ticker := time.NewTicker(h.keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if !writeFrame(w, data) {
				return
			}
		case <-ticker.C:
			data, _ := json.Marshal(keepAliveFrame{Type: "keep-alive"})
			if !writeFrame(w, data) {
				return
			}
		}
	}
}

func writeFrame(w *bufio.Writer, data []byte) bool {
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return false
	}
	return w.Flush() == nil
}
