package handlers

import (
	"log"

	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/handlers/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type WebSocketHandler struct {
	gateway *ws.Gateway
}

func NewWebSocketHandler(gateway *ws.Gateway) *WebSocketHandler {
	return &WebSocketHandler{gateway: gateway}
}

// HandleWebSocket runs one connection's event loop. Every inbound frame is
// an independent unit of work; processing failures surface as error events
// and never terminate the connection.
func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	client := ws.NewClient(uuid.NewString(), c)
	h.gateway.OnConnect(client)
	defer h.gateway.OnDisconnect(client)

	ctx := &ws.MessageContext{
		Client:  client,
		Gateway: h.gateway,
	}

	for {
		_, messageBytes, err := c.ReadMessage()
		if err != nil {
			log.Printf("ws: connection %s read: %v", client.ID, err)
			break
		}

		msg, err := ws.Deserialize(messageBytes)
		if err != nil {
			log.Printf("ws: connection %s sent invalid frame: %v", client.ID, err)
			if err := ws.SendError(client, err); err != nil {
				break
			}
			continue
		}

		if err := msg.Process(ctx); err != nil {
			log.Printf("ws: connection %s processing %s: %v", client.ID, msg.GetType(), err)
			if err := ws.SendError(client, err); err != nil {
				break
			}
		}
	}
}
