package ws

import (
	"log"

	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/broker"
	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/models"
	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/notify"
	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/service"
)

// Gateway owns the per-connection lifecycle: connect, join, message, leave,
// disconnect. It orchestrates persistence and cursor updates through the
// chat service, presence through the registry, and delivery through the
// broker and hub.
type Gateway struct {
	hub      *Hub
	registry *RoomRegistry
	chat     *service.ChatService
	notify   *notify.Bridge
	broker   broker.Broker
}

func NewGateway(hub *Hub, registry *RoomRegistry, chat *service.ChatService, bridge *notify.Bridge) *Gateway {
	return &Gateway{
		hub:      hub,
		registry: registry,
		chat:     chat,
		notify:   bridge,
	}
}

// SetBroker attaches the cross-instance broker. The broker's delivery
// handler is Deliver, so it must be constructed after the gateway.
func (g *Gateway) SetBroker(b broker.Broker) {
	g.broker = b
}

// OnConnect registers a connection with no bound room and refreshes the
// advisory room list for everyone.
func (g *Gateway) OnConnect(client *Client) {
	g.hub.Register(client)
	g.broadcastRoomList()
}

// OnDisconnect applies the same effects as an explicit leave for whatever
// identity was bound. Safe on an unbound connection.
func (g *Gateway) OnDisconnect(client *Client) {
	if s := client.Session(); s != nil {
		g.registry.Remove(s.RoomID, s.UserID)
		if err := g.chat.CatchUp(s.RoomID, s.UserID); err != nil {
			log.Printf("gateway: catch-up on disconnect for %s in room %d: %v", s.UserID, s.RoomID, err)
		}
		client.Unbind()
	}
	for _, roomID := range g.hub.Unregister(client.ID) {
		g.unsubscribe(roomID)
	}
	g.broadcastRoomList()
}

// JoinRoom validates the join, binds the identity to the connection, updates
// presence and the member's cursor, and subscribes the room's broadcast
// channel. No state is mutated when validation fails.
func (g *Gateway) JoinRoom(client *Client, roomID uint, userID string) error {
	room, err := g.chat.JoinRoom(roomID, userID)
	if err != nil {
		return err
	}

	client.Bind(roomID, userID)
	g.registry.Add(roomID, room.Name, userID)

	if first := g.hub.JoinChannel(roomID, client); first && g.broker != nil {
		if err := g.broker.Subscribe(roomID); err != nil {
			// Without the backbone channel this instance would silently
			// miss the room's cross-instance traffic. Roll the join back
			// so the client can retry.
			g.hub.LeaveChannel(roomID, client.ID)
			g.registry.Remove(roomID, userID)
			client.Unbind()
			log.Printf("gateway: subscribing room %d on backbone: %v", roomID, err)
			return err
		}
	}

	g.broadcastRoomList()
	return nil
}

// SendMessage validates, persists and fans out one chat message. Failures
// before persistence abort the whole send; failures after persistence affect
// delivery only.
func (g *Gateway) SendMessage(client *Client, m *MessageChat) error {
	sender, explicit, err := g.effectiveSender(client, m)
	if err != nil {
		return err
	}

	msgType := models.TextMessage
	if m.MessageType == "SCHEDULE" {
		msgType = models.ScheduleMessage
	}

	present := g.registry.Users(m.Room)
	envelope, groupID, err := g.chat.SendMessage(m.Room, sender, m.Message, msgType, present, explicit)
	if err != nil {
		return err
	}

	g.notify.Publish(groupID, envelope)

	if g.broker != nil {
		if err := g.broker.Publish(m.Room, envelope); err != nil {
			// The message is durable; only delivery suffered.
			log.Printf("gateway: publishing room %d on backbone: %v", m.Room, err)
		}
	}
	return nil
}

// effectiveSender resolves the author of a message: an explicit sender
// payload takes precedence over the connection's bound identity.
func (g *Gateway) effectiveSender(client *Client, m *MessageChat) (service.Sender, bool, error) {
	if m.Sender != nil && m.Sender.ID != "" {
		return service.Sender{ID: m.Sender.ID, Name: m.Sender.Name, Avatar: m.Sender.Avatar}, true, nil
	}
	s := client.Session()
	if s == nil {
		return service.Sender{}, false, service.ErrUnknownIdentity
	}
	return service.Sender{ID: s.UserID}, false, nil
}

// LeaveRoom reverses a join: presence entry removed, cursor caught up,
// channel released, room list refreshed.
func (g *Gateway) LeaveRoom(client *Client, roomID uint) error {
	s := client.Session()
	if s == nil || s.RoomID != roomID {
		return service.ErrUnknownIdentity
	}

	g.registry.Remove(roomID, s.UserID)
	if err := g.chat.CatchUp(roomID, s.UserID); err != nil {
		log.Printf("gateway: catch-up on leave for %s in room %d: %v", s.UserID, roomID, err)
	}
	if last := g.hub.LeaveChannel(roomID, client.ID); last {
		g.unsubscribe(roomID)
	}
	client.Unbind()

	g.broadcastRoomList()
	return nil
}

// Deliver is the broker's handler: a room broadcast arrived (from any
// instance, including this one) and goes out to local connections.
func (g *Gateway) Deliver(roomID uint, envelope *models.MessageEnvelope) {
	data, err := Envelope(EventMessage, envelope)
	if err != nil {
		log.Printf("gateway: encoding message event for room %d: %v", roomID, err)
		return
	}
	g.hub.BroadcastRoom(roomID, data)
}

func (g *Gateway) broadcastRoomList() {
	data, err := Envelope(EventRoomList, g.registry.Counts())
	if err != nil {
		log.Printf("gateway: encoding room list: %v", err)
		return
	}
	g.hub.BroadcastAll(data)
}

func (g *Gateway) unsubscribe(roomID uint) {
	if g.broker == nil {
		return
	}
	if err := g.broker.Unsubscribe(roomID); err != nil {
		log.Printf("gateway: unsubscribing room %d on backbone: %v", roomID, err)
	}
}
