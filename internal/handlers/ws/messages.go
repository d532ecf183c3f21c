package ws

const (
	MsgJoinRoom  = "joinRoom"
	MsgChat      = "message"
	MsgLeaveRoom = "leaveRoom"
)

// MessageJoinRoom binds a connection to a room.
type MessageJoinRoom struct {
	Room   uint   `json:"room"`
	UserID string `json:"userId"`
}

func (msg *MessageJoinRoom) GetType() string {
	return MsgJoinRoom
}

func (msg *MessageJoinRoom) Process(ctx *MessageContext) error {
	return ctx.Gateway.JoinRoom(ctx.Client, msg.Room, msg.UserID)
}

// ChatSender is an explicit sender payload, used when a message originates
// from a server-side event rather than a socket-bound identity.
type ChatSender struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatarUrl"`
}

// MessageChat carries one chat message into a room.
type MessageChat struct {
	Room        uint        `json:"room"`
	Message     string      `json:"message"`
	MessageType string      `json:"messageType"`
	Sender      *ChatSender `json:"sender,omitempty"`
}

func (msg *MessageChat) GetType() string {
	return MsgChat
}

func (msg *MessageChat) Process(ctx *MessageContext) error {
	return ctx.Gateway.SendMessage(ctx.Client, msg)
}

// MessageLeaveRoom releases a connection's room binding.
type MessageLeaveRoom struct {
	Room uint `json:"room"`
}

func (msg *MessageLeaveRoom) GetType() string {
	return MsgLeaveRoom
}

func (msg *MessageLeaveRoom) Process(ctx *MessageContext) error {
	return ctx.Gateway.LeaveRoom(ctx.Client, msg.Room)
}
