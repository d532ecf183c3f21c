package models

import (
	"time"
)

type MessageType string

const (
	TextMessage     MessageType = "text"
	ScheduleMessage MessageType = "schedule"
)

type Message struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RoomID   uint   `gorm:"not null;index" json:"room_id"`
	Room     *Room  `gorm:"foreignKey:RoomID" json:"-"`
	SenderID string `gorm:"not null;index;type:varchar(36)" json:"sender_id"`
	Sender   User   `gorm:"foreignKey:SenderID" json:"sender"`

	MessageType MessageType `gorm:"type:varchar(20);default:'text'" json:"message_type"`
	// Content holds the text for text messages and the referenced schedule
	// id (decimal string) for schedule messages.
	Content string `gorm:"type:text;not null" json:"content"`
}

// MessageEnvelope is the display-ready shape broadcast to room channels and
// published to the notification stream. Field names are the wire protocol.
type MessageEnvelope struct {
	SenderID     string    `json:"senderId" msgpack:"senderId"`
	SenderName   string    `json:"senderName" msgpack:"senderName"`
	SenderAvatar string    `json:"senderAvatar" msgpack:"senderAvatar"`
	Message      string    `json:"message" msgpack:"message"`
	Timestamp    time.Time `json:"timestamp" msgpack:"timestamp"`
	UnreadCount  int64     `json:"unreadCount" msgpack:"unreadCount"`
}

// MessageView is a hydrated history entry: schedule references are already
// resolved to display text.
type MessageView struct {
	ID           uint        `json:"id" msgpack:"id"`
	SenderID     string      `json:"sender_id" msgpack:"sender_id"`
	SenderName   string      `json:"sender_name" msgpack:"sender_name"`
	SenderAvatar string      `json:"sender_avatar" msgpack:"sender_avatar"`
	MessageType  MessageType `json:"message_type" msgpack:"message_type"`
	Message      string      `json:"message" msgpack:"message"`
	CreatedAt    time.Time   `json:"created_at" msgpack:"created_at"`
}
