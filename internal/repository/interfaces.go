package repository

import (
	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/models"
)

// RoomRepositoryInterface defines the contract for room lookup
type RoomRepositoryInterface interface {
	FindByID(id uint) (*models.Room, error)
}

// GroupRepositoryInterface defines the contract for planning-group lookup
type GroupRepositoryInterface interface {
	FindByID(id uint) (*models.Group, error)
}

// MemberRepositoryInterface defines the contract for room membership and
// read-cursor operations
type MemberRepositoryInterface interface {
	EnsureForMember(roomID uint, userID string, role models.MemberRole) error
	UpsertCursorMonotonic(roomID uint, userID string, lastReadMessageID uint) error
	Get(roomID uint, userID string) (*models.RoomMember, error)
	ListByRoom(roomID uint) ([]models.RoomMember, error)
	CountByRoom(roomID uint) (int64, error)
}

// MessageRepositoryInterface defines the contract for message persistence
// and unread accounting
type MessageRepositoryInterface interface {
	Create(message *models.Message) error
	FindByIDWithSender(id uint) (*models.Message, error)
	LatestMessageID(roomID uint) (uint, error)
	ListByRoom(roomID uint, limit int) ([]models.Message, error)
	CountUnread(roomID uint, afterID uint, excludeSenderID string) (int64, error)
	CountUnreadMembers(roomID uint, messageID uint, senderID string) (int64, error)
}

// UserRepositoryInterface defines the contract for user identity lookup
type UserRepositoryInterface interface {
	FindByID(id string) (*models.User, error)
}

// ScheduleRepositoryInterface defines the contract for schedule hydration;
// the chat core never writes schedules
type ScheduleRepositoryInterface interface {
	FindByID(id uint) (*models.Schedule, error)
}
