package models

import (
	"time"
)

type MemberRole string

const (
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
)

// RoomMember is the persisted (room, user) relation.
// last_read_message_id is monotonic and represents the highest message ID
// the member is considered to have seen; it never decreases once set.
type RoomMember struct {
	RoomID            uint       `gorm:"primaryKey" json:"room_id"`
	UserID            string     `gorm:"primaryKey;type:varchar(36)" json:"user_id"`
	Role              MemberRole `gorm:"type:varchar(20);default:'member'" json:"role"`
	LastReadMessageID uint       `gorm:"not null;default:0" json:"last_read_message_id"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
	Room Room `gorm:"foreignKey:RoomID" json:"-"`
}
