package models

import (
	"time"

	"gorm.io/gorm"
)

type Room struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	GroupID uint   `gorm:"not null;index" json:"group_id"`
	Group   *Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Name    string `gorm:"size:100" json:"name"`

	Members  []RoomMember `gorm:"foreignKey:RoomID" json:"members,omitempty"`
	Messages []Message    `gorm:"foreignKey:RoomID" json:"-"`
}
