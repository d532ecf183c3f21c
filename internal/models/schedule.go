package models

import (
	"time"

	"gorm.io/gorm"
)

// Schedule is owned by the planning side of the product; the chat core only
// reads it to render schedule-reference messages.
type Schedule struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	GroupID  uint       `gorm:"not null;index" json:"group_id"`
	Title    string     `gorm:"size:200;not null" json:"title"`
	StartsAt *time.Time `json:"starts_at"`
}
