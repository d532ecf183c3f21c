package models

import (
	"time"

	"gorm.io/gorm"
)

// Group is the planning group a room belongs to. Rooms are always scoped
// to exactly one group; a room whose group has been removed is unusable.
type Group struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name string `gorm:"size:100;not null" json:"name"`

	Rooms []Room `gorm:"foreignKey:GroupID" json:"-"`
}
