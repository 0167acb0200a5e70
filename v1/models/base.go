package models

import (
	"time"
)

// BaseModel contains common fields shared by all persisted entities
type BaseModel struct {
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
