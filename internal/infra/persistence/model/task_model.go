package model

import (
	"time"

	"github.com/google/uuid"
)

// TaskModel mirrors the 'tasks' table. OwnerID references users.id (UUID).
type TaskModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	Completed   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (TaskModel) TableName() string {
	return "tasks"
}
