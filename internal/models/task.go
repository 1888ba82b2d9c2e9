package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// Task always has an owning user. TeamID is an optional co-assignment: team
// moderators gain mutation rights, team members gain read access, ownership
// is not displaced.
type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:varchar(1024)" json:"description"`
	Status      TaskStatus     `gorm:"type:varchar(50);not null;default:'pending'" json:"status"`
	DueDate     *time.Time     `json:"due_date"`
	OwnerID     uint64         `gorm:"not null" json:"owner_id"`
	TeamID      *uint64        `json:"team_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Team  *Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}
