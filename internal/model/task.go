package model

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Priority    string     `gorm:"not null;default:'medium';check:priority IN ('low', 'medium', 'high')" json:"priority"`
	Status      string     `gorm:"not null;default:'To Do';check:status IN ('To Do', 'In Progress', 'Done')" json:"status"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

// Task statuses
const (
	StatusTodo       = "To Do"
	StatusInProgress = "In Progress"
	StatusDone       = "Done"

	// StatusAll is a query-only sentinel meaning "no status filter"; it is
	// never stored.
	StatusAll = "all"
)

// Task priorities, ranked high > medium > low for sorting
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)
