package models

import (
	"time"

	"gorm.io/datatypes"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          uint64                      `gorm:"primarykey" json:"id"`
	Title       string                      `gorm:"not null" json:"title"`
	Description string                      `gorm:"type:text" json:"description"`
	ListID      uint64                      `gorm:"not null;index" json:"listId"`
	UserID      uint64                      `gorm:"not null;index" json:"userId"`
	Completed   bool                        `gorm:"not null;default:false" json:"completed"`
	Priority    Priority                    `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	DueDate     *time.Time                  `json:"dueDate"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`

	// Relations
	List List `gorm:"foreignKey:ListID" json:"-"`
}
