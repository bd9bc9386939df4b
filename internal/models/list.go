package models

import "time"

type List struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	BoardID   uint64    `gorm:"not null;index" json:"boardId"`
	Color     string    `gorm:"type:varchar(20)" json:"color"`
	Order     int       `gorm:"column:position;not null;default:0" json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Board Board  `gorm:"foreignKey:BoardID" json:"-"`
	Tasks []Task `gorm:"foreignKey:ListID" json:"tasks,omitempty"`
}
