package community

import "time"

type Community struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedBy   string    `gorm:"size:64;index" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}
