package post

import "time"

// Post has non-empty Text or a non-nil ImageURL, never neither. ImageURL is
// a weak reference: the object's storage lifecycle is not tied to the row.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CommunityID uint      `gorm:"index;not null" json:"community_id"`
	UserID      string    `gorm:"size:64;index" json:"user_id"`
	Text        string    `gorm:"type:text" json:"text"`
	ImageURL    *string   `gorm:"size:512" json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}
