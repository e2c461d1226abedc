package models

import "time"

// Feedback is a single rating entry. Entries attached to a swap carry its ID;
// direct user-to-user feedback leaves SwapID NULL. A swap accepts at most one
// entry per author, enforced by the composite unique index.
type Feedback struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	SwapID     *uint64   `gorm:"uniqueIndex:idx_feedback_swap_author" json:"swap_id,omitempty"`
	FromUserID uint64    `gorm:"uniqueIndex:idx_feedback_swap_author;not null" json:"from_user_id"`
	ToUserID   uint64    `gorm:"index;not null" json:"to_user_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"type:varchar(500)" json:"comment"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	From User `gorm:"foreignKey:FromUserID" json:"from,omitempty"`
}
