package models

import "time"

type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusAccepted  SwapStatus = "accepted"
	SwapStatusRejected  SwapStatus = "rejected"
	SwapStatusCancelled SwapStatus = "cancelled"
	SwapStatusCompleted SwapStatus = "completed"
)

// ValidSwapStatus reports whether the value is a known status.
func ValidSwapStatus(s SwapStatus) bool {
	switch s {
	case SwapStatusPending, SwapStatusAccepted, SwapStatusRejected, SwapStatusCancelled, SwapStatusCompleted:
		return true
	}
	return false
}

type SwapRequest struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	FromUserID   uint64     `gorm:"index;not null" json:"from_user_id"`
	ToUserID     uint64     `gorm:"index;not null" json:"to_user_id"`
	OfferedSkill string     `gorm:"type:varchar(100);not null" json:"offered_skill"`
	WantedSkill  string     `gorm:"type:varchar(100);not null" json:"wanted_skill"`
	Status       SwapStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Message      string     `gorm:"type:varchar(500)" json:"message"`
	AdminNote    string     `gorm:"type:varchar(500)" json:"admin_note"`
	AcceptedAt   *time.Time `json:"accepted_at"`
	RejectedAt   *time.Time `json:"rejected_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations (weak references; counterparties may be deactivated)
	FromUser User       `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"`
	ToUser   User       `gorm:"foreignKey:ToUserID" json:"to_user,omitempty"`
	Feedback []Feedback `gorm:"foreignKey:SwapID" json:"feedback,omitempty"`
}

// IsParticipant reports whether the user is the sender or the recipient.
func (s *SwapRequest) IsParticipant(userID uint64) bool {
	return s.FromUserID == userID || s.ToUserID == userID
}

// OtherParticipant returns the counterparty of the given participant.
func (s *SwapRequest) OtherParticipant(userID uint64) uint64 {
	if s.FromUserID == userID {
		return s.ToUserID
	}
	return s.FromUserID
}
