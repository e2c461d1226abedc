package models

import "time"

type Availability string

const (
	AvailabilityWeekends Availability = "weekends"
	AvailabilityEvenings Availability = "evenings"
	AvailabilityWeekdays Availability = "weekdays"
	AvailabilityFlexible Availability = "flexible"
)

// ValidAvailability reports whether the value is one of the supported categories.
func ValidAvailability(a Availability) bool {
	switch a {
	case AvailabilityWeekends, AvailabilityEvenings, AvailabilityWeekdays, AvailabilityFlexible:
		return true
	}
	return false
}

type ProfileType string

const (
	ProfilePublic  ProfileType = "public"
	ProfilePrivate ProfileType = "private"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           uint64       `gorm:"primarykey" json:"id"`
	Name         string       `gorm:"type:varchar(50);not null" json:"name"`
	Email        string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string       `gorm:"type:varchar(255);not null" json:"-"`
	Location     string       `gorm:"type:varchar(100)" json:"location"`
	ProfilePhoto string       `gorm:"type:varchar(500)" json:"profile_photo"`
	Availability Availability `gorm:"type:varchar(20);not null;default:'flexible'" json:"availability"`
	ProfileType  ProfileType  `gorm:"type:varchar(10);not null;default:'public'" json:"profile_type"`
	Role         Role         `gorm:"type:varchar(10);not null;default:'user'" json:"role"`
	RatingSum    int64        `gorm:"not null;default:0" json:"-"`
	RatingCount  int64        `gorm:"not null;default:0" json:"rating_count"`
	IsActive     bool         `gorm:"not null;default:true" json:"is_active"`
	LastLogin    *time.Time   `json:"last_login"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Relations
	Skills   []UserSkill `gorm:"foreignKey:UserID" json:"-"`
	Feedback []Feedback  `gorm:"foreignKey:ToUserID" json:"-"`
}

// AverageRating derives the mean rating from the running (sum, count) pair.
func (u *User) AverageRating() float64 {
	if u.RatingCount == 0 {
		return 0
	}
	return float64(u.RatingSum) / float64(u.RatingCount)
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
