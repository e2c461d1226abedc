package dto

import (
	"time"

	"github.com/skillswap/skill-swap-api/internal/models"
	"github.com/skillswap/skill-swap-api/internal/utils"
)

// UserRef is the compact user shape embedded in swaps and feedback. A zero
// counterparty (dangling reference) renders as the unknown-user placeholder.
type UserRef struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	ProfilePhoto string `json:"profile_photo,omitempty"`
}

// UserDTO represents a full profile in API responses
type UserDTO struct {
	ID            uint64              `json:"id"`
	Name          string              `json:"name"`
	Email         string              `json:"email"`
	Location      string              `json:"location,omitempty"`
	ProfilePhoto  string              `json:"profile_photo,omitempty"`
	SkillsOffered []string            `json:"skills_offered"`
	SkillsWanted  []string            `json:"skills_wanted"`
	Availability  models.Availability `json:"availability"`
	ProfileType   models.ProfileType  `json:"profile_type"`
	Role          models.Role         `json:"role"`
	AverageRating float64             `json:"average_rating"`
	RatingCount   int64               `json:"rating_count"`
	IsActive      bool                `json:"is_active"`
	LastLogin     *time.Time          `json:"last_login,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	Feedback      []FeedbackDTO       `json:"feedback,omitempty"`
}

// FeedbackDTO represents a feedback entry in API responses
type FeedbackDTO struct {
	ID        uint64    `json:"id"`
	SwapID    *uint64   `json:"swap_id,omitempty"`
	From      UserRef   `json:"from"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users      []UserDTO                `json:"users"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToUserRef converts a User model to UserRef, substituting the placeholder
// for unresolved references.
func ToUserRef(user models.User) UserRef {
	if user.ID == 0 {
		return UserRef{Name: "Unknown user"}
	}
	return UserRef{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		ProfilePhoto: user.ProfilePhoto,
	}
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	dto := UserDTO{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Location:      user.Location,
		ProfilePhoto:  user.ProfilePhoto,
		SkillsOffered: skillNames(user.Skills, models.SkillOffered),
		SkillsWanted:  skillNames(user.Skills, models.SkillWanted),
		Availability:  user.Availability,
		ProfileType:   user.ProfileType,
		Role:          user.Role,
		AverageRating: user.AverageRating(),
		RatingCount:   user.RatingCount,
		IsActive:      user.IsActive,
		LastLogin:     user.LastLogin,
		CreatedAt:     user.CreatedAt,
	}

	// Include feedback if preloaded
	if len(user.Feedback) > 0 {
		dto.Feedback = make([]FeedbackDTO, len(user.Feedback))
		for i, fb := range user.Feedback {
			dto.Feedback[i] = ToFeedbackDTO(fb)
		}
	}

	return dto
}

// ToFeedbackDTO converts a Feedback model to FeedbackDTO
func ToFeedbackDTO(fb models.Feedback) FeedbackDTO {
	return FeedbackDTO{
		ID:        fb.ID,
		SwapID:    fb.SwapID,
		From:      ToUserRef(fb.From),
		Rating:    fb.Rating,
		Comment:   fb.Comment,
		CreatedAt: fb.CreatedAt,
	}
}

// ToUserListResponse converts users to a paginated response
func ToUserListResponse(users []models.User, params utils.PaginationParams, total int64) UserListResponse {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}
	return UserListResponse{
		Users:      items,
		Pagination: utils.NewPaginationResponse(params, total),
	}
}

func skillNames(skills []models.UserSkill, kind models.SkillKind) []string {
	names := make([]string, 0, len(skills))
	for _, skill := range skills {
		if skill.Kind == kind {
			names = append(names, skill.Name)
		}
	}
	return names
}
