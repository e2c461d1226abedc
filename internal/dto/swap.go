package dto

import (
	"time"

	"github.com/skillswap/skill-swap-api/internal/models"
	"github.com/skillswap/skill-swap-api/internal/utils"
)

// SwapDTO represents a swap request in API responses
type SwapDTO struct {
	ID           uint64            `json:"id"`
	FromUser     UserRef           `json:"from_user"`
	ToUser       UserRef           `json:"to_user"`
	OfferedSkill string            `json:"offered_skill"`
	WantedSkill  string            `json:"wanted_skill"`
	Status       models.SwapStatus `json:"status"`
	Message      string            `json:"message,omitempty"`
	AdminNote    string            `json:"admin_note,omitempty"`
	AcceptedAt   *time.Time        `json:"accepted_at,omitempty"`
	RejectedAt   *time.Time        `json:"rejected_at,omitempty"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
	Feedback     []FeedbackDTO     `json:"feedback,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// SwapListResponse represents a paginated list of swap requests
type SwapListResponse struct {
	Swaps      []SwapDTO                `json:"swaps"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToSwapDTO converts a SwapRequest model to SwapDTO
func ToSwapDTO(swap models.SwapRequest) SwapDTO {
	dto := SwapDTO{
		ID:           swap.ID,
		FromUser:     ToUserRef(swap.FromUser),
		ToUser:       ToUserRef(swap.ToUser),
		OfferedSkill: swap.OfferedSkill,
		WantedSkill:  swap.WantedSkill,
		Status:       swap.Status,
		Message:      swap.Message,
		AdminNote:    swap.AdminNote,
		AcceptedAt:   swap.AcceptedAt,
		RejectedAt:   swap.RejectedAt,
		CompletedAt:  swap.CompletedAt,
		CreatedAt:    swap.CreatedAt,
		UpdatedAt:    swap.UpdatedAt,
	}

	// Keep the raw reference IDs even when the counterparty did not resolve
	if dto.FromUser.ID == 0 {
		dto.FromUser.ID = swap.FromUserID
	}
	if dto.ToUser.ID == 0 {
		dto.ToUser.ID = swap.ToUserID
	}

	if len(swap.Feedback) > 0 {
		dto.Feedback = make([]FeedbackDTO, len(swap.Feedback))
		for i, fb := range swap.Feedback {
			dto.Feedback[i] = ToFeedbackDTO(fb)
		}
	}

	return dto
}

// ToSwapListResponse converts swaps to a paginated response
func ToSwapListResponse(swaps []models.SwapRequest, params utils.PaginationParams, total int64) SwapListResponse {
	items := make([]SwapDTO, len(swaps))
	for i, swap := range swaps {
		items[i] = ToSwapDTO(swap)
	}
	return SwapListResponse{
		Swaps:      items,
		Pagination: utils.NewPaginationResponse(params, total),
	}
}
