package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/skillswap/skill-swap-api/internal/constants"
	"github.com/skillswap/skill-swap-api/internal/models"
	"github.com/skillswap/skill-swap-api/internal/repository"
)

var (
	ErrInvalidRating           = errors.New("rating must be between 1 and 5")
	ErrSelfRating              = errors.New("you cannot rate yourself")
	ErrRatingTargetNotFound    = errors.New("user not found")
	ErrDuplicateUserFeedback   = errors.New("you have already provided feedback for this user")
	ErrFeedbackMessageRequired = errors.New("rating and message are required")
	ErrFeedbackMessageTooLong  = errors.New("message is too long")
)

// RatingService owns the rating aggregate: every accepted rating appends a
// feedback entry and bumps the target's (sum, count) pair. The pair only ever
// grows; entries are never removed or reweighted.
type RatingService struct {
	userRepo repository.UserRepository
}

// NewRatingService creates a new RatingService
func NewRatingService(userRepo repository.UserRepository) *RatingService {
	return &RatingService{userRepo: userRepo}
}

// RecordRatingInput represents a single rating submission. SwapID is set when
// the rating comes out of a completed swap; direct user-to-user feedback
// leaves it nil.
type RecordRatingInput struct {
	ToUserID   uint64
	FromUserID uint64
	Rating     int
	Message    string
	SwapID     *uint64
}

// RecordRating validates the submission, appends the feedback entry and
// applies the aggregate update. The repository performs both writes in one
// transaction with a relative increment, so concurrent ratings against the
// same target cannot lose updates.
func (s *RatingService) RecordRating(input RecordRatingInput) (*models.Feedback, error) {
	if input.Rating < constants.MinRating || input.Rating > constants.MaxRating {
		return nil, ErrInvalidRating
	}
	if input.ToUserID == input.FromUserID {
		return nil, ErrSelfRating
	}

	message := strings.TrimSpace(input.Message)
	if len(message) > constants.MaxMessageLength {
		return nil, ErrFeedbackMessageTooLong
	}

	if input.SwapID == nil {
		// Direct feedback requires a message and is limited to one entry
		// per author/target pair.
		if message == "" {
			return nil, ErrFeedbackMessageRequired
		}
		exists, err := s.userRepo.HasDirectFeedback(input.ToUserID, input.FromUserID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing feedback: %w", err)
		}
		if exists {
			return nil, ErrDuplicateUserFeedback
		}
	}

	if _, err := s.userRepo.FindByID(input.ToUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingTargetNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	fb := &models.Feedback{
		SwapID:     input.SwapID,
		FromUserID: input.FromUserID,
		ToUserID:   input.ToUserID,
		Rating:     input.Rating,
		Comment:    message,
	}

	if err := s.userRepo.AddFeedback(fb); err != nil {
		// Two concurrent submissions can both pass the existence checks
		// and collide on the per-swap author index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if input.SwapID != nil {
				return nil, ErrDuplicateSwapFeedback
			}
			return nil, ErrDuplicateUserFeedback
		}
		return nil, fmt.Errorf("failed to record rating: %w", err)
	}

	return fb, nil
}

// ListFeedback returns the feedback entries targeting a user.
func (s *RatingService) ListFeedback(userID uint64) ([]models.Feedback, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingTargetNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	feedback, err := s.userRepo.ListFeedback(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return feedback, nil
}
