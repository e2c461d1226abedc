package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/skillswap/skill-swap-api/internal/constants"
	"github.com/skillswap/skill-swap-api/internal/models"
	"github.com/skillswap/skill-swap-api/internal/repository"
	"github.com/skillswap/skill-swap-api/pkg/rabbitmq"
)

var (
	ErrSwapNotFound            = errors.New("swap request not found")
	ErrSelfSwap                = errors.New("you cannot send a swap request to yourself")
	ErrRecipientUnavailable    = errors.New("recipient not found or inactive")
	ErrDuplicatePending        = errors.New("you already have a pending request for these skills with this user")
	ErrSkillRequired           = errors.New("offered skill and wanted skill are required")
	ErrSkillTooLong            = errors.New("skill names must be at most 100 characters")
	ErrSwapMessageTooLong      = errors.New("message must be at most 500 characters")
	ErrNotParticipant          = errors.New("only participants can access this swap request")
	ErrNotRecipient            = errors.New("only the recipient can accept or reject this request")
	ErrNotSender               = errors.New("only the sender can perform this action")
	ErrUnknownStatus           = errors.New("unsupported status value")
	ErrInvalidTransition       = errors.New("status change is not allowed from the current state")
	ErrSwapNotPending          = errors.New("only pending requests can be deleted")
	ErrSwapNotCompleted        = errors.New("feedback is only allowed on completed swaps")
	ErrDuplicateSwapFeedback   = errors.New("you have already provided feedback for this swap")
	ErrInvalidModerationStatus = errors.New("admin can only reject or cancel swap requests")
)

// SwapService owns the swap request lifecycle: creation, status transitions,
// deletion, feedback attachment and admin moderation. Transitions are applied
// as a compare-and-set on the current status so two racing calls cannot both
// land in different terminal states.
type SwapService struct {
	swapRepo      repository.SwapRepository
	userRepo      repository.UserRepository
	ratingService *RatingService
	mqClient      *rabbitmq.Client
}

// NewSwapService creates a new SwapService. The mq client is optional; a nil
// client disables event publishing.
func NewSwapService(swapRepo repository.SwapRepository, userRepo repository.UserRepository, ratingService *RatingService, mqClient *rabbitmq.Client) *SwapService {
	return &SwapService{
		swapRepo:      swapRepo,
		userRepo:      userRepo,
		ratingService: ratingService,
		mqClient:      mqClient,
	}
}

// CreateSwapInput represents input for creating a swap request
type CreateSwapInput struct {
	FromUserID   uint64
	ToUserID     uint64
	OfferedSkill string
	WantedSkill  string
	Message      string
}

// ListSwapsInput represents filters for listing a user's swap requests
type ListSwapsInput struct {
	UserID   uint64
	Type     string // sent | received | all
	Status   string
	Page     int
	PageSize int
}

var swapPreloads = []string{"FromUser", "ToUser", "Feedback"}

// Create validates and creates a new pending swap request.
func (s *SwapService) Create(input CreateSwapInput) (*models.SwapRequest, error) {
	offered := strings.TrimSpace(input.OfferedSkill)
	wanted := strings.TrimSpace(input.WantedSkill)
	message := strings.TrimSpace(input.Message)

	if offered == "" || wanted == "" {
		return nil, ErrSkillRequired
	}
	if len(offered) > constants.MaxSwapSkillLength || len(wanted) > constants.MaxSwapSkillLength {
		return nil, ErrSkillTooLong
	}
	if len(message) > constants.MaxMessageLength {
		return nil, ErrSwapMessageTooLong
	}
	if input.FromUserID == input.ToUserID {
		return nil, ErrSelfSwap
	}

	recipient, err := s.userRepo.FindByID(input.ToUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipientUnavailable
		}
		return nil, fmt.Errorf("failed to find recipient: %w", err)
	}
	if !recipient.IsActive {
		return nil, ErrRecipientUnavailable
	}

	duplicate, err := s.swapRepo.HasPendingDuplicate(input.FromUserID, input.ToUserID, offered, wanted)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if duplicate {
		return nil, ErrDuplicatePending
	}

	swap := &models.SwapRequest{
		FromUserID:   input.FromUserID,
		ToUserID:     input.ToUserID,
		OfferedSkill: offered,
		WantedSkill:  wanted,
		Status:       models.SwapStatusPending,
		Message:      message,
	}
	if err := s.swapRepo.Create(swap); err != nil {
		return nil, fmt.Errorf("failed to create swap request: %w", err)
	}

	s.publishEvent("swap.created", swap)

	return s.swapRepo.FindByID(swap.ID, swapPreloads...)
}

// List returns the user's swap requests per the given filters.
func (s *SwapService) List(input ListSwapsInput) ([]models.SwapRequest, int64, error) {
	filter := repository.SwapFilter{
		UserID:   &input.UserID,
		Type:     input.Type,
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	if input.Status != "" {
		status := models.SwapStatus(input.Status)
		if !models.ValidSwapStatus(status) {
			return nil, 0, ErrUnknownStatus
		}
		filter.Status = &status
	}

	swaps, total, err := s.swapRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list swap requests: %w", err)
	}
	return swaps, total, nil
}

// Get returns a swap request, restricted to its participants.
func (s *SwapService) Get(swapID, actorID uint64) (*models.SwapRequest, error) {
	swap, err := s.findSwap(swapID, swapPreloads...)
	if err != nil {
		return nil, err
	}
	if !swap.IsParticipant(actorID) {
		return nil, ErrNotParticipant
	}
	return swap, nil
}

// Transition applies a status change on behalf of a participant. Authorization
// depends on the target state: the recipient accepts or rejects, the sender
// cancels, either participant completes. accepted/rejected/cancelled require a
// pending swap; completed requires an accepted one.
func (s *SwapService) Transition(swapID, actorID uint64, newStatus models.SwapStatus, adminNote string) (*models.SwapRequest, error) {
	swap, err := s.findSwap(swapID)
	if err != nil {
		return nil, err
	}

	var expected models.SwapStatus
	now := time.Now()
	fields := map[string]interface{}{"status": newStatus}

	switch newStatus {
	case models.SwapStatusAccepted:
		if actorID != swap.ToUserID {
			return nil, ErrNotRecipient
		}
		expected = models.SwapStatusPending
		fields["accepted_at"] = now
	case models.SwapStatusRejected:
		if actorID != swap.ToUserID {
			return nil, ErrNotRecipient
		}
		expected = models.SwapStatusPending
		fields["rejected_at"] = now
	case models.SwapStatusCancelled:
		if actorID != swap.FromUserID {
			return nil, ErrNotSender
		}
		expected = models.SwapStatusPending
	case models.SwapStatusCompleted:
		if !swap.IsParticipant(actorID) {
			return nil, ErrNotParticipant
		}
		expected = models.SwapStatusAccepted
		fields["completed_at"] = now
	default:
		return nil, ErrUnknownStatus
	}

	if swap.Status != expected {
		return nil, ErrInvalidTransition
	}
	if note := strings.TrimSpace(adminNote); note != "" {
		fields["admin_note"] = note
	}

	ok, err := s.swapRepo.UpdateStatus(swapID, expected, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update swap status: %w", err)
	}
	if !ok {
		// Lost the race: someone else transitioned the swap first.
		return nil, ErrInvalidTransition
	}

	updated, err := s.swapRepo.FindByID(swapID, swapPreloads...)
	if err != nil {
		return nil, fmt.Errorf("failed to reload swap request: %w", err)
	}

	s.publishEvent("swap."+string(newStatus), updated)

	return updated, nil
}

// Delete removes a pending swap request on behalf of its sender.
func (s *SwapService) Delete(swapID, actorID uint64) error {
	swap, err := s.findSwap(swapID)
	if err != nil {
		return err
	}
	if actorID != swap.FromUserID {
		return ErrNotSender
	}
	if swap.Status != models.SwapStatusPending {
		return ErrSwapNotPending
	}

	if err := s.swapRepo.Delete(swapID); err != nil {
		return fmt.Errorf("failed to delete swap request: %w", err)
	}
	return nil
}

// AttachFeedback appends a participant's feedback to a completed swap. The
// entry targets the other participant, whose rating aggregate is updated in
// the same transaction as the insert.
func (s *SwapService) AttachFeedback(swapID, actorID uint64, rating int, comment string) (*models.SwapRequest, error) {
	swap, err := s.findSwap(swapID)
	if err != nil {
		return nil, err
	}
	if !swap.IsParticipant(actorID) {
		return nil, ErrNotParticipant
	}
	if swap.Status != models.SwapStatusCompleted {
		return nil, ErrSwapNotCompleted
	}

	exists, err := s.swapRepo.HasFeedbackFrom(swapID, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing feedback: %w", err)
	}
	if exists {
		return nil, ErrDuplicateSwapFeedback
	}

	_, err = s.ratingService.RecordRating(RecordRatingInput{
		ToUserID:   swap.OtherParticipant(actorID),
		FromUserID: actorID,
		Rating:     rating,
		Message:    comment,
		SwapID:     &swapID,
	})
	if err != nil {
		return nil, err
	}

	return s.swapRepo.FindByID(swapID, "Feedback", "Feedback.From")
}

// ModerateAsAdmin forces a swap into rejected or cancelled, bypassing the
// ownership rules. Rejection records its timestamp, matching participant
// rejections.
func (s *SwapService) ModerateAsAdmin(swapID uint64, newStatus models.SwapStatus, note string) (*models.SwapRequest, error) {
	if newStatus != models.SwapStatusRejected && newStatus != models.SwapStatusCancelled {
		return nil, ErrInvalidModerationStatus
	}

	if _, err := s.findSwap(swapID); err != nil {
		return nil, err
	}

	note = strings.TrimSpace(note)
	if note == "" {
		note = "Moderated by admin"
	}

	fields := map[string]interface{}{
		"status":     newStatus,
		"admin_note": note,
	}
	if newStatus == models.SwapStatusRejected {
		fields["rejected_at"] = time.Now()
	}

	ok, err := s.swapRepo.ForceStatus(swapID, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to moderate swap: %w", err)
	}
	if !ok {
		return nil, ErrSwapNotFound
	}

	updated, err := s.swapRepo.FindByID(swapID, swapPreloads...)
	if err != nil {
		return nil, fmt.Errorf("failed to reload swap request: %w", err)
	}

	s.publishEvent("swap.moderated", updated)

	return updated, nil
}

// ListAll returns swaps across all users for the admin surface.
func (s *SwapService) ListAll(status string, page, pageSize int) ([]models.SwapRequest, int64, error) {
	filter := repository.SwapFilter{Page: page, PageSize: pageSize}
	if status != "" && status != "all" {
		st := models.SwapStatus(status)
		if !models.ValidSwapStatus(st) {
			return nil, 0, ErrUnknownStatus
		}
		filter.Status = &st
	}

	swaps, total, err := s.swapRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list swap requests: %w", err)
	}
	return swaps, total, nil
}

// StatusCounts returns swap counts grouped by status.
func (s *SwapService) StatusCounts() (map[models.SwapStatus]int64, error) {
	counts, err := s.swapRepo.CountByStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to count swaps: %w", err)
	}
	return counts, nil
}

// UserStatusCounts returns one user's swap counts grouped by status.
func (s *SwapService) UserStatusCounts(userID uint64) (map[models.SwapStatus]int64, error) {
	counts, err := s.swapRepo.CountByStatusForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count swaps: %w", err)
	}
	return counts, nil
}

// Recent returns the newest swap requests.
func (s *SwapService) Recent(limit int) ([]models.SwapRequest, error) {
	swaps, err := s.swapRepo.ListRecent(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent swaps: %w", err)
	}
	return swaps, nil
}

func (s *SwapService) findSwap(swapID uint64, preload ...string) (*models.SwapRequest, error) {
	swap, err := s.swapRepo.FindByID(swapID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapNotFound
		}
		return nil, fmt.Errorf("failed to find swap request: %w", err)
	}
	return swap, nil
}

// publishEvent emits a lifecycle event when a broker is configured. Publish
// failures are logged and never surfaced to the caller.
func (s *SwapService) publishEvent(event string, swap *models.SwapRequest) {
	if s.mqClient == nil {
		return
	}
	err := s.mqClient.PublishSwapEvent(rabbitmq.SwapEvent{
		Event:      event,
		SwapID:     swap.ID,
		FromUserID: swap.FromUserID,
		ToUserID:   swap.ToUserID,
		Status:     string(swap.Status),
		OccurredAt: time.Now(),
	})
	if err != nil {
		log.Warn().Err(err).Str("event", event).Uint64("swap_id", swap.ID).Msg("failed to publish swap event")
	}
}
