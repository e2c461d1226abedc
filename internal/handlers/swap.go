package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillswap/skill-swap-api/internal/dto"
	apierrors "github.com/skillswap/skill-swap-api/internal/errors"
	"github.com/skillswap/skill-swap-api/internal/middleware"
	"github.com/skillswap/skill-swap-api/internal/models"
	"github.com/skillswap/skill-swap-api/internal/services"
	"github.com/skillswap/skill-swap-api/internal/utils"
)

// SwapHandler coordinates swap-request HTTP handlers.
type SwapHandler struct {
	swapService *services.SwapService
}

// NewSwapHandler creates a new SwapHandler.
func NewSwapHandler(swapService *services.SwapService) *SwapHandler {
	return &SwapHandler{swapService: swapService}
}

// Create handles POST /api/swaps.
func (h *SwapHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateSwapRequest struct {
		ToUserID     uint64 `json:"to_user_id" binding:"required"`
		OfferedSkill string `json:"offered_skill" binding:"required"`
		WantedSkill  string `json:"wanted_skill" binding:"required"`
		Message      string `json:"message"`
	}

	var req CreateSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Recipient, offered skill and wanted skill are required")
		return
	}

	swap, err := h.swapService.Create(services.CreateSwapInput{
		FromUserID:   userID,
		ToUserID:     req.ToUserID,
		OfferedSkill: req.OfferedSkill,
		WantedSkill:  req.WantedSkill,
		Message:      req.Message,
	})
	if err != nil {
		respondSwapError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Swap request sent successfully",
		"swap":    dto.ToSwapDTO(*swap),
	})
}

// ListMy handles GET /api/swaps/my.
func (h *SwapHandler) ListMy(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	swaps, total, err := h.swapService.List(services.ListSwapsInput{
		UserID:   userID,
		Type:     c.DefaultQuery("type", "all"),
		Status:   c.Query("status"),
		Page:     params.Page,
		PageSize: params.Limit,
	})
	if err != nil {
		respondSwapError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSwapListResponse(swaps, params, total))
}

// Get handles GET /api/swaps/:id.
func (h *SwapHandler) Get(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	swapID, ok := parseSwapID(c)
	if !ok {
		return
	}

	swap, err := h.swapService.Get(swapID, userID)
	if err != nil {
		respondSwapError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSwapDTO(*swap))
}

// UpdateStatus handles PUT /api/swaps/:id.
func (h *SwapHandler) UpdateStatus(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	swapID, ok := parseSwapID(c)
	if !ok {
		return
	}

	type UpdateStatusRequest struct {
		Status    string `json:"status" binding:"required"`
		AdminNote string `json:"admin_note"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Status is required")
		return
	}

	swap, err := h.swapService.Transition(swapID, userID, models.SwapStatus(req.Status), req.AdminNote)
	if err != nil {
		respondSwapError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Swap request " + string(swap.Status),
		"swap":    dto.ToSwapDTO(*swap),
	})
}

// Delete handles DELETE /api/swaps/:id.
func (h *SwapHandler) Delete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	swapID, ok := parseSwapID(c)
	if !ok {
		return
	}

	if err := h.swapService.Delete(swapID, userID); err != nil {
		respondSwapError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Swap request deleted successfully",
	})
}

// SubmitFeedback handles POST /api/swaps/:id/feedback.
func (h *SwapHandler) SubmitFeedback(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	swapID, ok := parseSwapID(c)
	if !ok {
		return
	}

	type SwapFeedbackRequest struct {
		Rating  int    `json:"rating" binding:"required"`
		Comment string `json:"comment"`
	}

	var req SwapFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Rating is required")
		return
	}

	swap, err := h.swapService.AttachFeedback(swapID, userID, req.Rating, req.Comment)
	if err != nil {
		respondSwapError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Feedback submitted successfully",
		"swap":    dto.ToSwapDTO(*swap),
	})
}

// UserStats handles GET /api/swaps/stats/:userId. Users can only read their
// own counters.
func (h *SwapHandler) UserStats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}
	if targetID != userID {
		apierrors.Forbidden(c, "You can only view your own swap stats")
		return
	}

	counts, err := h.swapService.UserStatusCounts(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute swap stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pending":   counts[models.SwapStatusPending],
		"accepted":  counts[models.SwapStatusAccepted],
		"rejected":  counts[models.SwapStatusRejected],
		"cancelled": counts[models.SwapStatusCancelled],
		"completed": counts[models.SwapStatusCompleted],
	})
}

func parseSwapID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid swap request ID")
		return 0, false
	}
	return id, true
}

func respondSwapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSwapNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotParticipant),
		errors.Is(err, services.ErrNotRecipient),
		errors.Is(err, services.ErrNotSender):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrSelfSwap),
		errors.Is(err, services.ErrSkillRequired),
		errors.Is(err, services.ErrSkillTooLong),
		errors.Is(err, services.ErrSwapMessageTooLong),
		errors.Is(err, services.ErrUnknownStatus),
		errors.Is(err, services.ErrInvalidModerationStatus):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrRecipientUnavailable):
		apierrors.BadRequestCode(c, apierrors.ErrCodeRecipientUnavailable, err.Error())
	case errors.Is(err, services.ErrDuplicatePending):
		apierrors.BadRequestCode(c, apierrors.ErrCodeDuplicatePending, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		apierrors.BadRequestCode(c, apierrors.ErrCodeInvalidTransition, err.Error())
	case errors.Is(err, services.ErrSwapNotPending),
		errors.Is(err, services.ErrSwapNotCompleted):
		apierrors.BadRequestCode(c, apierrors.ErrCodeInvalidState, err.Error())
	case errors.Is(err, services.ErrDuplicateSwapFeedback):
		apierrors.BadRequestCode(c, apierrors.ErrCodeDuplicateFeedback, err.Error())
	case errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrSelfRating),
		errors.Is(err, services.ErrFeedbackMessageTooLong):
		respondRatingError(c, err)
	default:
		apierrors.InternalError(c, "")
	}
}
