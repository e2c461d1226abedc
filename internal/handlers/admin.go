package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillswap/skill-swap-api/internal/constants"
	"github.com/skillswap/skill-swap-api/internal/dto"
	apierrors "github.com/skillswap/skill-swap-api/internal/errors"
	"github.com/skillswap/skill-swap-api/internal/models"
	"github.com/skillswap/skill-swap-api/internal/repository"
	"github.com/skillswap/skill-swap-api/internal/services"
	"github.com/skillswap/skill-swap-api/internal/utils"
)

// AdminHandler coordinates moderation and platform-stats HTTP handlers.
type AdminHandler struct {
	userService *services.UserService
	swapService *services.SwapService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(userService *services.UserService, swapService *services.SwapService) *AdminHandler {
	return &AdminHandler{
		userService: userService,
		swapService: swapService,
	}
}

// ListUsers handles GET /api/admin/users. Includes inactive and private
// profiles, unlike the public browse endpoint.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.ListAll(repository.AdminUserFilter{
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Page:     params.Page,
		PageSize: params.Limit,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users, params, total))
}

// UpdateUserStatus handles PUT /api/admin/users/:id/status. Bans or
// reinstates an account.
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	targetID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UserStatusRequest struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}

	var req UserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "is_active is required")
		return
	}

	user, err := h.userService.SetUserStatus(targetID, *req.IsActive)
	if err != nil {
		respondUserError(c, err)
		return
	}

	action := "banned"
	if user.IsActive {
		action = "reactivated"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User " + action + " successfully",
		"user":    dto.ToUserDTO(*user),
	})
}

// ListSwaps handles GET /api/admin/swaps. Returns all swap requests across
// the platform, optionally filtered by status.
func (h *AdminHandler) ListSwaps(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	swaps, total, err := h.swapService.ListAll(c.Query("status"), params.Page, params.Limit)
	if err != nil {
		respondSwapError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSwapListResponse(swaps, params, total))
}

// Moderate handles PUT /api/admin/swaps/:id. Force-rejects or force-cancels
// a swap request regardless of who the actor would normally be.
func (h *AdminHandler) Moderate(c *gin.Context) {
	swapID, ok := parseSwapID(c)
	if !ok {
		return
	}

	type ModerateRequest struct {
		Status string `json:"status" binding:"required"`
		Note   string `json:"note"`
	}

	var req ModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Status is required")
		return
	}

	swap, err := h.swapService.ModerateAsAdmin(swapID, models.SwapStatus(req.Status), req.Note)
	if err != nil {
		respondSwapError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Swap request moderated successfully",
		"swap":    dto.ToSwapDTO(*swap),
	})
}

// Stats handles GET /api/admin/stats. Aggregates platform-wide counters and
// recent activity.
func (h *AdminHandler) Stats(c *gin.Context) {
	totalUsers, activeUsers, err := h.userService.Counts()
	if err != nil {
		apierrors.InternalError(c, "Failed to compute user stats")
		return
	}

	swapCounts, err := h.swapService.StatusCounts()
	if err != nil {
		apierrors.InternalError(c, "Failed to compute swap stats")
		return
	}

	recentUsers, err := h.userService.Recent(constants.RecentItemsLimit)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch recent users")
		return
	}

	recentSwaps, err := h.swapService.Recent(constants.RecentItemsLimit)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch recent swaps")
		return
	}

	userItems := make([]dto.UserDTO, len(recentUsers))
	for i, user := range recentUsers {
		userItems[i] = dto.ToUserDTO(user)
	}
	swapItems := make([]dto.SwapDTO, len(recentSwaps))
	for i, swap := range recentSwaps {
		swapItems[i] = dto.ToSwapDTO(swap)
	}

	var totalSwaps int64
	for _, n := range swapCounts {
		totalSwaps += n
	}

	c.JSON(http.StatusOK, gin.H{
		"users": gin.H{
			"total":    totalUsers,
			"active":   activeUsers,
			"inactive": totalUsers - activeUsers,
		},
		"swaps": gin.H{
			"total":     totalSwaps,
			"pending":   swapCounts[models.SwapStatusPending],
			"accepted":  swapCounts[models.SwapStatusAccepted],
			"rejected":  swapCounts[models.SwapStatusRejected],
			"cancelled": swapCounts[models.SwapStatusCancelled],
			"completed": swapCounts[models.SwapStatusCompleted],
		},
		"recent_users": userItems,
		"recent_swaps": swapItems,
	})
}
