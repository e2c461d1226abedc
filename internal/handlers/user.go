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
	"github.com/skillswap/skill-swap-api/internal/repository"
	"github.com/skillswap/skill-swap-api/internal/services"
	"github.com/skillswap/skill-swap-api/internal/utils"
)

// UserHandler coordinates profile and browsing HTTP handlers.
type UserHandler struct {
	userService   *services.UserService
	ratingService *services.RatingService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, ratingService *services.RatingService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		ratingService: ratingService,
	}
}

// ListPublic returns public active profiles with filtering and pagination.
func (h *UserHandler) ListPublic(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := repository.UserFilter{
		Search:   c.Query("search"),
		Skill:    c.Query("skill"),
		Location: c.Query("location"),
		SortBy:   c.DefaultQuery("sortBy", "created_at"),
		SortDesc: c.DefaultQuery("sortOrder", "desc") != "asc",
		Page:     params.Page,
		PageSize: params.Limit,
	}

	users, total, err := h.userService.BrowsePublic(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users, params, total))
}

// Search finds public profiles by skill name.
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	kind := models.SkillKind(c.DefaultQuery("type", "both"))

	users, err := h.userService.Search(q, kind)
	if err != nil {
		if errors.Is(err, services.ErrSearchRequired) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to search users")
		return
	}

	items := make([]dto.UserDTO, len(users))
	for i, user := range users {
		items[i] = dto.ToUserDTO(user)
	}
	c.JSON(http.StatusOK, items)
}

// GetUser returns a profile. Private profiles are visible only to their owner.
func (h *UserHandler) GetUser(c *gin.Context) {
	targetID, ok := parseIDParam(c)
	if !ok {
		return
	}
	viewerID, _ := middleware.GetUserID(c)

	user, err := h.userService.GetProfile(targetID, viewerID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateProfile applies a whitelist update to the caller's own profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateProfileRequest struct {
		Name          *string   `json:"name"`
		Location      *string   `json:"location"`
		ProfilePhoto  *string   `json:"profile_photo"`
		SkillsOffered *[]string `json:"skills_offered"`
		SkillsWanted  *[]string `json:"skills_wanted"`
		Availability  *string   `json:"availability"`
		ProfileType   *string   `json:"profile_type"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateProfileInput{
		Name:          req.Name,
		Location:      req.Location,
		ProfilePhoto:  req.ProfilePhoto,
		SkillsOffered: req.SkillsOffered,
		SkillsWanted:  req.SkillsWanted,
	}
	if req.Availability != nil {
		availability := models.Availability(*req.Availability)
		input.Availability = &availability
	}
	if req.ProfileType != nil {
		profileType := models.ProfileType(*req.ProfileType)
		input.ProfileType = &profileType
	}

	user, err := h.userService.UpdateProfile(userID, input)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    dto.ToUserDTO(*user),
	})
}

// ListFeedback returns the feedback entries targeting a user.
func (h *UserHandler) ListFeedback(c *gin.Context) {
	targetID, ok := parseIDParam(c)
	if !ok {
		return
	}

	feedback, err := h.ratingService.ListFeedback(targetID)
	if err != nil {
		respondRatingError(c, err)
		return
	}

	items := make([]dto.FeedbackDTO, len(feedback))
	for i, fb := range feedback {
		items[i] = dto.ToFeedbackDTO(fb)
	}
	c.JSON(http.StatusOK, items)
}

// AddFeedback records a direct user-to-user rating.
func (h *UserHandler) AddFeedback(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	targetID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type FeedbackRequest struct {
		Rating  int    `json:"rating" binding:"required"`
		Message string `json:"message" binding:"required"`
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Rating and message are required")
		return
	}

	fb, err := h.ratingService.RecordRating(services.RecordRatingInput{
		ToUserID:   targetID,
		FromUserID: userID,
		Rating:     req.Rating,
		Message:    req.Message,
	})
	if err != nil {
		respondRatingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Feedback added successfully",
		"feedback": dto.ToFeedbackDTO(*fb),
	})
}

// DeactivateAccount soft-deletes the caller's own account.
func (h *UserHandler) DeactivateAccount(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.userService.Deactivate(userID); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Account deactivated successfully",
	})
}

func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return 0, false
	}
	return id, true
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProfilePrivate):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidName):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrCannotModifyAdmin):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

func respondRatingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRating):
		apierrors.BadRequestCode(c, apierrors.ErrCodeInvalidRating, err.Error())
	case errors.Is(err, services.ErrSelfRating):
		apierrors.BadRequestCode(c, apierrors.ErrCodeSelfRating, err.Error())
	case errors.Is(err, services.ErrDuplicateUserFeedback):
		apierrors.BadRequestCode(c, apierrors.ErrCodeDuplicateFeedback, err.Error())
	case errors.Is(err, services.ErrFeedbackMessageRequired),
		errors.Is(err, services.ErrFeedbackMessageTooLong):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrRatingTargetNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
