package repository

import (
	"github.com/skillswap/skill-swap-api/internal/models"
)

// UserFilter holds filtering options for browsing public profiles
type UserFilter struct {
	Search   string
	Skill    string
	Location string
	SortBy   string
	SortDesc bool
	Page     int
	PageSize int
}

// AdminUserFilter holds filtering options for the admin user list
type AdminUserFilter struct {
	Status   string // all | active | inactive
	Search   string
	Page     int
	PageSize int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user together with its skill rows
	Create(user *models.User) error

	// FindByID finds a user by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.User, error)

	// FindByEmail finds a user by its lower-cased email
	FindByEmail(email string) (*models.User, error)

	// Update saves the user record
	Update(user *models.User) error

	// UpdateFields applies a partial column update
	UpdateFields(id uint64, fields map[string]interface{}) error

	// ReplaceSkills swaps out the user's skill rows of the given kind
	ReplaceSkills(userID uint64, kind models.SkillKind, names []string) error

	// SetActive flips the soft-delete flag
	SetActive(id uint64, active bool) error

	// ListPublic lists public active profiles with filtering and pagination
	ListPublic(filter UserFilter) ([]models.User, int64, error)

	// Search finds public active profiles by skill name
	Search(q string, kind models.SkillKind, limit int) ([]models.User, error)

	// ListAll lists users for the admin surface
	ListAll(filter AdminUserFilter) ([]models.User, int64, error)

	// ListRecent returns the newest accounts
	ListRecent(limit int) ([]models.User, error)

	// Counts returns total and active account counts
	Counts() (total int64, active int64, err error)

	// ListFeedback returns the feedback entries targeting a user
	ListFeedback(userID uint64) ([]models.Feedback, error)

	// HasDirectFeedback reports whether the author already rated the target
	// outside of any swap
	HasDirectFeedback(toUserID, fromUserID uint64) (bool, error)

	// AddFeedback inserts the entry and bumps the target's rating aggregate
	// in a single transaction; the aggregate update is a relative increment,
	// never a read-modify-write
	AddFeedback(fb *models.Feedback) error
}

// SwapFilter holds filtering options for listing swap requests
type SwapFilter struct {
	UserID   *uint64
	Type     string // sent | received | all
	Status   *models.SwapStatus
	Page     int
	PageSize int
}

// SwapRepository defines the interface for swap request data access
type SwapRepository interface {
	// Create creates a new swap request
	Create(swap *models.SwapRequest) error

	// FindByID finds a swap request by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.SwapRequest, error)

	// HasPendingDuplicate reports whether an identical pending request exists
	HasPendingDuplicate(fromUserID, toUserID uint64, offeredSkill, wantedSkill string) (bool, error)

	// List retrieves swap requests with filtering and pagination
	List(filter SwapFilter) ([]models.SwapRequest, int64, error)

	// UpdateStatus transitions the swap only if its current status matches
	// expected; returns false when another transition won the race or the
	// record is gone
	UpdateStatus(id uint64, expected models.SwapStatus, fields map[string]interface{}) (bool, error)

	// ForceStatus applies a status change without a precondition (admin
	// moderation)
	ForceStatus(id uint64, fields map[string]interface{}) (bool, error)

	// Delete removes the swap request permanently
	Delete(id uint64) error

	// HasFeedbackFrom reports whether the user already left feedback on the swap
	HasFeedbackFrom(swapID, userID uint64) (bool, error)

	// CountByStatus returns swap counts grouped by status
	CountByStatus() (map[models.SwapStatus]int64, error)

	// CountByStatusForUser returns the user's swap counts grouped by status
	CountByStatusForUser(userID uint64) (map[models.SwapStatus]int64, error)

	// ListRecent returns the newest swap requests
	ListRecent(limit int) ([]models.SwapRequest, error)
}
