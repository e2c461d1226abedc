package constants

// Context and session keys
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
	SessionCookieName  = "swap_session"
)

// Validation limits
const (
	MinPasswordLength  = 6
	MinNameLength      = 2
	MaxNameLength      = 50
	MaxLocationLength  = 100
	MaxSkillNameLength = 50
	MaxSwapSkillLength = 100
	MaxMessageLength   = 500

	MinRating = 1
	MaxRating = 5
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// List caps
const (
	SearchResultLimit = 20
	RecentItemsLimit  = 5
)
