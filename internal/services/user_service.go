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
	ErrProfilePrivate    = errors.New("profile is private")
	ErrSearchRequired    = errors.New("search query is required")
	ErrCannotModifyAdmin = errors.New("cannot modify admin user status")
)

// UserService handles profile management, browsing and the admin user surface.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpdateProfileInput represents a partial profile update; nil fields are left
// untouched.
type UpdateProfileInput struct {
	Name          *string
	Location      *string
	ProfilePhoto  *string
	SkillsOffered *[]string
	SkillsWanted  *[]string
	Availability  *models.Availability
	ProfileType   *models.ProfileType
}

// UpdateProfile applies a whitelist update to the caller's own profile.
func (s *UserService) UpdateProfile(userID uint64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if len(name) < constants.MinNameLength || len(name) > constants.MaxNameLength {
			return nil, ErrInvalidName
		}
		fields["name"] = name
	}
	if input.Location != nil {
		fields["location"] = clipRunes(strings.TrimSpace(*input.Location), constants.MaxLocationLength)
	}
	if input.ProfilePhoto != nil {
		fields["profile_photo"] = strings.TrimSpace(*input.ProfilePhoto)
	}
	if input.Availability != nil {
		if !models.ValidAvailability(*input.Availability) {
			return nil, fmt.Errorf("unsupported availability %q", *input.Availability)
		}
		fields["availability"] = *input.Availability
	}
	if input.ProfileType != nil {
		if *input.ProfileType != models.ProfilePublic && *input.ProfileType != models.ProfilePrivate {
			return nil, fmt.Errorf("unsupported profile type %q", *input.ProfileType)
		}
		fields["profile_type"] = *input.ProfileType
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(user.ID, fields); err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	if input.SkillsOffered != nil {
		if err := s.userRepo.ReplaceSkills(user.ID, models.SkillOffered, cleanSkillNames(*input.SkillsOffered)); err != nil {
			return nil, fmt.Errorf("failed to update offered skills: %w", err)
		}
	}
	if input.SkillsWanted != nil {
		if err := s.userRepo.ReplaceSkills(user.ID, models.SkillWanted, cleanSkillNames(*input.SkillsWanted)); err != nil {
			return nil, fmt.Errorf("failed to update wanted skills: %w", err)
		}
	}

	return s.userRepo.FindByID(user.ID, "Skills")
}

// GetProfile returns a user profile. Private profiles are visible only to
// their owner.
func (s *UserService) GetProfile(targetID, viewerID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(targetID, "Skills", "Feedback", "Feedback.From")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.ProfileType == models.ProfilePrivate && viewerID != user.ID {
		return nil, ErrProfilePrivate
	}

	return user, nil
}

// BrowsePublic lists public active profiles with filtering and pagination.
func (s *UserService) BrowsePublic(filter repository.UserFilter) ([]models.User, int64, error) {
	users, total, err := s.userRepo.ListPublic(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// Search finds public profiles by skill name. kind narrows the match to
// offered or wanted skills; empty matches both.
func (s *UserService) Search(q string, kind models.SkillKind) ([]models.User, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrSearchRequired
	}
	if kind != models.SkillOffered && kind != models.SkillWanted {
		kind = ""
	}

	users, err := s.userRepo.Search(q, kind, constants.SearchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

// Deactivate soft-deletes the caller's account. The record is kept so swap
// counterparties stay resolvable.
func (s *UserService) Deactivate(userID uint64) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	if err := s.userRepo.SetActive(userID, false); err != nil {
		return fmt.Errorf("failed to deactivate account: %w", err)
	}
	return nil
}

// ListAll lists users for the admin surface.
func (s *UserService) ListAll(filter repository.AdminUserFilter) ([]models.User, int64, error) {
	users, total, err := s.userRepo.ListAll(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// SetUserStatus bans or reinstates an account. Admin accounts cannot be
// touched.
func (s *UserService) SetUserStatus(userID uint64, active bool) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user.IsAdmin() {
		return nil, ErrCannotModifyAdmin
	}

	if err := s.userRepo.SetActive(userID, active); err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}
	user.IsActive = active
	return user, nil
}

// Counts returns total and active account counts.
func (s *UserService) Counts() (total int64, active int64, err error) {
	total, active, err = s.userRepo.Counts()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, active, nil
}

// Recent returns the newest accounts.
func (s *UserService) Recent(limit int) ([]models.User, error) {
	users, err := s.userRepo.ListRecent(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent users: %w", err)
	}
	return users, nil
}

func cleanSkillNames(names []string) []string {
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cleaned = append(cleaned, clipRunes(name, constants.MaxSkillNameLength))
	}
	return cleaned
}

// clipRunes truncates s to at most max runes. Slicing bytes could cut a
// multi-byte character in half and store invalid UTF-8.
func clipRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
