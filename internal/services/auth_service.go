package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/skillswap/skill-swap-api/internal/constants"
	"github.com/skillswap/skill-swap-api/internal/models"
	"github.com/skillswap/skill-swap-api/internal/repository"
)

var (
	ErrEmailTaken           = errors.New("user with this email already exists")
	ErrInvalidEmail         = errors.New("please provide a valid email")
	ErrInvalidName          = errors.New("name must be between 2 and 50 characters")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password must be at least 6 characters long")
	ErrAccountDeactivated   = errors.New("account is deactivated")
	ErrWrongPassword        = errors.New("current password is incorrect")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService handles registration and credential verification.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// RegisterInput represents the required information to create a new account.
type RegisterInput struct {
	Name          string
	Email         string
	Password      string
	Location      string
	SkillsOffered []string
	SkillsWanted  []string
	Availability  models.Availability
	ProfileType   models.ProfileType
}

// Register creates a new user account with its skill profile.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if len(name) < constants.MinNameLength || len(name) > constants.MaxNameLength {
		return nil, ErrInvalidName
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	availability := input.Availability
	if !models.ValidAvailability(availability) {
		availability = models.AvailabilityFlexible
	}
	profileType := input.ProfileType
	if profileType != models.ProfilePrivate {
		profileType = models.ProfilePublic
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Location:     strings.TrimSpace(input.Location),
		Availability: availability,
		ProfileType:  profileType,
		Role:         models.RoleUser,
		IsActive:     true,
		Skills:       buildSkills(input.SkillsOffered, input.SkillsWanted),
	}

	if err := s.userRepo.Create(user); err != nil {
		// A concurrent registration can slip past the pre-check and hit
		// the unique email index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user. Deactivated
// accounts cannot log in.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"last_login": now}); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLogin = &now

	return user, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *AuthService) ChangePassword(userID uint64, currentPassword, newPassword string) error {
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	return s.userRepo.UpdateFields(userID, map[string]interface{}{"password_hash": string(hashedPassword)})
}

// GetUser retrieves a user by ID with its skill profile.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id, "Skills")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// buildSkills turns the raw skill name lists into rows, dropping blanks and
// clipping over-length names.
func buildSkills(offered, wanted []string) []models.UserSkill {
	skills := make([]models.UserSkill, 0, len(offered)+len(wanted))
	appendKind := func(names []string, kind models.SkillKind) {
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			skills = append(skills, models.UserSkill{Kind: kind, Name: clipRunes(name, constants.MaxSkillNameLength)})
		}
	}
	appendKind(offered, models.SkillOffered)
	appendKind(wanted, models.SkillWanted)
	return skills
}
