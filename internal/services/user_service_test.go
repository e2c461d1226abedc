package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/skillswap/skill-swap-api/internal/constants"
	"github.com/skillswap/skill-swap-api/internal/database"
	"github.com/skillswap/skill-swap-api/internal/models"
	"github.com/skillswap/skill-swap-api/internal/repository"
)

func setupUserService(t *testing.T) (*gorm.DB, *UserService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.UserSkill{},
		&models.SwapRequest{},
		&models.Feedback{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, NewUserService(repository.NewUserRepository(db))
}

func createProfile(t *testing.T, db *gorm.DB, user *models.User) *models.User {
	t.Helper()
	if user.PasswordHash == "" {
		user.PasswordHash = "hashedpassword"
	}
	if user.Availability == "" {
		user.Availability = models.AvailabilityFlexible
	}
	if user.ProfileType == "" {
		user.ProfileType = models.ProfilePublic
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.IsActive = true
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestUserService_UpdateProfile(t *testing.T) {
	db, service := setupUserService(t)
	user := createProfile(t, db, &models.User{Name: "Alice", Email: "alice@example.com"})

	name := "Alice Santos"
	location := "Porto"
	offered := []string{"Guitar", "", "Cooking"}

	updated, err := service.UpdateProfile(user.ID, UpdateProfileInput{
		Name:          &name,
		Location:      &location,
		SkillsOffered: &offered,
	})
	require.NoError(t, err)
	require.Equal(t, "Alice Santos", updated.Name)
	require.Equal(t, "Porto", updated.Location)
	require.Len(t, updated.Skills, 2)
}

func TestUserService_UpdateProfile_ReplacesSkillKindInPlace(t *testing.T) {
	db, service := setupUserService(t)
	user := createProfile(t, db, &models.User{
		Name:  "Alice",
		Email: "alice@example.com",
		Skills: []models.UserSkill{
			{Kind: models.SkillOffered, Name: "Guitar"},
			{Kind: models.SkillWanted, Name: "Spanish"},
		},
	})

	offered := []string{"Piano"}
	updated, err := service.UpdateProfile(user.ID, UpdateProfileInput{SkillsOffered: &offered})
	require.NoError(t, err)

	var offeredNames, wantedNames []string
	for _, skill := range updated.Skills {
		if skill.Kind == models.SkillOffered {
			offeredNames = append(offeredNames, skill.Name)
		} else {
			wantedNames = append(wantedNames, skill.Name)
		}
	}
	require.Equal(t, []string{"Piano"}, offeredNames)
	require.Equal(t, []string{"Spanish"}, wantedNames)
}

func TestUserService_UpdateProfile_ClipsMultiByteInput(t *testing.T) {
	db, service := setupUserService(t)
	user := createProfile(t, db, &models.User{Name: "Alice", Email: "alice@example.com"})

	longSkill := strings.Repeat("é", constants.MaxSkillNameLength+10)
	longLocation := strings.Repeat("ü", constants.MaxLocationLength+1)
	offered := []string{longSkill}

	updated, err := service.UpdateProfile(user.ID, UpdateProfileInput{
		Location:      &longLocation,
		SkillsOffered: &offered,
	})
	require.NoError(t, err)

	require.Len(t, updated.Skills, 1)
	require.True(t, utf8.ValidString(updated.Skills[0].Name))
	require.Equal(t, strings.Repeat("é", constants.MaxSkillNameLength), updated.Skills[0].Name)

	require.True(t, utf8.ValidString(updated.Location))
	require.Equal(t, strings.Repeat("ü", constants.MaxLocationLength), updated.Location)
}

func TestUserService_UpdateProfile_InvalidName(t *testing.T) {
	db, service := setupUserService(t)
	user := createProfile(t, db, &models.User{Name: "Alice", Email: "alice@example.com"})

	name := "A"
	_, err := service.UpdateProfile(user.ID, UpdateProfileInput{Name: &name})
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestUserService_GetProfile_Privacy(t *testing.T) {
	db, service := setupUserService(t)
	owner := createProfile(t, db, &models.User{
		Name:        "Alice",
		Email:       "alice@example.com",
		ProfileType: models.ProfilePrivate,
	})
	viewer := createProfile(t, db, &models.User{Name: "Bob", Email: "bob@example.com"})

	_, err := service.GetProfile(owner.ID, viewer.ID)
	require.ErrorIs(t, err, ErrProfilePrivate)

	profile, err := service.GetProfile(owner.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, owner.ID, profile.ID)

	_, err = service.GetProfile(9999, viewer.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_BrowsePublic(t *testing.T) {
	db, service := setupUserService(t)
	createProfile(t, db, &models.User{Name: "Alice", Email: "alice@example.com", Location: "Lisbon"})
	createProfile(t, db, &models.User{Name: "Bob", Email: "bob@example.com", Location: "Porto"})
	hidden := createProfile(t, db, &models.User{Name: "Carol", Email: "carol@example.com", ProfileType: models.ProfilePrivate})
	banned := createProfile(t, db, &models.User{Name: "Dave", Email: "dave@example.com"})
	require.NoError(t, db.Model(banned).Update("is_active", false).Error)

	users, total, err := service.BrowsePublic(repository.UserFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	for _, user := range users {
		require.NotEqual(t, hidden.ID, user.ID)
		require.NotEqual(t, banned.ID, user.ID)
	}

	users, total, err = service.BrowsePublic(repository.UserFilter{Location: "lisbon", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Alice", users[0].Name)
}

func TestUserService_BrowsePublic_SortByRating(t *testing.T) {
	db, service := setupUserService(t)
	// One glowing review must outrank a hundred mediocre ones.
	fewGreat := createProfile(t, db, &models.User{Name: "Alice", Email: "alice@example.com", RatingSum: 5, RatingCount: 1})
	manyPoor := createProfile(t, db, &models.User{Name: "Bob", Email: "bob@example.com", RatingSum: 200, RatingCount: 100})
	unrated := createProfile(t, db, &models.User{Name: "Carol", Email: "carol@example.com"})

	users, total, err := service.BrowsePublic(repository.UserFilter{
		SortBy:   "rating",
		SortDesc: true,
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, users, 3)
	require.Equal(t, fewGreat.ID, users[0].ID)
	require.Equal(t, manyPoor.ID, users[1].ID)
	require.Equal(t, unrated.ID, users[2].ID)

	users, _, err = service.BrowsePublic(repository.UserFilter{
		SortBy:   "rating",
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Equal(t, manyPoor.ID, users[0].ID)
	require.Equal(t, fewGreat.ID, users[1].ID)
	require.Equal(t, unrated.ID, users[2].ID)
}

func TestUserService_Search(t *testing.T) {
	db, service := setupUserService(t)
	createProfile(t, db, &models.User{
		Name:  "Alice",
		Email: "alice@example.com",
		Skills: []models.UserSkill{
			{Kind: models.SkillOffered, Name: "Guitar"},
		},
	})
	createProfile(t, db, &models.User{
		Name:  "Bob",
		Email: "bob@example.com",
		Skills: []models.UserSkill{
			{Kind: models.SkillWanted, Name: "Guitar"},
		},
	})

	_, err := service.Search("  ", "")
	require.ErrorIs(t, err, ErrSearchRequired)

	both, err := service.Search("guit", "")
	require.NoError(t, err)
	require.Len(t, both, 2)

	offered, err := service.Search("guit", models.SkillOffered)
	require.NoError(t, err)
	require.Len(t, offered, 1)
	require.Equal(t, "Alice", offered[0].Name)
}

func TestUserService_Deactivate(t *testing.T) {
	db, service := setupUserService(t)
	user := createProfile(t, db, &models.User{Name: "Alice", Email: "alice@example.com"})

	require.NoError(t, service.Deactivate(user.ID))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	require.False(t, reloaded.IsActive)

	require.ErrorIs(t, service.Deactivate(9999), ErrUserNotFound)
}

func TestUserService_SetUserStatus(t *testing.T) {
	db, service := setupUserService(t)
	user := createProfile(t, db, &models.User{Name: "Alice", Email: "alice@example.com"})
	admin := createProfile(t, db, &models.User{Name: "Root", Email: "root@example.com", Role: models.RoleAdmin})

	banned, err := service.SetUserStatus(user.ID, false)
	require.NoError(t, err)
	require.False(t, banned.IsActive)

	restored, err := service.SetUserStatus(user.ID, true)
	require.NoError(t, err)
	require.True(t, restored.IsActive)

	_, err = service.SetUserStatus(admin.ID, false)
	require.ErrorIs(t, err, ErrCannotModifyAdmin)
}

func TestUserService_Counts(t *testing.T) {
	db, service := setupUserService(t)
	createProfile(t, db, &models.User{Name: "Alice", Email: "alice@example.com"})
	banned := createProfile(t, db, &models.User{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, db.Model(banned).Update("is_active", false).Error)

	total, active, err := service.Counts()
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Equal(t, int64(1), active)
}
