package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/skillswap/skill-swap-api/internal/database"
	"github.com/skillswap/skill-swap-api/internal/models"
	"github.com/skillswap/skill-swap-api/internal/repository"
)

func setupRatingService(t *testing.T) (*gorm.DB, *RatingService) {
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

	return db, NewRatingService(repository.NewUserRepository(db))
}

// setupMockedUserRepo backs the repository with sqlmock through a postgres
// dialector carrying the same error translation as the production connection,
// so driver-level constraint violations can be injected.
func setupMockedUserRepo(t *testing.T) (repository.UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	return repository.NewUserRepository(db), mock
}

func createRatingUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hashedpassword",
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRatingService_RecordRating(t *testing.T) {
	db, service := setupRatingService(t)
	alice := createRatingUser(t, db, "Alice", "alice@example.com")
	bob := createRatingUser(t, db, "Bob", "bob@example.com")

	fb, err := service.RecordRating(RecordRatingInput{
		ToUserID:   bob.ID,
		FromUserID: alice.ID,
		Rating:     5,
		Message:    "Excellent trade",
	})
	require.NoError(t, err)
	require.Equal(t, 5, fb.Rating)
	require.Nil(t, fb.SwapID)

	var target models.User
	require.NoError(t, db.First(&target, bob.ID).Error)
	require.Equal(t, int64(1), target.RatingCount)
	require.Equal(t, 5.0, target.AverageRating())
}

func TestRatingService_AverageMovesWithEntries(t *testing.T) {
	db, service := setupRatingService(t)
	alice := createRatingUser(t, db, "Alice", "alice@example.com")
	bob := createRatingUser(t, db, "Bob", "bob@example.com")
	carol := createRatingUser(t, db, "Carol", "carol@example.com")

	_, err := service.RecordRating(RecordRatingInput{
		ToUserID:   bob.ID,
		FromUserID: alice.ID,
		Rating:     5,
		Message:    "Excellent trade",
	})
	require.NoError(t, err)

	_, err = service.RecordRating(RecordRatingInput{
		ToUserID:   bob.ID,
		FromUserID: carol.ID,
		Rating:     3,
		Message:    "Decent trade",
	})
	require.NoError(t, err)

	var target models.User
	require.NoError(t, db.First(&target, bob.ID).Error)
	require.Equal(t, int64(2), target.RatingCount)
	require.Equal(t, 4.0, target.AverageRating())
}

func TestRatingService_RatingBounds(t *testing.T) {
	db, service := setupRatingService(t)
	alice := createRatingUser(t, db, "Alice", "alice@example.com")
	bob := createRatingUser(t, db, "Bob", "bob@example.com")

	for _, rating := range []int{0, -1, 6} {
		_, err := service.RecordRating(RecordRatingInput{
			ToUserID:   bob.ID,
			FromUserID: alice.ID,
			Rating:     rating,
			Message:    "out of range",
		})
		require.ErrorIs(t, err, ErrInvalidRating)
	}
}

func TestRatingService_SelfRating(t *testing.T) {
	db, service := setupRatingService(t)
	alice := createRatingUser(t, db, "Alice", "alice@example.com")

	_, err := service.RecordRating(RecordRatingInput{
		ToUserID:   alice.ID,
		FromUserID: alice.ID,
		Rating:     5,
		Message:    "I am great",
	})
	require.ErrorIs(t, err, ErrSelfRating)
}

func TestRatingService_DirectFeedbackRequiresMessage(t *testing.T) {
	db, service := setupRatingService(t)
	alice := createRatingUser(t, db, "Alice", "alice@example.com")
	bob := createRatingUser(t, db, "Bob", "bob@example.com")

	_, err := service.RecordRating(RecordRatingInput{
		ToUserID:   bob.ID,
		FromUserID: alice.ID,
		Rating:     5,
		Message:    "   ",
	})
	require.ErrorIs(t, err, ErrFeedbackMessageRequired)
}

func TestRatingService_DuplicateDirectFeedback(t *testing.T) {
	db, service := setupRatingService(t)
	alice := createRatingUser(t, db, "Alice", "alice@example.com")
	bob := createRatingUser(t, db, "Bob", "bob@example.com")

	_, err := service.RecordRating(RecordRatingInput{
		ToUserID:   bob.ID,
		FromUserID: alice.ID,
		Rating:     5,
		Message:    "Excellent trade",
	})
	require.NoError(t, err)

	_, err = service.RecordRating(RecordRatingInput{
		ToUserID:   bob.ID,
		FromUserID: alice.ID,
		Rating:     1,
		Message:    "Changed my mind",
	})
	require.ErrorIs(t, err, ErrDuplicateUserFeedback)
}

// TestRatingService_SwapFeedbackRace covers two submissions for the same swap
// both passing the existence check. The per-swap author index rejects the
// later insert and the violation surfaces as the duplicate sentinel rather
// than an internal error.
func TestRatingService_SwapFeedbackRace(t *testing.T) {
	repo, mock := setupMockedUserRepo(t)
	service := NewRatingService(repo)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "feedbacks"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_feedback_swap_author"})
	mock.ExpectRollback()

	swapID := uint64(7)
	_, err := service.RecordRating(RecordRatingInput{
		ToUserID:   2,
		FromUserID: 1,
		Rating:     5,
		Message:    "Great trade",
		SwapID:     &swapID,
	})
	require.ErrorIs(t, err, ErrDuplicateSwapFeedback)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingService_TargetNotFound(t *testing.T) {
	db, service := setupRatingService(t)
	alice := createRatingUser(t, db, "Alice", "alice@example.com")

	_, err := service.RecordRating(RecordRatingInput{
		ToUserID:   9999,
		FromUserID: alice.ID,
		Rating:     5,
		Message:    "Who are you",
	})
	require.ErrorIs(t, err, ErrRatingTargetNotFound)
}

// TestRatingService_ConcurrentRatings submits ratings from many goroutines
// against one target. The aggregate is updated with a relative increment
// inside the insert transaction, so the final (sum, count) pair must account
// for every accepted rating.
func TestRatingService_ConcurrentRatings(t *testing.T) {
	db, service := setupRatingService(t)

	// SQLite cannot take concurrent writers; a single connection serializes
	// them at the pool while the increment semantics stay under test.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	target := createRatingUser(t, db, "Target", "target@example.com")

	const raters = 20
	authors := make([]*models.User, raters)
	for i := range authors {
		authors[i] = createRatingUser(t, db, "Rater", fmt.Sprintf("rater%d@example.com", i))
	}

	var wg sync.WaitGroup
	errs := make(chan error, raters)
	for i := 0; i < raters; i++ {
		wg.Add(1)
		go func(author *models.User, rating int) {
			defer wg.Done()
			_, err := service.RecordRating(RecordRatingInput{
				ToUserID:   target.ID,
				FromUserID: author.ID,
				Rating:     rating,
				Message:    "concurrent rating",
			})
			errs <- err
		}(authors[i], i%5+1)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, target.ID).Error)
	require.Equal(t, int64(raters), reloaded.RatingCount)

	// Ratings cycle 1..5 across 20 raters, so the sum is fully determined.
	require.Equal(t, int64(4*(1+2+3+4+5)), reloaded.RatingSum)
}

func TestRatingService_ListFeedback(t *testing.T) {
	db, service := setupRatingService(t)
	alice := createRatingUser(t, db, "Alice", "alice@example.com")
	bob := createRatingUser(t, db, "Bob", "bob@example.com")
	carol := createRatingUser(t, db, "Carol", "carol@example.com")

	for _, author := range []*models.User{alice, carol} {
		_, err := service.RecordRating(RecordRatingInput{
			ToUserID:   bob.ID,
			FromUserID: author.ID,
			Rating:     4,
			Message:    "Good trade",
		})
		require.NoError(t, err)
	}

	feedback, err := service.ListFeedback(bob.ID)
	require.NoError(t, err)
	require.Len(t, feedback, 2)
	require.NotZero(t, feedback[0].From.ID)

	_, err = service.ListFeedback(9999)
	require.ErrorIs(t, err, ErrRatingTargetNotFound)
}
