package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/skillswap/skill-swap-api/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user together with its skill rows
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID with optional preloading
func (r *GormUserRepository) FindByID(id uint64, preload ...string) (*models.User, error) {
	var user models.User
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by its lower-cased email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update saves the user record
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// UpdateFields applies a partial column update
func (r *GormUserRepository) UpdateFields(id uint64, fields map[string]interface{}) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

// ReplaceSkills swaps out the user's skill rows of the given kind
func (r *GormUserRepository) ReplaceSkills(userID uint64, kind models.SkillKind, names []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND kind = ?", userID, kind).Delete(&models.UserSkill{}).Error; err != nil {
			return err
		}
		if len(names) == 0 {
			return nil
		}
		skills := make([]models.UserSkill, 0, len(names))
		for _, name := range names {
			skills = append(skills, models.UserSkill{
				UserID: userID,
				Kind:   kind,
				Name:   name,
			})
		}
		return tx.Create(&skills).Error
	})
}

// SetActive flips the soft-delete flag
func (r *GormUserRepository) SetActive(id uint64, active bool) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("is_active", active).Error
}

// ListPublic lists public active profiles with filtering and pagination
func (r *GormUserRepository) ListPublic(filter UserFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{}).
		Where("profile_type = ? AND is_active = ?", models.ProfilePublic, true)

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(location) LIKE ?", pattern, pattern)
	}
	if filter.Skill != "" {
		query = query.Where("EXISTS (?)", r.skillSubQuery(filter.Skill, ""))
	}
	if filter.Location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(filter.Location)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	var orderExpr string
	switch filter.SortBy {
	case "name":
		orderExpr = "users.name " + direction
	case "rating":
		// Order by the stored mean. Unrated users sort last either way.
		orderExpr = fmt.Sprintf("rating_sum * 1.0 / NULLIF(rating_count, 0) %s NULLS LAST", direction)
	default:
		orderExpr = "users.created_at " + direction
	}

	listQuery := query.Order(orderExpr)
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	var users []models.User
	if err := listQuery.Preload("Skills").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Search finds public active profiles by skill name
func (r *GormUserRepository) Search(q string, kind models.SkillKind, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Model(&models.User{}).
		Where("profile_type = ? AND is_active = ?", models.ProfilePublic, true).
		Where("EXISTS (?)", r.skillSubQuery(q, kind)).
		Limit(limit).
		Preload("Skills").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// skillSubQuery builds the correlated subquery matching a skill substring,
// optionally restricted to one kind.
func (r *GormUserRepository) skillSubQuery(skill string, kind models.SkillKind) *gorm.DB {
	sub := r.db.Model(&models.UserSkill{}).
		Select("1").
		Where("user_skills.user_id = users.id").
		Where("LOWER(user_skills.name) LIKE ?", "%"+strings.ToLower(skill)+"%")
	if kind != "" {
		sub = sub.Where("user_skills.kind = ?", kind)
	}
	return sub
}

// ListAll lists users for the admin surface
func (r *GormUserRepository) ListAll(filter AdminUserFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})

	switch filter.Status {
	case "active":
		query = query.Where("is_active = ?", true)
	case "inactive":
		query = query.Where("is_active = ?", false)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	var users []models.User
	if err := listQuery.Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ListRecent returns the newest accounts
func (r *GormUserRepository) ListRecent(limit int) ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Counts returns total and active account counts
func (r *GormUserRepository) Counts() (int64, int64, error) {
	var total, active int64
	if err := r.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.Model(&models.User{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
		return 0, 0, err
	}
	return total, active, nil
}

// ListFeedback returns the feedback entries targeting a user
func (r *GormUserRepository) ListFeedback(userID uint64) ([]models.Feedback, error) {
	var feedback []models.Feedback
	err := r.db.Where("to_user_id = ?", userID).
		Order("created_at DESC").
		Preload("From").
		Find(&feedback).Error
	if err != nil {
		return nil, err
	}
	return feedback, nil
}

// HasDirectFeedback reports whether the author already rated the target
// outside of any swap
func (r *GormUserRepository) HasDirectFeedback(toUserID, fromUserID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Feedback{}).
		Where("to_user_id = ? AND from_user_id = ? AND swap_id IS NULL", toUserID, fromUserID).
		Count(&count).Error
	return count > 0, err
}

// AddFeedback inserts the entry and bumps the target's rating aggregate in a
// single transaction. The increment is expressed relative to the stored value
// so concurrent submissions cannot lose updates.
func (r *GormUserRepository) AddFeedback(fb *models.Feedback) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(fb).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", fb.ToUserID).
			UpdateColumns(map[string]interface{}{
				"rating_sum":   gorm.Expr("rating_sum + ?", fb.Rating),
				"rating_count": gorm.Expr("rating_count + ?", 1),
			}).Error
	})
}
