package repository

import (
	"gorm.io/gorm"

	"github.com/skillswap/skill-swap-api/internal/models"
)

// GormSwapRepository is a GORM implementation of SwapRepository
type GormSwapRepository struct {
	db *gorm.DB
}

// NewSwapRepository creates a new SwapRepository
func NewSwapRepository(db *gorm.DB) SwapRepository {
	return &GormSwapRepository{db: db}
}

// Create creates a new swap request
func (r *GormSwapRepository) Create(swap *models.SwapRequest) error {
	return r.db.Create(swap).Error
}

// FindByID finds a swap request by ID with optional preloading
func (r *GormSwapRepository) FindByID(id uint64, preload ...string) (*models.SwapRequest, error) {
	var swap models.SwapRequest
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&swap, id).Error; err != nil {
		return nil, err
	}
	return &swap, nil
}

// HasPendingDuplicate reports whether an identical pending request exists
func (r *GormSwapRepository) HasPendingDuplicate(fromUserID, toUserID uint64, offeredSkill, wantedSkill string) (bool, error) {
	var count int64
	err := r.db.Model(&models.SwapRequest{}).
		Where("from_user_id = ? AND to_user_id = ? AND offered_skill = ? AND wanted_skill = ? AND status = ?",
			fromUserID, toUserID, offeredSkill, wantedSkill, models.SwapStatusPending).
		Count(&count).Error
	return count > 0, err
}

// List retrieves swap requests with filtering and pagination
func (r *GormSwapRepository) List(filter SwapFilter) ([]models.SwapRequest, int64, error) {
	query := r.db.Model(&models.SwapRequest{})

	if filter.UserID != nil {
		switch filter.Type {
		case "sent":
			query = query.Where("from_user_id = ?", *filter.UserID)
		case "received":
			query = query.Where("to_user_id = ?", *filter.UserID)
		default:
			query = query.Where("from_user_id = ? OR to_user_id = ?", *filter.UserID, *filter.UserID)
		}
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
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

	var swaps []models.SwapRequest
	err := listQuery.
		Preload("FromUser").
		Preload("ToUser").
		Preload("Feedback").
		Find(&swaps).Error
	if err != nil {
		return nil, 0, err
	}
	return swaps, total, nil
}

// UpdateStatus transitions the swap only if its current status matches
// expected. Zero rows affected means another transition won the race or the
// record is gone.
func (r *GormSwapRepository) UpdateStatus(id uint64, expected models.SwapStatus, fields map[string]interface{}) (bool, error) {
	res := r.db.Model(&models.SwapRequest{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ForceStatus applies a status change without a precondition (admin moderation)
func (r *GormSwapRepository) ForceStatus(id uint64, fields map[string]interface{}) (bool, error) {
	res := r.db.Model(&models.SwapRequest{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the swap request and its feedback permanently
func (r *GormSwapRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("swap_id = ?", id).Delete(&models.Feedback{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.SwapRequest{}, id).Error
	})
}

// HasFeedbackFrom reports whether the user already left feedback on the swap
func (r *GormSwapRepository) HasFeedbackFrom(swapID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Feedback{}).
		Where("swap_id = ? AND from_user_id = ?", swapID, userID).
		Count(&count).Error
	return count > 0, err
}

type statusCount struct {
	Status models.SwapStatus
	Count  int64
}

// CountByStatus returns swap counts grouped by status
func (r *GormSwapRepository) CountByStatus() (map[models.SwapStatus]int64, error) {
	return r.groupByStatus(r.db.Model(&models.SwapRequest{}))
}

// CountByStatusForUser returns the user's swap counts grouped by status
func (r *GormSwapRepository) CountByStatusForUser(userID uint64) (map[models.SwapStatus]int64, error) {
	query := r.db.Model(&models.SwapRequest{}).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID)
	return r.groupByStatus(query)
}

func (r *GormSwapRepository) groupByStatus(query *gorm.DB) (map[models.SwapStatus]int64, error) {
	var rows []statusCount
	if err := query.Select("status, COUNT(*) as count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := map[models.SwapStatus]int64{
		models.SwapStatusPending:   0,
		models.SwapStatusAccepted:  0,
		models.SwapStatusRejected:  0,
		models.SwapStatusCancelled: 0,
		models.SwapStatusCompleted: 0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// ListRecent returns the newest swap requests
func (r *GormSwapRepository) ListRecent(limit int) ([]models.SwapRequest, error) {
	var swaps []models.SwapRequest
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Preload("FromUser").
		Preload("ToUser").
		Find(&swaps).Error
	if err != nil {
		return nil, err
	}
	return swaps, nil
}
