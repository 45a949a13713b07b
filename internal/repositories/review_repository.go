package repositories

import (
	"gorm.io/gorm"

	"markethub_backend/internal/models"
)

type ReviewSearchCriteria struct {
	TargetType   string `form:"target_type"`
	TargetID     string `form:"target_id"`
	AuthorUserID string `form:"author_user_id"`
	Limit        int    `form:"limit"`
	Offset       int    `form:"offset"`
}

// ReviewStats is the aggregate for one review target.
// AverageRating is nil when no rated reviews exist.
type ReviewStats struct {
	ReviewCount   int64    `json:"review_count"`
	AverageRating *float64 `json:"average_rating"`
}

type ReviewRepository interface {
	Create(db *gorm.DB, review *models.Review) error
	FindByID(db *gorm.DB, id string) (*models.Review, error)
	FindByAuthorAndTarget(db *gorm.DB, authorID string, targetType models.TargetType, targetID string) (*models.Review, error)
	Update(db *gorm.DB, review *models.Review) error
	Delete(db *gorm.DB, id string) error
	List(db *gorm.DB, criteria ReviewSearchCriteria) ([]models.Review, int64, error)
	Stats(db *gorm.DB, targetType models.TargetType, targetID string) (*ReviewStats, error)
	BatchStats(db *gorm.DB, targetType models.TargetType, targetIDs []string) (map[string]*ReviewStats, error)
}

type ReviewRepositoryImpl struct{}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

func (r *ReviewRepositoryImpl) Create(db *gorm.DB, review *models.Review) error {
	return db.Create(review).Error
}

func (r *ReviewRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Review, error) {
	var review models.Review
	err := db.Preload("Images", imageOrder).First(&review, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindByAuthorAndTarget(db *gorm.DB, authorID string, targetType models.TargetType, targetID string) (*models.Review, error) {
	var review models.Review
	err := db.First(&review,
		"author_user_id = ? AND target_type = ? AND target_id = ?",
		authorID, targetType, targetID).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) Update(db *gorm.DB, review *models.Review) error {
	return db.Save(review).Error
}

func (r *ReviewRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return db.Delete(&models.Review{}, "id = ?", id).Error
}

func (r *ReviewRepositoryImpl) List(db *gorm.DB, criteria ReviewSearchCriteria) ([]models.Review, int64, error) {
	query := db.Model(&models.Review{}).Where("is_published = ?", true)

	if criteria.TargetType != "" {
		query = query.Where("target_type = ?", criteria.TargetType)
	}
	if criteria.TargetID != "" {
		query = query.Where("target_id = ?", criteria.TargetID)
	}
	if criteria.AuthorUserID != "" {
		query = query.Where("author_user_id = ?", criteria.AuthorUserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := query.
		Preload("Images", imageOrder).
		Order("created_at DESC").
		Limit(criteria.Limit).
		Offset(criteria.Offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *ReviewRepositoryImpl) Stats(db *gorm.DB, targetType models.TargetType, targetID string) (*ReviewStats, error) {
	var row struct {
		ReviewCount   int64
		AverageRating *float64
	}
	err := db.Model(&models.Review{}).
		Select("COUNT(*) AS review_count, AVG(rating) AS average_rating").
		Where("target_type = ? AND target_id = ? AND is_published = ?", targetType, targetID, true).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &ReviewStats{ReviewCount: row.ReviewCount, AverageRating: row.AverageRating}, nil
}

// BatchStats aggregates in one GROUP BY query. Every requested id has an
// entry in the result; targets without reviews get (0, nil).
func (r *ReviewRepositoryImpl) BatchStats(db *gorm.DB, targetType models.TargetType, targetIDs []string) (map[string]*ReviewStats, error) {
	stats := make(map[string]*ReviewStats, len(targetIDs))
	for _, id := range targetIDs {
		stats[id] = &ReviewStats{}
	}
	if len(targetIDs) == 0 {
		return stats, nil
	}

	var rows []struct {
		TargetID      string
		ReviewCount   int64
		AverageRating *float64
	}
	err := db.Model(&models.Review{}).
		Select("target_id, COUNT(*) AS review_count, AVG(rating) AS average_rating").
		Where("target_type = ? AND target_id IN ? AND is_published = ?", targetType, targetIDs, true).
		Group("target_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		stats[row.TargetID] = &ReviewStats{
			ReviewCount:   row.ReviewCount,
			AverageRating: row.AverageRating,
		}
	}
	return stats, nil
}
