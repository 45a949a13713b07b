package repositories

import (
	"time"

	"gorm.io/gorm"

	"markethub_backend/internal/models"
)

type UploadRepository interface {
	CreatePending(db *gorm.DB, image *models.PendingImage) error
	FindPendingByURLs(db *gorm.DB, urls []string) ([]models.PendingImage, error)
	DeletePendingByURLs(db *gorm.DB, urls []string) error
	FindOrphaned(db *gorm.DB, olderThan time.Time) ([]models.PendingImage, error)
	DeletePending(db *gorm.DB, id string) error
}

type UploadRepositoryImpl struct{}

func NewUploadRepository() UploadRepository {
	return &UploadRepositoryImpl{}
}

func (r *UploadRepositoryImpl) CreatePending(db *gorm.DB, image *models.PendingImage) error {
	return db.Create(image).Error
}

func (r *UploadRepositoryImpl) FindPendingByURLs(db *gorm.DB, urls []string) ([]models.PendingImage, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	var images []models.PendingImage
	err := db.Where("image_url IN ?", urls).Find(&images).Error
	return images, err
}

// DeletePendingByURLs consumes pending records once their images are
// attached to an entity
func (r *UploadRepositoryImpl) DeletePendingByURLs(db *gorm.DB, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	return db.Delete(&models.PendingImage{}, "image_url IN ?", urls).Error
}

func (r *UploadRepositoryImpl) FindOrphaned(db *gorm.DB, olderThan time.Time) ([]models.PendingImage, error) {
	var images []models.PendingImage
	err := db.Where("created_at < ?", olderThan).
		Order("created_at ASC").
		Find(&images).Error
	return images, err
}

func (r *UploadRepositoryImpl) DeletePending(db *gorm.DB, id string) error {
	return db.Delete(&models.PendingImage{}, "id = ?", id).Error
}
