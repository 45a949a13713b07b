package repositories

import (
	"strings"

	"gorm.io/gorm"

	"markethub_backend/internal/models"
)

type BusinessSearchCriteria struct {
	Category string `form:"category"`
	Query    string `form:"query"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

type BusinessRepository interface {
	Create(db *gorm.DB, business *models.Business) error
	FindByID(db *gorm.DB, id string) (*models.Business, error)
	FindByIDs(db *gorm.DB, ids []string) ([]models.Business, error)
	FindByOwner(db *gorm.DB, ownerID string) ([]models.Business, error)
	Update(db *gorm.DB, business *models.Business) error
	Delete(db *gorm.DB, id string) error
	Search(db *gorm.DB, criteria BusinessSearchCriteria) ([]models.Business, int64, error)

	AddImage(db *gorm.DB, image *models.BusinessImage) error
	FindImageByID(db *gorm.DB, id string) (*models.BusinessImage, error)
	FindImagesByBusiness(db *gorm.DB, businessID string) ([]models.BusinessImage, error)
	FindImagesByBusinesses(db *gorm.DB, businessIDs []string) ([]models.BusinessImage, error)
	UpdateImage(db *gorm.DB, image *models.BusinessImage) error
	DeleteImage(db *gorm.DB, id string) error
	ReplaceImages(db *gorm.DB, businessID string, images []models.BusinessImage) error
}

type BusinessRepositoryImpl struct{}

func NewBusinessRepository() BusinessRepository {
	return &BusinessRepositoryImpl{}
}

func (r *BusinessRepositoryImpl) Create(db *gorm.DB, business *models.Business) error {
	return db.Create(business).Error
}

func (r *BusinessRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Business, error) {
	var business models.Business
	err := db.Preload("Images", imageOrder).First(&business, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *BusinessRepositoryImpl) FindByIDs(db *gorm.DB, ids []string) ([]models.Business, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var businesses []models.Business
	err := db.Where("id IN ?", ids).Find(&businesses).Error
	return businesses, err
}

func (r *BusinessRepositoryImpl) FindByOwner(db *gorm.DB, ownerID string) ([]models.Business, error) {
	var businesses []models.Business
	err := db.Where("owner_user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&businesses).Error
	return businesses, err
}

func (r *BusinessRepositoryImpl) Update(db *gorm.DB, business *models.Business) error {
	return db.Save(business).Error
}

func (r *BusinessRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return db.Delete(&models.Business{}, "id = ?", id).Error
}

func (r *BusinessRepositoryImpl) Search(db *gorm.DB, criteria BusinessSearchCriteria) ([]models.Business, int64, error) {
	query := db.Model(&models.Business{})

	if criteria.Category != "" {
		query = query.Where("LOWER(category) LIKE ?", "%"+strings.ToLower(criteria.Category)+"%")
	}
	if criteria.Query != "" {
		query = query.Where("LOWER(shop_name) LIKE ?", "%"+strings.ToLower(criteria.Query)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var businesses []models.Business
	err := query.
		Order("created_at DESC").
		Limit(criteria.Limit).
		Offset(criteria.Offset).
		Find(&businesses).Error
	if err != nil {
		return nil, 0, err
	}
	return businesses, total, nil
}

func (r *BusinessRepositoryImpl) AddImage(db *gorm.DB, image *models.BusinessImage) error {
	return db.Create(image).Error
}

func (r *BusinessRepositoryImpl) FindImageByID(db *gorm.DB, id string) (*models.BusinessImage, error) {
	var image models.BusinessImage
	err := db.First(&image, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *BusinessRepositoryImpl) FindImagesByBusiness(db *gorm.DB, businessID string) ([]models.BusinessImage, error) {
	var images []models.BusinessImage
	err := imageOrder(db.Where("business_id = ?", businessID)).Find(&images).Error
	return images, err
}

func (r *BusinessRepositoryImpl) FindImagesByBusinesses(db *gorm.DB, businessIDs []string) ([]models.BusinessImage, error) {
	if len(businessIDs) == 0 {
		return nil, nil
	}
	var images []models.BusinessImage
	err := imageOrder(db.Where("business_id IN ?", businessIDs)).Find(&images).Error
	return images, err
}

func (r *BusinessRepositoryImpl) UpdateImage(db *gorm.DB, image *models.BusinessImage) error {
	return db.Save(image).Error
}

func (r *BusinessRepositoryImpl) DeleteImage(db *gorm.DB, id string) error {
	return db.Delete(&models.BusinessImage{}, "id = ?", id).Error
}

func (r *BusinessRepositoryImpl) ReplaceImages(db *gorm.DB, businessID string, images []models.BusinessImage) error {
	if err := db.Where("business_id = ?", businessID).Delete(&models.BusinessImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	return db.Create(&images).Error
}
