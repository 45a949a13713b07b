package repositories

import (
	"gorm.io/gorm"

	"markethub_backend/internal/models"
)

type ApplicationSearchCriteria struct {
	MarketID   string `form:"market_id"`
	BusinessID string `form:"business_id"`
	Status     string `form:"status"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}

// StatusCount is one row of a per-status aggregate
type StatusCount struct {
	Status models.ApplicationStatus `json:"status"`
	Count  int64                    `json:"count"`
}

type ApplicationRepository interface {
	Create(db *gorm.DB, application *models.Application) error
	FindByID(db *gorm.DB, id string) (*models.Application, error)
	FindByMarketAndBusiness(db *gorm.DB, marketID, businessID string) (*models.Application, error)
	Update(db *gorm.DB, application *models.Application) error
	Delete(db *gorm.DB, id string) error
	Search(db *gorm.DB, criteria ApplicationSearchCriteria) ([]models.Application, int64, error)
	FindByMarket(db *gorm.DB, marketID string) ([]models.Application, error)
	FindByBusinessIDs(db *gorm.DB, businessIDs []string, status string, limit, offset int) ([]models.Application, int64, error)
	FindByMarketIDs(db *gorm.DB, marketIDs []string, status string, limit, offset int) ([]models.Application, int64, error)
	AppliedMarketIDs(db *gorm.DB, businessIDs []string) ([]string, error)
	CountByStatusForBusinesses(db *gorm.DB, businessIDs []string) ([]StatusCount, error)
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, application *models.Application) error {
	return db.Create(application).Error
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Application, error) {
	var application models.Application
	err := db.First(&application, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) FindByMarketAndBusiness(db *gorm.DB, marketID, businessID string) (*models.Application, error) {
	var application models.Application
	err := db.First(&application, "market_id = ? AND business_id = ?", marketID, businessID).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) Update(db *gorm.DB, application *models.Application) error {
	return db.Save(application).Error
}

func (r *ApplicationRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return db.Delete(&models.Application{}, "id = ?", id).Error
}

func (r *ApplicationRepositoryImpl) Search(db *gorm.DB, criteria ApplicationSearchCriteria) ([]models.Application, int64, error) {
	query := db.Model(&models.Application{})

	if criteria.MarketID != "" {
		query = query.Where("market_id = ?", criteria.MarketID)
	}
	if criteria.BusinessID != "" {
		query = query.Where("business_id = ?", criteria.BusinessID)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var applications []models.Application
	err := query.
		Order("created_at DESC").
		Limit(criteria.Limit).
		Offset(criteria.Offset).
		Find(&applications).Error
	if err != nil {
		return nil, 0, err
	}
	return applications, total, nil
}

func (r *ApplicationRepositoryImpl) FindByMarket(db *gorm.DB, marketID string) ([]models.Application, error) {
	var applications []models.Application
	err := db.Where("market_id = ?", marketID).
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}

func (r *ApplicationRepositoryImpl) FindByBusinessIDs(db *gorm.DB, businessIDs []string, status string, limit, offset int) ([]models.Application, int64, error) {
	if len(businessIDs) == 0 {
		return nil, 0, nil
	}
	query := db.Model(&models.Application{}).Where("business_id IN ?", businessIDs)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var applications []models.Application
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&applications).Error
	if err != nil {
		return nil, 0, err
	}
	return applications, total, nil
}

func (r *ApplicationRepositoryImpl) FindByMarketIDs(db *gorm.DB, marketIDs []string, status string, limit, offset int) ([]models.Application, int64, error) {
	if len(marketIDs) == 0 {
		return nil, 0, nil
	}
	query := db.Model(&models.Application{}).Where("market_id IN ?", marketIDs)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var applications []models.Application
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&applications).Error
	if err != nil {
		return nil, 0, err
	}
	return applications, total, nil
}

// AppliedMarketIDs lists markets any of the businesses already applied to
func (r *ApplicationRepositoryImpl) AppliedMarketIDs(db *gorm.DB, businessIDs []string) ([]string, error) {
	if len(businessIDs) == 0 {
		return nil, nil
	}
	var ids []string
	err := db.Model(&models.Application{}).
		Where("business_id IN ?", businessIDs).
		Distinct().
		Pluck("market_id", &ids).Error
	return ids, err
}

func (r *ApplicationRepositoryImpl) CountByStatusForBusinesses(db *gorm.DB, businessIDs []string) ([]StatusCount, error) {
	if len(businessIDs) == 0 {
		return nil, nil
	}
	var counts []StatusCount
	err := db.Model(&models.Application{}).
		Select("status, COUNT(*) AS count").
		Where("business_id IN ?", businessIDs).
		Group("status").
		Scan(&counts).Error
	return counts, err
}
