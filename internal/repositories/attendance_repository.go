package repositories

import (
	"gorm.io/gorm"

	"markethub_backend/internal/models"
)

type AttendanceSearchCriteria struct {
	MarketID string `form:"market_id"`
	UserID   string `form:"user_id"`
	Status   string `form:"status"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

type AttendanceRepository interface {
	Create(db *gorm.DB, attendance *models.MarketAttendance) error
	FindByID(db *gorm.DB, id string) (*models.MarketAttendance, error)
	FindByMarketAndUser(db *gorm.DB, marketID, userID string) (*models.MarketAttendance, error)
	FindByUser(db *gorm.DB, userID string) ([]models.MarketAttendance, error)
	Update(db *gorm.DB, attendance *models.MarketAttendance) error
	Delete(db *gorm.DB, id string) error
	List(db *gorm.DB, criteria AttendanceSearchCriteria) ([]models.MarketAttendance, int64, error)
	CountByMarket(db *gorm.DB, marketID string) (int64, error)
	CountByMarkets(db *gorm.DB, marketIDs []string) (map[string]int64, error)
}

type AttendanceRepositoryImpl struct{}

func NewAttendanceRepository() AttendanceRepository {
	return &AttendanceRepositoryImpl{}
}

func (r *AttendanceRepositoryImpl) Create(db *gorm.DB, attendance *models.MarketAttendance) error {
	return db.Create(attendance).Error
}

func (r *AttendanceRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.MarketAttendance, error) {
	var attendance models.MarketAttendance
	err := db.First(&attendance, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &attendance, nil
}

func (r *AttendanceRepositoryImpl) FindByMarketAndUser(db *gorm.DB, marketID, userID string) (*models.MarketAttendance, error) {
	var attendance models.MarketAttendance
	err := db.First(&attendance, "market_id = ? AND user_id = ?", marketID, userID).Error
	if err != nil {
		return nil, err
	}
	return &attendance, nil
}

func (r *AttendanceRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.MarketAttendance, error) {
	var attendances []models.MarketAttendance
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&attendances).Error
	return attendances, err
}

func (r *AttendanceRepositoryImpl) Update(db *gorm.DB, attendance *models.MarketAttendance) error {
	return db.Save(attendance).Error
}

func (r *AttendanceRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return db.Delete(&models.MarketAttendance{}, "id = ?", id).Error
}

func (r *AttendanceRepositoryImpl) List(db *gorm.DB, criteria AttendanceSearchCriteria) ([]models.MarketAttendance, int64, error) {
	query := db.Model(&models.MarketAttendance{})

	if criteria.MarketID != "" {
		query = query.Where("market_id = ?", criteria.MarketID)
	}
	if criteria.UserID != "" {
		query = query.Where("user_id = ?", criteria.UserID)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var attendances []models.MarketAttendance
	err := query.
		Order("created_at DESC").
		Limit(criteria.Limit).
		Offset(criteria.Offset).
		Find(&attendances).Error
	if err != nil {
		return nil, 0, err
	}
	return attendances, total, nil
}

func (r *AttendanceRepositoryImpl) CountByMarket(db *gorm.DB, marketID string) (int64, error) {
	var count int64
	err := db.Model(&models.MarketAttendance{}).
		Where("market_id = ?", marketID).
		Count(&count).Error
	return count, err
}

func (r *AttendanceRepositoryImpl) CountByMarkets(db *gorm.DB, marketIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(marketIDs))
	for _, id := range marketIDs {
		counts[id] = 0
	}
	if len(marketIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		MarketID string
		Count    int64
	}
	err := db.Model(&models.MarketAttendance{}).
		Select("market_id, COUNT(*) AS count").
		Where("market_id IN ?", marketIDs).
		Group("market_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.MarketID] = row.Count
	}
	return counts, nil
}
