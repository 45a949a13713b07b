package repositories

import (
	"gorm.io/gorm"

	"markethub_backend/internal/models"
)

type FavoriteRepository interface {
	Create(db *gorm.DB, favorite *models.MarketFavorite) error
	FindByMarketAndUser(db *gorm.DB, marketID, userID string) (*models.MarketFavorite, error)
	FindByUser(db *gorm.DB, userID string) ([]models.MarketFavorite, error)
	DeleteByMarketAndUser(db *gorm.DB, marketID, userID string) (int64, error)
	MarketIDsForUser(db *gorm.DB, userID string) ([]string, error)
}

type FavoriteRepositoryImpl struct{}

func NewFavoriteRepository() FavoriteRepository {
	return &FavoriteRepositoryImpl{}
}

func (r *FavoriteRepositoryImpl) Create(db *gorm.DB, favorite *models.MarketFavorite) error {
	return db.Create(favorite).Error
}

func (r *FavoriteRepositoryImpl) FindByMarketAndUser(db *gorm.DB, marketID, userID string) (*models.MarketFavorite, error) {
	var favorite models.MarketFavorite
	err := db.First(&favorite, "market_id = ? AND user_id = ?", marketID, userID).Error
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}

func (r *FavoriteRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.MarketFavorite, error) {
	var favorites []models.MarketFavorite
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	return favorites, err
}

// DeleteByMarketAndUser returns the number of rows removed so the caller
// can distinguish "removed" from "was not favorited"
func (r *FavoriteRepositoryImpl) DeleteByMarketAndUser(db *gorm.DB, marketID, userID string) (int64, error) {
	result := db.Delete(&models.MarketFavorite{}, "market_id = ? AND user_id = ?", marketID, userID)
	return result.RowsAffected, result.Error
}

func (r *FavoriteRepositoryImpl) MarketIDsForUser(db *gorm.DB, userID string) ([]string, error) {
	var ids []string
	err := db.Model(&models.MarketFavorite{}).
		Where("user_id = ?", userID).
		Pluck("market_id", &ids).Error
	return ids, err
}
