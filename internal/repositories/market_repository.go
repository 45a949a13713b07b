package repositories

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"markethub_backend/internal/models"
)

// MarketSearchCriteria is bound from the search query string
type MarketSearchCriteria struct {
	City       string `form:"city"`
	Country    string `form:"country"`
	Aesthetic  string `form:"aesthetic"`
	MarketSize string `form:"market_size"`

	IsPublished *bool `form:"is_published"`
	IsFree      *bool `form:"is_free"`

	StartsAfter *time.Time `form:"starts_after" time_format:"2006-01-02"`
	EndsBefore  *time.Time `form:"ends_before" time_format:"2006-01-02"`

	// Radius search, all three required together
	Latitude  *float64 `form:"latitude"`
	Longitude *float64 `form:"longitude"`
	RadiusKm  *float64 `form:"radius_km"`

	Limit  int `form:"limit"`
	Offset int `form:"offset"`

	// Set by the service, not bound from the query
	ExcludeOrganizerID string   `form:"-"`
	AlwaysIncludeIDs   []string `form:"-"`
}

type MarketRepository interface {
	Create(db *gorm.DB, market *models.Market) error
	FindByID(db *gorm.DB, id string) (*models.Market, error)
	FindByIDs(db *gorm.DB, ids []string) ([]models.Market, error)
	FindByOrganizer(db *gorm.DB, organizerID string) ([]models.Market, error)
	Update(db *gorm.DB, market *models.Market) error
	Delete(db *gorm.DB, id string) error
	Search(db *gorm.DB, criteria MarketSearchCriteria) ([]models.Market, int64, error)

	AddImage(db *gorm.DB, image *models.MarketImage) error
	FindImageByID(db *gorm.DB, id string) (*models.MarketImage, error)
	FindImagesByMarket(db *gorm.DB, marketID string) ([]models.MarketImage, error)
	FindImagesByMarkets(db *gorm.DB, marketIDs []string) ([]models.MarketImage, error)
	UpdateImage(db *gorm.DB, image *models.MarketImage) error
	DeleteImage(db *gorm.DB, id string) error
	ReplaceImages(db *gorm.DB, marketID string, images []models.MarketImage) error
}

type MarketRepositoryImpl struct{}

func NewMarketRepository() MarketRepository {
	return &MarketRepositoryImpl{}
}

func (r *MarketRepositoryImpl) Create(db *gorm.DB, market *models.Market) error {
	return db.Create(market).Error
}

func (r *MarketRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Market, error) {
	var market models.Market
	err := db.Preload("Images", imageOrder).First(&market, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &market, nil
}

func (r *MarketRepositoryImpl) FindByIDs(db *gorm.DB, ids []string) ([]models.Market, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var markets []models.Market
	err := db.Where("id IN ?", ids).Find(&markets).Error
	return markets, err
}

func (r *MarketRepositoryImpl) FindByOrganizer(db *gorm.DB, organizerID string) ([]models.Market, error) {
	var markets []models.Market
	err := db.Where("organizer_user_id = ?", organizerID).
		Order("created_at DESC").
		Find(&markets).Error
	return markets, err
}

func (r *MarketRepositoryImpl) Update(db *gorm.DB, market *models.Market) error {
	return db.Save(market).Error
}

func (r *MarketRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return db.Delete(&models.Market{}, "id = ?", id).Error
}

// Search applies all filters, counts, then fetches one page.
// Markets favorited by the caller bypass every filter; the caller's own
// markets are excluded entirely.
func (r *MarketRepositoryImpl) Search(db *gorm.DB, criteria MarketSearchCriteria) ([]models.Market, int64, error) {
	cond := db.Session(&gorm.Session{NewDB: true})

	if criteria.City != "" {
		cond = cond.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(criteria.City)+"%")
	}
	if criteria.Country != "" {
		cond = cond.Where("LOWER(country) LIKE ?", "%"+strings.ToLower(criteria.Country)+"%")
	}
	if criteria.Aesthetic != "" {
		cond = cond.Where("LOWER(aesthetic) LIKE ?", "%"+strings.ToLower(criteria.Aesthetic)+"%")
	}
	if criteria.MarketSize != "" {
		cond = cond.Where("market_size = ?", criteria.MarketSize)
	}
	if criteria.IsPublished != nil {
		cond = cond.Where("is_published = ?", *criteria.IsPublished)
	}
	if criteria.IsFree != nil {
		cond = cond.Where("is_free = ?", *criteria.IsFree)
	}
	// NULL dates match any range
	if criteria.StartsAfter != nil {
		cond = cond.Where("start_date IS NULL OR start_date >= ?", *criteria.StartsAfter)
	}
	if criteria.EndsBefore != nil {
		cond = cond.Where("end_date IS NULL OR end_date <= ?", *criteria.EndsBefore)
	}
	if criteria.Latitude != nil && criteria.Longitude != nil && criteria.RadiusKm != nil {
		// Haversine over the stored coordinates, distance in kilometers
		cond = cond.Where(
			"latitude IS NOT NULL AND longitude IS NOT NULL AND "+
				"(6371 * acos(least(1.0, cos(radians(?)) * cos(radians(latitude)) * "+
				"cos(radians(longitude) - radians(?)) + sin(radians(?)) * sin(radians(latitude))))) <= ?",
			*criteria.Latitude, *criteria.Longitude, *criteria.Latitude, *criteria.RadiusKm,
		)
	}

	query := db.Model(&models.Market{})
	if len(criteria.AlwaysIncludeIDs) > 0 {
		// Favorites ride along regardless of filters
		query = query.Where(cond.Or("id IN ?", criteria.AlwaysIncludeIDs))
	} else {
		query = query.Where(cond)
	}
	if criteria.ExcludeOrganizerID != "" {
		query = query.Where("organizer_user_id <> ?", criteria.ExcludeOrganizerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var markets []models.Market
	err := query.
		Order("start_date IS NULL, start_date ASC, created_at DESC").
		Limit(criteria.Limit).
		Offset(criteria.Offset).
		Find(&markets).Error
	if err != nil {
		return nil, 0, err
	}
	return markets, total, nil
}

// imageOrder keeps galleries stable: sort_order first, NULLs last, id as tiebreak
func imageOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order IS NULL, sort_order ASC, id ASC")
}

func (r *MarketRepositoryImpl) AddImage(db *gorm.DB, image *models.MarketImage) error {
	return db.Create(image).Error
}

func (r *MarketRepositoryImpl) FindImageByID(db *gorm.DB, id string) (*models.MarketImage, error) {
	var image models.MarketImage
	err := db.First(&image, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *MarketRepositoryImpl) FindImagesByMarket(db *gorm.DB, marketID string) ([]models.MarketImage, error) {
	var images []models.MarketImage
	err := imageOrder(db.Where("market_id = ?", marketID)).Find(&images).Error
	return images, err
}

func (r *MarketRepositoryImpl) FindImagesByMarkets(db *gorm.DB, marketIDs []string) ([]models.MarketImage, error) {
	if len(marketIDs) == 0 {
		return nil, nil
	}
	var images []models.MarketImage
	err := imageOrder(db.Where("market_id IN ?", marketIDs)).Find(&images).Error
	return images, err
}

func (r *MarketRepositoryImpl) UpdateImage(db *gorm.DB, image *models.MarketImage) error {
	return db.Save(image).Error
}

func (r *MarketRepositoryImpl) DeleteImage(db *gorm.DB, id string) error {
	return db.Delete(&models.MarketImage{}, "id = ?", id).Error
}

// ReplaceImages clears the gallery and re-inserts it in one shot
func (r *MarketRepositoryImpl) ReplaceImages(db *gorm.DB, marketID string, images []models.MarketImage) error {
	if err := db.Where("market_id = ?", marketID).Delete(&models.MarketImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	return db.Create(&images).Error
}
