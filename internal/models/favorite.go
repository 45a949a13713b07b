package models

// MarketFavorite bookmarks a market for a user
type MarketFavorite struct {
	BaseModel
	MarketID string `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_market_user" json:"market_id"`
	UserID   string `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_market_user;index" json:"user_id"`

	Market *Market `gorm:"foreignKey:MarketID;constraint:OnDelete:CASCADE" json:"market,omitempty"`
}

func (MarketFavorite) TableName() string {
	return "market_favorites"
}
