package dto

import "time"

type CreateFavoriteRequest struct {
	MarketID string `json:"market_id" validate:"required,uuid4"`
}

type FavoriteResponse struct {
	ID        string    `json:"id"`
	MarketID  string    `json:"market_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteDetails pairs a favorite with its market card
type FavoriteDetails struct {
	FavoriteResponse
	Market *MarketCard `json:"market,omitempty"`
}

type FavoriteCheckResponse struct {
	MarketID    string `json:"market_id"`
	IsFavorited bool   `json:"is_favorited"`
}
