package dto

import "time"

// --- Business Requests ---

type CreateBusinessRequest struct {
	OwnerUserID string `json:"owner_user_id" validate:"-"` // Set by server from auth

	ShopName   string  `json:"shop_name" validate:"required,min=2,max=255"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	WebsiteURL *string `json:"website_url,omitempty" validate:"omitempty,max=500"`

	InstagramHandle *string `json:"instagram_handle,omitempty" validate:"omitempty,max=100"`
	TiktokHandle    *string `json:"tiktok_handle,omitempty" validate:"omitempty,max=100"`
	TwitterHandle   *string `json:"twitter_handle,omitempty" validate:"omitempty,max=100"`
	FacebookHandle  *string `json:"facebook_handle,omitempty" validate:"omitempty,max=100"`

	Category          *string `json:"category,omitempty" validate:"omitempty,max=100"`
	AveragePriceRange *string `json:"average_price_range,omitempty" validate:"omitempty,max=50"`
	Description       *string `json:"description,omitempty"`
	LogoURL           *string `json:"logo_url,omitempty" validate:"omitempty,max=500"`

	Images []ImageInput `json:"images,omitempty" validate:"omitempty,dive"`
}

type UpdateBusinessRequest struct {
	ShopName   *string `json:"shop_name,omitempty" validate:"omitempty,min=2,max=255"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	WebsiteURL *string `json:"website_url,omitempty" validate:"omitempty,max=500"`

	InstagramHandle *string `json:"instagram_handle,omitempty" validate:"omitempty,max=100"`
	TiktokHandle    *string `json:"tiktok_handle,omitempty" validate:"omitempty,max=100"`
	TwitterHandle   *string `json:"twitter_handle,omitempty" validate:"omitempty,max=100"`
	FacebookHandle  *string `json:"facebook_handle,omitempty" validate:"omitempty,max=100"`

	Category          *string `json:"category,omitempty" validate:"omitempty,max=100"`
	AveragePriceRange *string `json:"average_price_range,omitempty" validate:"omitempty,max=50"`
	Description       *string `json:"description,omitempty"`
	LogoURL           *string `json:"logo_url,omitempty" validate:"omitempty,max=500"`

	// When present the whole gallery is replaced
	Images *[]ImageInput `json:"images,omitempty" validate:"omitempty,dive"`
}

// --- Business Responses ---

type BusinessResponse struct {
	ID          string `json:"id"`
	OwnerUserID string `json:"owner_user_id"`

	ShopName   string  `json:"shop_name"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	WebsiteURL *string `json:"website_url,omitempty"`

	InstagramHandle *string `json:"instagram_handle,omitempty"`
	TiktokHandle    *string `json:"tiktok_handle,omitempty"`
	TwitterHandle   *string `json:"twitter_handle,omitempty"`
	FacebookHandle  *string `json:"facebook_handle,omitempty"`

	Category          *string `json:"category,omitempty"`
	AveragePriceRange *string `json:"average_price_range,omitempty"`
	Description       *string `json:"description,omitempty"`
	LogoURL           *string `json:"logo_url,omitempty"`

	Images       []ImageResponse `json:"images"`
	ThumbnailURL *string         `json:"thumbnail_url,omitempty"`

	ReviewCount   int64    `json:"review_count"`
	AverageRating *float64 `json:"average_rating,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BusinessCard is the compact projection used in enriched listings
type BusinessCard struct {
	ID            string          `json:"id"`
	ShopName      string          `json:"shop_name"`
	Category      *string         `json:"category,omitempty"`
	LogoURL       *string         `json:"logo_url,omitempty"`
	ThumbnailURL  *string         `json:"thumbnail_url,omitempty"`
	Images        []ImageResponse `json:"images"`
	ReviewCount   int64           `json:"review_count"`
	AverageRating *float64        `json:"average_rating,omitempty"`
}

type BusinessListResponse struct {
	Businesses []*BusinessResponse `json:"businesses"`
	Total      int64               `json:"total"`
	Limit      int                 `json:"limit"`
	Offset     int                 `json:"offset"`
}
