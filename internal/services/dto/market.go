package dto

import (
	"time"

	"gorm.io/datatypes"
)

// --- Market Requests ---

type CreateMarketRequest struct {
	OrganizerUserID string `json:"organizer_user_id" validate:"-"` // Set by server from auth

	MarketName       string  `json:"market_name" validate:"required,min=2,max=255"`
	ContactFirstName *string `json:"contact_first_name,omitempty" validate:"omitempty,max=100"`
	ContactLastName  *string `json:"contact_last_name,omitempty" validate:"omitempty,max=100"`
	Email            *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,max=50"`

	LocationText  *string `json:"location_text,omitempty" validate:"omitempty,max=500"`
	City          *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Country       *string `json:"country,omitempty" validate:"omitempty,max=100"`
	GooglePlaceID *string `json:"google_place_id,omitempty" validate:"omitempty,max=255"`

	Aesthetic     *string `json:"aesthetic,omitempty" validate:"omitempty,max=100"`
	MarketSize    *string `json:"market_size,omitempty" validate:"omitempty,max=50"`
	TargetVendors *string `json:"target_vendors,omitempty"`
	OptionalRules *string `json:"optional_rules,omitempty"`
	ContractURL   *string `json:"contract_url,omitempty" validate:"omitempty,max=500"`
	Description   *string `json:"description,omitempty"`

	StartDate           *time.Time `json:"start_date,omitempty"`
	EndDate             *time.Time `json:"end_date,omitempty"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`

	IsPublished     *bool   `json:"is_published,omitempty"`
	EmailPackageURL *string `json:"email_package_url,omitempty" validate:"omitempty,max=500"`

	IsFree              *bool   `json:"is_free,omitempty"`
	CostAmount          *string `json:"cost_amount,omitempty" validate:"omitempty,max=50"`
	CostCurrency        *string `json:"cost_currency,omitempty" validate:"omitempty,max=10"`
	PaymentInstructions *string `json:"payment_instructions,omitempty"`

	ApplicationForm datatypes.JSON `json:"application_form,omitempty"`
	LogoURL         *string        `json:"logo_url,omitempty" validate:"omitempty,max=500"`

	Images []ImageInput `json:"images,omitempty" validate:"omitempty,dive"`
}

type UpdateMarketRequest struct {
	MarketName       *string `json:"market_name,omitempty" validate:"omitempty,min=2,max=255"`
	ContactFirstName *string `json:"contact_first_name,omitempty" validate:"omitempty,max=100"`
	ContactLastName  *string `json:"contact_last_name,omitempty" validate:"omitempty,max=100"`
	Email            *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,max=50"`

	LocationText  *string `json:"location_text,omitempty" validate:"omitempty,max=500"`
	City          *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Country       *string `json:"country,omitempty" validate:"omitempty,max=100"`
	GooglePlaceID *string `json:"google_place_id,omitempty" validate:"omitempty,max=255"`

	Aesthetic     *string `json:"aesthetic,omitempty" validate:"omitempty,max=100"`
	MarketSize    *string `json:"market_size,omitempty" validate:"omitempty,max=50"`
	TargetVendors *string `json:"target_vendors,omitempty"`
	OptionalRules *string `json:"optional_rules,omitempty"`
	ContractURL   *string `json:"contract_url,omitempty" validate:"omitempty,max=500"`
	Description   *string `json:"description,omitempty"`

	StartDate           *time.Time `json:"start_date,omitempty"`
	EndDate             *time.Time `json:"end_date,omitempty"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`

	IsPublished     *bool   `json:"is_published,omitempty"`
	EmailPackageURL *string `json:"email_package_url,omitempty" validate:"omitempty,max=500"`

	IsFree              *bool   `json:"is_free,omitempty"`
	CostAmount          *string `json:"cost_amount,omitempty" validate:"omitempty,max=50"`
	CostCurrency        *string `json:"cost_currency,omitempty" validate:"omitempty,max=10"`
	PaymentInstructions *string `json:"payment_instructions,omitempty"`

	ApplicationForm datatypes.JSON `json:"application_form,omitempty"`
	LogoURL         *string        `json:"logo_url,omitempty" validate:"omitempty,max=500"`

	// When present the whole gallery is replaced
	Images *[]ImageInput `json:"images,omitempty" validate:"omitempty,dive"`
}

type AddImageRequest struct {
	ImageURL  string  `json:"image_url" validate:"required,max=500"`
	Caption   *string `json:"caption,omitempty" validate:"omitempty,max=255"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

type UpdateImageRequest struct {
	Caption   *string `json:"caption,omitempty" validate:"omitempty,max=255"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

// --- Market Responses ---

type MarketResponse struct {
	ID              string `json:"id"`
	OrganizerUserID string `json:"organizer_user_id"`

	MarketName       string  `json:"market_name"`
	ContactFirstName *string `json:"contact_first_name,omitempty"`
	ContactLastName  *string `json:"contact_last_name,omitempty"`
	Email            *string `json:"email,omitempty"`
	Phone            *string `json:"phone,omitempty"`

	LocationText     *string  `json:"location_text,omitempty"`
	City             *string  `json:"city,omitempty"`
	Country          *string  `json:"country,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	GooglePlaceID    *string  `json:"google_place_id,omitempty"`
	FormattedAddress *string  `json:"formatted_address,omitempty"`

	Aesthetic     *string `json:"aesthetic,omitempty"`
	MarketSize    *string `json:"market_size,omitempty"`
	TargetVendors *string `json:"target_vendors,omitempty"`
	OptionalRules *string `json:"optional_rules,omitempty"`
	ContractURL   *string `json:"contract_url,omitempty"`
	Description   *string `json:"description,omitempty"`

	StartDate           *time.Time `json:"start_date,omitempty"`
	EndDate             *time.Time `json:"end_date,omitempty"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`

	IsPublished     bool    `json:"is_published"`
	EmailPackageURL *string `json:"email_package_url,omitempty"`

	IsFree              bool    `json:"is_free"`
	CostAmount          *string `json:"cost_amount,omitempty"`
	CostCurrency        *string `json:"cost_currency,omitempty"`
	PaymentInstructions *string `json:"payment_instructions,omitempty"`

	ApplicationForm datatypes.JSON `json:"application_form,omitempty"`
	LogoURL         *string        `json:"logo_url,omitempty"`

	Images       []ImageResponse `json:"images"`
	ThumbnailURL *string         `json:"thumbnail_url,omitempty"`

	ReviewCount   int64    `json:"review_count"`
	AverageRating *float64 `json:"average_rating,omitempty"`
	AttendeeCount int64    `json:"attendee_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarketCard is the compact projection used in enriched listings
type MarketCard struct {
	ID            string          `json:"id"`
	MarketName    string          `json:"market_name"`
	City          *string         `json:"city,omitempty"`
	Country       *string         `json:"country,omitempty"`
	StartDate     *time.Time      `json:"start_date,omitempty"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	IsFree        bool            `json:"is_free"`
	LogoURL       *string         `json:"logo_url,omitempty"`
	ThumbnailURL  *string         `json:"thumbnail_url,omitempty"`
	Images        []ImageResponse `json:"images"`
	ReviewCount   int64           `json:"review_count"`
	AverageRating *float64        `json:"average_rating,omitempty"`
}

type MarketListResponse struct {
	Markets []*MarketResponse `json:"markets"`
	Total   int64             `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`

	// Markets the caller's businesses already applied to
	AppliedMarketIDs []string `json:"applied_market_ids,omitempty"`
}
