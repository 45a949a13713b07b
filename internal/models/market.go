package models

import (
	"time"

	"gorm.io/datatypes"
)

// Market represents an event to which vendors apply
type Market struct {
	BaseModel
	OrganizerUserID string `gorm:"type:uuid;not null;index" json:"organizer_user_id"`

	MarketName       string  `gorm:"type:varchar(255);not null" json:"market_name"`
	ContactFirstName *string `gorm:"type:varchar(100)" json:"contact_first_name,omitempty"`
	ContactLastName  *string `gorm:"type:varchar(100)" json:"contact_last_name,omitempty"`
	Email            *string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone            *string `gorm:"type:varchar(50)" json:"phone,omitempty"`

	// Location, enriched from Google Places when a place id is supplied
	LocationText     *string  `gorm:"type:varchar(500)" json:"location_text,omitempty"`
	City             *string  `gorm:"type:varchar(100);index" json:"city,omitempty"`
	Country          *string  `gorm:"type:varchar(100);index" json:"country,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	GooglePlaceID    *string  `gorm:"type:varchar(255)" json:"google_place_id,omitempty"`
	FormattedAddress *string  `gorm:"type:varchar(500)" json:"formatted_address,omitempty"`

	Aesthetic     *string `gorm:"type:varchar(100)" json:"aesthetic,omitempty"`
	MarketSize    *string `gorm:"type:varchar(50)" json:"market_size,omitempty"`
	TargetVendors *string `gorm:"type:text" json:"target_vendors,omitempty"`
	OptionalRules *string `gorm:"type:text" json:"optional_rules,omitempty"`
	ContractURL   *string `gorm:"type:varchar(500)" json:"contract_url,omitempty"`
	Description   *string `gorm:"type:text" json:"description,omitempty"`

	StartDate           *time.Time `gorm:"index" json:"start_date,omitempty"`
	EndDate             *time.Time `gorm:"index" json:"end_date,omitempty"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`

	IsPublished     bool    `gorm:"not null" json:"is_published"`
	EmailPackageURL *string `gorm:"type:varchar(500)" json:"email_package_url,omitempty"`

	// Participation cost. When IsFree is false the three cost fields are mandatory.
	IsFree              bool    `gorm:"not null" json:"is_free"`
	CostAmount          *string `gorm:"type:varchar(50)" json:"cost_amount,omitempty"`
	CostCurrency        *string `gorm:"type:varchar(10)" json:"cost_currency,omitempty"`
	PaymentInstructions *string `gorm:"type:text" json:"payment_instructions,omitempty"`

	ApplicationForm datatypes.JSON `gorm:"type:jsonb" json:"application_form,omitempty"`
	LogoURL         *string        `gorm:"type:varchar(500)" json:"logo_url,omitempty"`

	Images []MarketImage `gorm:"foreignKey:MarketID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

func (Market) TableName() string {
	return "markets"
}

// MarketImage is one image of a market gallery, ordered by SortOrder
type MarketImage struct {
	BaseModel
	MarketID  string  `gorm:"type:uuid;not null;index" json:"market_id"`
	ImageURL  string  `gorm:"type:varchar(500);not null" json:"image_url"`
	Caption   *string `gorm:"type:varchar(255)" json:"caption,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

func (MarketImage) TableName() string {
	return "market_images"
}
