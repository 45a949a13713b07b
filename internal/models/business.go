package models

// Business is a vendor profile owned by a user
type Business struct {
	BaseModel
	OwnerUserID string `gorm:"type:uuid;not null;index" json:"owner_user_id"`

	ShopName   string  `gorm:"type:varchar(255);not null" json:"shop_name"`
	Email      *string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone      *string `gorm:"type:varchar(50)" json:"phone,omitempty"`
	WebsiteURL *string `gorm:"type:varchar(500)" json:"website_url,omitempty"`

	InstagramHandle *string `gorm:"type:varchar(100)" json:"instagram_handle,omitempty"`
	TiktokHandle    *string `gorm:"type:varchar(100)" json:"tiktok_handle,omitempty"`
	TwitterHandle   *string `gorm:"type:varchar(100)" json:"twitter_handle,omitempty"`
	FacebookHandle  *string `gorm:"type:varchar(100)" json:"facebook_handle,omitempty"`

	Category          *string `gorm:"type:varchar(100);index" json:"category,omitempty"`
	AveragePriceRange *string `gorm:"type:varchar(50)" json:"average_price_range,omitempty"`
	Description       *string `gorm:"type:text" json:"description,omitempty"`
	LogoURL           *string `gorm:"type:varchar(500)" json:"logo_url,omitempty"`

	Images []BusinessImage `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

func (Business) TableName() string {
	return "businesses"
}

type BusinessImage struct {
	BaseModel
	BusinessID string  `gorm:"type:uuid;not null;index" json:"business_id"`
	ImageURL   string  `gorm:"type:varchar(500);not null" json:"image_url"`
	Caption    *string `gorm:"type:varchar(255)" json:"caption,omitempty"`
	SortOrder  *int    `json:"sort_order,omitempty"`
}

func (BusinessImage) TableName() string {
	return "business_images"
}
