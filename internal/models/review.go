package models

// Review targets either a market or a business (polymorphic, no FK)
type Review struct {
	BaseModel
	AuthorUserID string     `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_author_target" json:"author_user_id"`
	TargetType   TargetType `gorm:"type:varchar(20);not null;uniqueIndex:idx_reviews_author_target;index:idx_reviews_target" json:"target_type"`
	TargetID     string     `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_author_target;index:idx_reviews_target" json:"target_id"`

	Rating      *int    `json:"rating,omitempty"` // 1..5 when present
	Title       *string `gorm:"type:varchar(255)" json:"title,omitempty"`
	Body        *string `gorm:"type:text" json:"body,omitempty"`
	// No column default: false would be silently dropped on insert
	IsPublished bool `gorm:"not null" json:"is_published"`

	Images []ReviewImage `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

type ReviewImage struct {
	BaseModel
	ReviewID  string  `gorm:"type:uuid;not null;index" json:"review_id"`
	ImageURL  string  `gorm:"type:varchar(500);not null" json:"image_url"`
	Caption   *string `gorm:"type:varchar(255)" json:"caption,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

func (ReviewImage) TableName() string {
	return "review_images"
}
