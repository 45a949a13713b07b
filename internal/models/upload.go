package models

// PendingImage is an uploaded file not yet attached to any entity.
// A background sweep reports entries older than the retention window.
type PendingImage struct {
	BaseModel
	UserID   string `gorm:"type:uuid;not null;index" json:"user_id"`
	ImageURL string `gorm:"type:varchar(500);not null" json:"image_url"`
	S3Key    string `gorm:"type:varchar(500);not null;index" json:"s3_key"`
}

func (PendingImage) TableName() string {
	return "pending_images"
}
