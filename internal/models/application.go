package models

import (
	"time"

	"gorm.io/datatypes"
)

// Application is a vendor's request to participate in a market.
// One business may apply to a market at most once.
type Application struct {
	BaseModel
	MarketID   string `gorm:"type:uuid;not null;uniqueIndex:idx_applications_market_business;index" json:"market_id"`
	BusinessID string `gorm:"type:uuid;not null;uniqueIndex:idx_applications_market_business;index" json:"business_id"`

	Status ApplicationStatus `gorm:"type:varchar(20);not null;default:'applied';index" json:"status"`

	// Lifecycle timestamps, stamped once and never overwritten
	AppliedAt   *time.Time `json:"applied_at,omitempty"`
	ViewedAt    *time.Time `json:"viewed_at,omitempty"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	DeclinedAt  *time.Time `json:"declined_at,omitempty"`

	NotesForOrg     *string `gorm:"type:text" json:"notes_for_org,omitempty"`
	RejectionReason *string `gorm:"type:text" json:"rejection_reason,omitempty"`

	PaymentMethod *PaymentMethod `gorm:"type:varchar(20)" json:"payment_method,omitempty"`
	PaymentStatus PaymentStatus  `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`

	// Answers to the market's application form, keyed by question id
	Answers datatypes.JSON `gorm:"type:jsonb" json:"answers,omitempty"`

	Market   *Market   `gorm:"foreignKey:MarketID;constraint:OnDelete:CASCADE" json:"market,omitempty"`
	Business *Business `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"business,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}
