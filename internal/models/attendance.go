package models

// MarketAttendance marks that a user plans to attend a market
type MarketAttendance struct {
	BaseModel
	MarketID string `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_market_user" json:"market_id"`
	UserID   string `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_market_user;index" json:"user_id"`

	Status          string  `gorm:"type:varchar(20);not null;default:'attending'" json:"status"`
	CalendarEventID *string `gorm:"type:varchar(255)" json:"calendar_event_id,omitempty"`

	Market *Market `gorm:"foreignKey:MarketID;constraint:OnDelete:CASCADE" json:"market,omitempty"`
}

func (MarketAttendance) TableName() string {
	return "market_attendance"
}
