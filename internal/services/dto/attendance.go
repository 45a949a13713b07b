package dto

import "time"

// --- Attendance Requests ---

type CreateAttendanceRequest struct {
	MarketID        string  `json:"market_id" validate:"required,uuid4"`
	Status          *string `json:"status,omitempty" validate:"omitempty,max=20"`
	CalendarEventID *string `json:"calendar_event_id,omitempty" validate:"omitempty,max=255"`
}

type UpdateAttendanceRequest struct {
	Status          *string `json:"status,omitempty" validate:"omitempty,max=20"`
	CalendarEventID *string `json:"calendar_event_id,omitempty" validate:"omitempty,max=255"`
}

type AttendanceListQuery struct {
	MarketID string `form:"market_id" validate:"omitempty,uuid4"`
	Status   string `form:"status" validate:"omitempty,max=20"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

// --- Attendance Responses ---

type AttendanceResponse struct {
	ID              string    `json:"id"`
	MarketID        string    `json:"market_id"`
	UserID          string    `json:"user_id"`
	Status          string    `json:"status"`
	CalendarEventID *string   `json:"calendar_event_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// AttendanceDetails pairs an attendance with its market card
type AttendanceDetails struct {
	AttendanceResponse
	Market *MarketCard `json:"market,omitempty"`
}

type AttendanceListResponse struct {
	Attendances []*AttendanceResponse `json:"attendances"`
	Total       int64                 `json:"total"`
	Limit       int                   `json:"limit"`
	Offset      int                   `json:"offset"`
}
