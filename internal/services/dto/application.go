package dto

import (
	"time"

	"gorm.io/datatypes"
)

// --- Application Requests ---

type CreateApplicationRequest struct {
	MarketID    string         `json:"market_id" validate:"required,uuid4"`
	BusinessID  string         `json:"business_id" validate:"required,uuid4"`
	NotesForOrg *string        `json:"notes_for_org,omitempty" validate:"omitempty,max=5000"`
	Answers     datatypes.JSON `json:"answers,omitempty"`
}

// UpdateApplicationRequest is a loose patch: any combination of fields,
// including status, may change in one call
type UpdateApplicationRequest struct {
	Status        *string        `json:"status,omitempty" validate:"omitempty,is-application-status"`
	NotesForOrg   *string        `json:"notes_for_org,omitempty" validate:"omitempty,max=5000"`
	PaymentMethod *string        `json:"payment_method,omitempty" validate:"omitempty,is-payment-method"`
	PaymentStatus *string        `json:"payment_status,omitempty" validate:"omitempty,is-payment-status"`
	Answers       datatypes.JSON `json:"answers,omitempty"`
}

type RejectApplicationRequest struct {
	RejectionReason *string `json:"rejection_reason,omitempty" validate:"omitempty,max=5000"`
}

type UpdatePaymentRequest struct {
	PaymentMethod *string `json:"payment_method,omitempty" validate:"omitempty,is-payment-method"`
	PaymentStatus *string `json:"payment_status,omitempty" validate:"omitempty,is-payment-status"`
}

type ApplicationSearchQuery struct {
	MarketID   string `form:"market_id" validate:"omitempty,uuid4"`
	BusinessID string `form:"business_id" validate:"omitempty,uuid4"`
	Status     string `form:"status" validate:"omitempty,is-application-status"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}

// --- Application Responses ---

type ApplicationResponse struct {
	ID         string `json:"id"`
	MarketID   string `json:"market_id"`
	BusinessID string `json:"business_id"`
	Status     string `json:"status"`

	AppliedAt   *time.Time `json:"applied_at,omitempty"`
	ViewedAt    *time.Time `json:"viewed_at,omitempty"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	DeclinedAt  *time.Time `json:"declined_at,omitempty"`

	NotesForOrg     *string `json:"notes_for_org,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`

	PaymentMethod *string `json:"payment_method,omitempty"`
	PaymentStatus string  `json:"payment_status"`

	Answers datatypes.JSON `json:"answers,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ApplicationDetails pairs an application with the cards of both sides
type ApplicationDetails struct {
	ApplicationResponse
	Market   *MarketCard   `json:"market,omitempty"`
	Business *BusinessCard `json:"business,omitempty"`
}

type ApplicationListResponse struct {
	Applications []*ApplicationResponse `json:"applications"`
	Total        int64                  `json:"total"`
	Limit        int                    `json:"limit"`
	Offset       int                    `json:"offset"`
}

type ApplicationDetailsListResponse struct {
	Applications []*ApplicationDetails `json:"applications"`
	Total        int64                 `json:"total"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}
