package dto

import "time"

// --- Review Requests ---

type CreateReviewRequest struct {
	AuthorUserID string `json:"author_user_id" validate:"-"` // Set by server from auth

	TargetType string `json:"target_type" validate:"required,is-target-type"`
	TargetID   string `json:"target_id" validate:"required,uuid4"`

	Rating *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Title  *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Body   *string `json:"body,omitempty" validate:"omitempty,max=5000"`

	Images []ImageInput `json:"images,omitempty" validate:"omitempty,dive"`
}

type UpdateReviewRequest struct {
	Rating      *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Title       *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Body        *string `json:"body,omitempty" validate:"omitempty,max=5000"`
	IsPublished *bool   `json:"is_published,omitempty"`
}

type ReviewListQuery struct {
	TargetType   string `form:"target_type" validate:"omitempty,is-target-type"`
	TargetID     string `form:"target_id" validate:"omitempty,uuid4"`
	AuthorUserID string `form:"author_user_id" validate:"omitempty,uuid4"`
	Limit        int    `form:"limit"`
	Offset       int    `form:"offset"`
}

// --- Review Responses ---

// ReviewAuthor is resolved from the identity provider, best effort
type ReviewAuthor struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type ReviewResponse struct {
	ID           string  `json:"id"`
	AuthorUserID string  `json:"author_user_id"`
	TargetType   string  `json:"target_type"`
	TargetID     string  `json:"target_id"`
	Rating       *int    `json:"rating,omitempty"`
	Title        *string `json:"title,omitempty"`
	Body         *string `json:"body,omitempty"`
	IsPublished  bool    `json:"is_published"`

	Images []ImageResponse `json:"images"`
	Author *ReviewAuthor   `json:"author,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReviewListResponse struct {
	Reviews []*ReviewResponse `json:"reviews"`
	Total   int64             `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

type ReviewStatsResponse struct {
	TargetType    string   `json:"target_type"`
	TargetID      string   `json:"target_id"`
	ReviewCount   int64    `json:"review_count"`
	AverageRating *float64 `json:"average_rating,omitempty"`
}
