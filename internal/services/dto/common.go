package dto

// ImageInput is one gallery entry as submitted by a client
type ImageInput struct {
	ImageURL  string  `json:"image_url" validate:"required,max=500"`
	Caption   *string `json:"caption,omitempty" validate:"omitempty,max=255"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

// ImageResponse is one gallery entry as returned to a client
type ImageResponse struct {
	ID        string  `json:"id"`
	ImageURL  string  `json:"image_url"`
	Caption   *string `json:"caption,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

// PageQuery is the shared limit/offset pair. Limit is clamped to 1..100
// with a default of 20 by the handlers.
type PageQuery struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}
