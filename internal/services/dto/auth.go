package dto

type MeResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type UpdateMeRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,max=255"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,max=500"`
}

// DevTokenRequest is the development-only password grant
type DevTokenRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type DevTokenResponse struct {
	AccessToken string `json:"access_token"`
}
