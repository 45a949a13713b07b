package services

import (
	"context"

	"markethub_backend/internal/identity"
	"markethub_backend/internal/services/dto"
	"markethub_backend/pkg/apperrors"
)

const authDomain = "auth"

// AuthService exposes the identity provider's user profile operations.
type AuthService interface {
	Me(ctx context.Context, userID string) (*dto.MeResponse, error)
	UpdateMe(ctx context.Context, userID string, req *dto.UpdateMeRequest) (*dto.MeResponse, error)
	DevToken(ctx context.Context, req *dto.DevTokenRequest) (*dto.DevTokenResponse, error)
}

type authService struct {
	directory identity.Directory
	tokens    *identity.SupabaseClient
}

func NewAuthService(directory identity.Directory, tokens *identity.SupabaseClient) AuthService {
	return &authService{directory: directory, tokens: tokens}
}

func (s *authService) Me(ctx context.Context, userID string) (*dto.MeResponse, error) {
	user, err := s.directory.GetUser(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(authDomain, "user not found")
	}
	return userToMe(user), nil
}

func (s *authService) UpdateMe(ctx context.Context, userID string, req *dto.UpdateMeRequest) (*dto.MeResponse, error) {
	metadata := map[string]interface{}{}
	if req.Name != nil {
		metadata["name"] = *req.Name
	}
	if req.AvatarURL != nil {
		metadata["avatar_url"] = *req.AvatarURL
	}
	if len(metadata) == 0 {
		return s.Me(ctx, userID)
	}

	user, err := s.directory.UpdateUserMetadata(ctx, userID, metadata)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return userToMe(user), nil
}

// DevToken exchanges email and password for an access token. The handler
// only exposes this route in the development environment.
func (s *authService) DevToken(ctx context.Context, req *dto.DevTokenRequest) (*dto.DevTokenResponse, error) {
	if s.tokens == nil {
		return nil, apperrors.ErrInvalidOperation(authDomain, "token exchange is not configured")
	}
	token, err := s.tokens.PasswordGrantToken(ctx, req.Email, req.Password)
	if err != nil {
		return nil, apperrors.ErrForbidden(authDomain, "invalid credentials")
	}
	return &dto.DevTokenResponse{AccessToken: token}, nil
}

func userToMe(user *identity.User) *dto.MeResponse {
	return &dto.MeResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}
}
