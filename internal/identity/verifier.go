package identity

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"markethub_backend/internal/config"
)

// Claims is the subset of access-token claims the API cares about
type Claims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// TokenVerifier validates Supabase access tokens against the project JWKS
type TokenVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewTokenVerifier builds a verifier for the configured project.
// Supabase signs with ES256; the key set is fetched lazily and cached.
func NewTokenVerifier(ctx context.Context, cfg *config.Config) (*TokenVerifier, error) {
	projectURL := cfg.Identity.ProjectURL
	if projectURL == "" {
		return nil, fmt.Errorf("identity project URL is not configured")
	}

	issuer := projectURL + "/auth/v1"
	keySet := oidc.NewRemoteKeySet(ctx, issuer+"/.well-known/jwks.json")

	oidcConfig := &oidc.Config{
		ClientID:             cfg.Identity.Audience,
		SupportedSigningAlgs: []string{oidc.ES256},
	}
	if cfg.Identity.Audience == "" {
		oidcConfig.SkipClientIDCheck = true
	}

	return &TokenVerifier{
		verifier: oidc.NewVerifier(issuer, keySet, oidcConfig),
	}, nil
}

// Verify checks signature, issuer, audience and expiry, and returns the claims
func (v *TokenVerifier) Verify(ctx context.Context, rawToken string) (*Claims, error) {
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}

	var claims Claims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to decode token claims: %w", err)
	}
	if claims.Sub == "" {
		return nil, fmt.Errorf("token missing sub claim")
	}

	return &claims, nil
}
