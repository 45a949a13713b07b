package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"markethub_backend/internal/config"
)

// User is a profile as the identity provider knows it
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Directory resolves user profiles. Lookups are best effort: enrichment
// callers treat a nil user as "unknown" rather than an error.
type Directory interface {
	GetUser(ctx context.Context, userID string) (*User, error)
	UpdateUserMetadata(ctx context.Context, userID string, metadata map[string]interface{}) (*User, error)
}

// SupabaseClient talks to the Supabase auth admin API with the service role key
type SupabaseClient struct {
	baseURL        string
	serviceRoleKey string
	publishableKey string
	http           *http.Client
}

func NewSupabaseClient(cfg *config.Config) *SupabaseClient {
	return &SupabaseClient{
		baseURL:        strings.TrimSuffix(cfg.Identity.ProjectURL, "/"),
		serviceRoleKey: cfg.Identity.ServiceRoleKey,
		publishableKey: cfg.Identity.PublishableKey,
		http:           &http.Client{Timeout: 10 * time.Second},
	}
}

type adminUser struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

func (u adminUser) toUser() *User {
	user := &User{ID: u.ID, Email: u.Email}
	if name, ok := u.UserMetadata["name"].(string); ok {
		user.Name = name
	} else if name, ok := u.UserMetadata["full_name"].(string); ok {
		user.Name = name
	}
	if avatar, ok := u.UserMetadata["avatar_url"].(string); ok {
		user.AvatarURL = avatar
	}
	return user
}

// GetUser fetches a user by id through the admin API
func (c *SupabaseClient) GetUser(ctx context.Context, userID string) (*User, error) {
	var raw adminUser
	if err := c.do(ctx, http.MethodGet, "/auth/v1/admin/users/"+userID, nil, &raw); err != nil {
		return nil, err
	}
	return raw.toUser(), nil
}

// UpdateUserMetadata merges metadata into the user's profile
func (c *SupabaseClient) UpdateUserMetadata(ctx context.Context, userID string, metadata map[string]interface{}) (*User, error) {
	body := map[string]interface{}{"user_metadata": metadata}
	var raw adminUser
	if err := c.do(ctx, http.MethodPut, "/auth/v1/admin/users/"+userID, body, &raw); err != nil {
		return nil, err
	}
	return raw.toUser(), nil
}

// PasswordGrantToken exchanges email+password for an access token.
// Development helper only, never exposed outside dev environments.
func (c *SupabaseClient) PasswordGrantToken(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.doWithKey(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", c.publishableKey, body, &result); err != nil {
		return "", err
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("identity provider returned no access token")
	}
	return result.AccessToken, nil
}

func (c *SupabaseClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	return c.doWithKey(ctx, method, path, c.serviceRoleKey, body, out)
}

func (c *SupabaseClient) doWithKey(ctx context.Context, method, path, key string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build identity request: %w", err)
	}
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("identity request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("identity provider returned %d: %s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode identity response: %w", err)
		}
	}
	return nil
}
