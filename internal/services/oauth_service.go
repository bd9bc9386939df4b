package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var (
	ErrOAuthNotConfigured = errors.New("google login is not configured")
	ErrOAuthExchange      = errors.New("failed to exchange authorization code")
)

// GoogleOAuth runs the Google authorization-code flow.
type GoogleOAuth interface {
	// AuthCodeURL returns the consent page URL carrying state
	AuthCodeURL(state string) string

	// Profile exchanges code and fetches the signed-in Google profile
	Profile(ctx context.Context, code string) (*GoogleProfile, error)
}

// GoogleOAuthService is the oauth2-backed GoogleOAuth implementation.
type GoogleOAuthService struct {
	config      *oauth2.Config
	userInfoURL string
}

// NewGoogleOAuthService creates the service for the given client credentials.
func NewGoogleOAuthService(clientID, clientSecret, redirectURL string) *GoogleOAuthService {
	return &GoogleOAuthService{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

// WithEndpoint overrides the token and userinfo endpoints.
func (s *GoogleOAuthService) WithEndpoint(endpoint oauth2.Endpoint, userInfoURL string) *GoogleOAuthService {
	s.config.Endpoint = endpoint
	s.userInfoURL = userInfoURL
	return s
}

func (s *GoogleOAuthService) AuthCodeURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (s *GoogleOAuthService) Profile(ctx context.Context, code string) (*GoogleProfile, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuthExchange, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("google userinfo returned %d: %s", resp.StatusCode, body)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode google profile: %w", err)
	}
	if profile.ID == "" || profile.Email == "" {
		return nil, ErrGoogleProfileInvalid
	}

	return &profile, nil
}
