package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/desertthunder/ytmproxy/internal/shared"
	"golang.org/x/oauth2"
)

// googleDeviceEndpoint is the device-authorization endpoint pair used by the
// YouTube TV client, the same flow ytmusicapi's oauth setup relies on.
var googleDeviceEndpoint = oauth2.Endpoint{
	DeviceAuthURL: "https://oauth2.googleapis.com/device/code",
	TokenURL:      "https://oauth2.googleapis.com/token",
}

const youtubeScope = "https://www.googleapis.com/auth/youtube"

// NewOAuthConfig builds the oauth2 configuration for browserless sign-in.
func NewOAuthConfig(clientID, clientSecret string) (*oauth2.Config, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: oauth client_id and client_secret are required", shared.ErrMissingCredentials)
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     googleDeviceEndpoint,
		Scopes:       []string{youtubeScope},
	}, nil
}

// RunDeviceFlow performs the OAuth2 device-authorization grant. prompt is
// invoked once with the verification URL and user code; the call then blocks
// polling for approval until ctx is done or the device code expires.
func RunDeviceFlow(ctx context.Context, cfg *oauth2.Config, prompt func(verificationURL, userCode string)) (*oauth2.Token, error) {
	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("device authorization request failed: %w", err)
	}

	if prompt != nil {
		prompt(resp.VerificationURI, resp.UserCode)
	}

	token, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("device token exchange failed: %w", err)
	}
	return token, nil
}

// SaveToken persists an OAuth token as JSON at path with owner-only access.
func SaveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// LoadToken reads a persisted OAuth token. Returns ErrTokenExpired when the
// token exists but is no longer valid.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	if !token.Valid() && token.RefreshToken == "" {
		return nil, fmt.Errorf("%w: re-run auth login", shared.ErrTokenExpired)
	}
	return &token, nil
}
