package session

import (
	"time"

	"github.com/desertthunder/ytmproxy/internal/shared"
)

// previewLength caps how much of a generated artifact is ever exposed in
// diagnostics or logs.
const previewLength = 50

// AuthStatus is a transient diagnostic snapshot of the session configuration.
// It is assembled on demand and never persisted.
type AuthStatus struct {
	CookiesConfigured     bool             `json:"cookiesConfigured"`
	TokenServerConfigured bool             `json:"tokenServerConfigured"`
	TokenServerReachable  bool             `json:"tokenServerReachable"`
	CookieValidation      ValidationResult `json:"cookieValidation"`
	VisitorDataPreview    string           `json:"visitorDataPreview,omitempty"`
	PoTokenPreview        string           `json:"poTokenPreview,omitempty"`
	CheckedAt             time.Time        `json:"checkedAt"`
	Error                 string           `json:"error,omitempty"`
}

// NewAuthStatus captures the configuration side of a status snapshot. The
// caller fills in reachability and generated-artifact previews.
func NewAuthStatus(cfg Config) AuthStatus {
	status := AuthStatus{
		CookiesConfigured:     cfg.Cookies != "",
		TokenServerConfigured: cfg.TokenServer != "",
		CheckedAt:             time.Now().UTC(),
	}
	if cfg.Cookies != "" {
		status.CookieValidation = ValidateYouTubeCookies(ParseCookies(cfg.Cookies))
	}
	return status
}

// WithArtifacts returns a copy of the status carrying truncated previews of
// the generated session artifacts.
func (s AuthStatus) WithArtifacts(visitorData, poToken string) AuthStatus {
	s.VisitorDataPreview = shared.Truncate(visitorData, previewLength)
	s.PoTokenPreview = shared.Truncate(poToken, previewLength)
	return s
}
