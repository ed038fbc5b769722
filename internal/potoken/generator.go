package potoken

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmproxy/internal/cache"
	"github.com/desertthunder/ytmproxy/internal/shared"
)

// tokenContext is the attestation context sent to remote token servers;
// "gvs" requests a token scoped to Google Video Streaming.
const tokenContext = "gvs"

// probeTimeout bounds the reachability check against a token server.
const probeTimeout = 10 * time.Second

// Sentinels for the session-cache fingerprint when a field is absent.
const (
	keyNoCookies   = "none"
	keyLocalServer = "local"
)

// SessionData is a generated (visitor data, proof-of-origin token) pair.
type SessionData struct {
	VisitorData string
	PoToken     string
}

// tokenRequest is the JSON body POSTed to a remote token server.
type tokenRequest struct {
	ContentBinding string `json:"content_binding"`
	Context        string `json:"context"`
}

// tokenResponse is the typed shape a remote token server is expected to
// return. Loosely specified servers are handled by the fallback parse chain.
type tokenResponse struct {
	PoToken string `json:"poToken"`
}

// Generator produces session artifacts, preferring a remote token server
// when one is configured and falling back to the local engine. Generated
// pairs are memoized for an hour per (cookies, server) fingerprint.
type Generator struct {
	engine   Engine
	client   *http.Client
	logger   *log.Logger
	sessions *cache.Table[SessionData]
}

// NewGenerator creates a Generator. client defaults to http.DefaultClient.
func NewGenerator(engine Engine, client *http.Client, logger *log.Logger) *Generator {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Generator{
		engine:   engine,
		client:   client,
		logger:   logger,
		sessions: cache.New[SessionData](),
	}
}

// Sessions exposes the session cache for diagnostics and cache-management
// endpoints.
func (g *Generator) Sessions() *cache.Table[SessionData] {
	return g.sessions
}

// GenerateVisitorData produces a visitor-data string through the local
// engine. Engine faults and empty results both surface as ErrGeneration.
func (g *Generator) GenerateVisitorData(ctx context.Context, cookies string) (string, error) {
	visitorData, err := g.engine.VisitorData(ctx, cookies)
	if err != nil {
		return "", fmt.Errorf("%w: visitor data: %v", shared.ErrGeneration, err)
	}
	if visitorData == "" {
		return "", fmt.Errorf("%w: engine returned empty visitor data", shared.ErrGeneration)
	}
	return visitorData, nil
}

// GeneratePoTokenLocal produces a proof-of-origin token through the local
// engine for the given visitor data.
func (g *Generator) GeneratePoTokenLocal(ctx context.Context, visitorData, cookies string) (string, error) {
	if visitorData == "" {
		return "", fmt.Errorf("%w: visitor data is required", shared.ErrInvalidArgument)
	}

	token, err := g.engine.ProofOfOriginToken(ctx, visitorData, cookies)
	if err != nil {
		return "", fmt.Errorf("%w: po token: %v", shared.ErrGeneration, err)
	}
	if token == "" {
		return "", fmt.Errorf("%w: engine returned empty po token", shared.ErrGeneration)
	}
	return token, nil
}

// GeneratePoTokenRemote requests a proof-of-origin token from serverURL by
// POSTing {content_binding, context:"gvs"}. Non-2xx responses and transport
// failures surface as ErrGeneration.
func (g *Generator) GeneratePoTokenRemote(ctx context.Context, visitorData, serverURL string) (string, error) {
	if visitorData == "" {
		return "", fmt.Errorf("%w: visitor data is required", shared.ErrInvalidArgument)
	}
	if serverURL == "" {
		return "", fmt.Errorf("%w: token server URL is required", shared.ErrInvalidArgument)
	}

	payload, err := json.Marshal(tokenRequest{ContentBinding: visitorData, Context: tokenContext})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", shared.ErrGeneration, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", shared.ErrGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token server request failed: %v", shared.ErrGeneration, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read token server response: %v", shared.ErrGeneration, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: token server returned %d: %s", shared.ErrGeneration, resp.StatusCode, string(body))
	}

	token := parseTokenResponse(body)
	if token == "" {
		return "", fmt.Errorf("%w: token server returned an empty token", shared.ErrGeneration)
	}
	return token, nil
}

// parseTokenResponse extracts a token from a server response, accepting in
// order: the typed poToken field, a generic poToken or token JSON field, a
// bare JSON string, and finally the trimmed raw body.
func parseTokenResponse(body []byte) string {
	var typed tokenResponse
	if err := json.Unmarshal(body, &typed); err == nil && typed.PoToken != "" {
		return typed.PoToken
	}

	var generic map[string]any
	if err := json.Unmarshal(body, &generic); err == nil {
		for _, field := range []string{"poToken", "token"} {
			if v, ok := generic[field].(string); ok && v != "" {
				return v
			}
		}
	}

	var bare string
	if err := json.Unmarshal(body, &bare); err == nil && bare != "" {
		return bare
	}

	return strings.TrimSpace(string(body))
}

// GeneratePoToken produces a proof-of-origin token, attempting the remote
// server first when one is given and falling back to local generation on any
// remote failure. The fallback is one-shot.
func (g *Generator) GeneratePoToken(ctx context.Context, visitorData, serverURL, cookies string) (string, error) {
	if serverURL == "" {
		return g.GeneratePoTokenLocal(ctx, visitorData, cookies)
	}

	return shared.Fallback(ctx,
		func(ctx context.Context) (string, error) {
			return g.GeneratePoTokenRemote(ctx, visitorData, serverURL)
		},
		func(ctx context.Context) (string, error) {
			return g.GeneratePoTokenLocal(ctx, visitorData, cookies)
		},
		func(err error) {
			g.logger.Warn("remote po token generation failed, falling back to local engine",
				"server", serverURL, "error", err)
		},
	)
}

// GenerateSessionData returns the memoized (visitor data, token) pair for the
// (cookies, serverURL) fingerprint, generating and caching a fresh pair on
// miss. Entries live for an hour.
func (g *Generator) GenerateSessionData(ctx context.Context, cookies, serverURL string) (SessionData, error) {
	key := sessionKey(cookies, serverURL)
	if data, ok := g.sessions.Get(key); ok {
		return data, nil
	}

	visitorData, err := g.GenerateVisitorData(ctx, cookies)
	if err != nil {
		return SessionData{}, err
	}

	token, err := g.GeneratePoToken(ctx, visitorData, serverURL, cookies)
	if err != nil {
		return SessionData{}, err
	}

	data := SessionData{VisitorData: visitorData, PoToken: token}
	g.sessions.Put(key, data, cache.SessionTTL)
	return data, nil
}

// TestTokenServer probes serverURL with a bounded timeout. Any HTTP response
// counts as reachable; only transport-level failures do not.
func (g *Generator) TestTokenServer(ctx context.Context, serverURL string) error {
	if serverURL == "" {
		return fmt.Errorf("%w: token server URL is required", shared.ErrInvalidArgument)
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	payload, _ := json.Marshal(tokenRequest{ContentBinding: "probe", Context: tokenContext})
	req, err := http.NewRequestWithContext(probeCtx, http.MethodPost, serverURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: build probe request: %v", shared.ErrGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: token server unreachable: %v", shared.ErrServiceUnavailable, err)
	}
	resp.Body.Close()
	return nil
}

func sessionKey(cookies, serverURL string) string {
	if cookies == "" {
		cookies = keyNoCookies
	}
	if serverURL == "" {
		serverURL = keyLocalServer
	}
	return cookies + "|" + serverURL
}
