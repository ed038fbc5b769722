// package lyrics consumes the external lyrics lookup service. Lookups are
// best-effort: every failure mode collapses to "no result" so a missing
// transcript can never fail a song request.
package lyrics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmproxy/internal/shared"
)

// DefaultTimeout bounds a single lyrics lookup unless the caller supplies
// its own.
const DefaultTimeout = time.Second

// Line is a single timed lyric record.
type Line struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	DurationMS int     `json:"durationMs"`
}

// Result is the lyrics portion of a song response. Failures are encoded as a
// structured payload instead of an error.
type Result struct {
	Success bool         `json:"success"`
	Lines   []Line       `json:"lines,omitempty"`
	Error   *ResultError `json:"error,omitempty"`
}

// ResultError describes why lyrics are unavailable for a video.
type ResultError struct {
	Reason  string  `json:"reason"`
	VideoID string  `json:"videoId"`
	Timeout float64 `json:"timeout,omitempty"`
}

// Unavailable builds a failure Result for videoID. timeout is the deadline in
// seconds when the failure was a timeout, zero otherwise.
func Unavailable(videoID, reason string, timeout float64) Result {
	return Result{
		Success: false,
		Error:   &ResultError{Reason: reason, VideoID: videoID, Timeout: timeout},
	}
}

// Found builds a success Result.
func Found(lines []Line) Result {
	return Result{Success: true, Lines: lines}
}

// Store caches fetched lyrics between requests.
type Store interface {
	Get(videoID string) ([]Line, bool)
	Put(videoID string, lines []Line) error
}

// servicePayload covers the non-success shapes the lyrics service returns:
// an error payload (code + reason) or a processing payload (code + message).
type servicePayload struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Client fetches lyrics over HTTP with a bounded timeout and an optional
// read-through store.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	store   Store
	logger  *log.Logger
}

// New creates a lyrics client. timeout <= 0 uses DefaultTimeout.
func New(baseURL string, httpClient *http.Client, timeout time.Duration, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Client{baseURL: baseURL, http: httpClient, timeout: timeout, logger: logger}
}

// SetStore attaches a read-through cache for fetched lyrics.
func (c *Client) SetStore(store Store) {
	c.store = store
}

// Fetch looks up lyrics for videoID under the client's own timeout. The
// boolean reports whether lyrics were found; transport errors, bad payloads,
// timeouts and non-2xx responses all report false.
func (c *Client) Fetch(ctx context.Context, videoID string) ([]Line, bool) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.Lookup(fetchCtx, videoID)
}

// Lookup is Fetch bound only by the caller's context. Callers racing the
// lookup against their own deadline use this so the client's shorter default
// timeout cannot decide the race for them.
func (c *Client) Lookup(ctx context.Context, videoID string) ([]Line, bool) {
	if videoID == "" || c.baseURL == "" {
		return nil, false
	}

	if c.store != nil {
		if lines, ok := c.store.Get(videoID); ok {
			return lines, true
		}
	}

	lines, err := c.fetch(ctx, videoID)
	if err != nil {
		c.logger.Debug("lyrics lookup failed", "videoId", videoID, "error", err)
		return nil, false
	}

	if c.store != nil {
		if err := c.store.Put(videoID, lines); err != nil {
			c.logger.Warn("failed to cache lyrics", "videoId", videoID, "error", err)
		}
	}
	return lines, true
}

func (c *Client) fetch(ctx context.Context, videoID string) ([]Line, error) {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(videoID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: lyrics service returned %d", shared.ErrLyricsUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var lines []Line
	if err := json.Unmarshal(body, &lines); err == nil {
		if len(lines) == 0 {
			return nil, fmt.Errorf("%w: empty transcript", shared.ErrLyricsUnavailable)
		}
		return lines, nil
	}

	// Not a transcript; either an error payload or still processing.
	var payload servicePayload
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Reason != "" {
			return nil, fmt.Errorf("%w: %s", shared.ErrLyricsUnavailable, payload.Reason)
		}
		if payload.Message != "" {
			return nil, fmt.Errorf("%w: %s", shared.ErrLyricsUnavailable, payload.Message)
		}
	}

	return nil, fmt.Errorf("%w: unrecognized response", shared.ErrLyricsUnavailable)
}
