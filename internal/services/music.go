// MusicService facade over session resolution, token generation, client
// caching, and the InnerTube catalog.
package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmproxy/internal/cache"
	"github.com/desertthunder/ytmproxy/internal/lyrics"
	"github.com/desertthunder/ytmproxy/internal/potoken"
	"github.com/desertthunder/ytmproxy/internal/session"
	"github.com/desertthunder/ytmproxy/internal/shared"
)

// defaultLyricsDeadline bounds how long a song lookup waits for the lyrics
// service before answering without a transcript.
const defaultLyricsDeadline = 2 * time.Second

const playlistIDPrefix = "PL"

// SongDetail is the combined answer for a single-song lookup: metadata,
// best-effort streaming data, and the raced lyrics result.
type SongDetail struct {
	Song      Song           `json:"song"`
	Streaming *StreamingData `json:"streaming,omitempty"`
	Lyrics    *lyrics.Result `json:"lyrics,omitempty"`
}

// MusicService resolves per-request sessions and serves catalog operations
// through cached per-session HTTP clients.
type MusicService struct {
	config    *shared.Config
	generator *potoken.Generator
	lyrics    *lyrics.Client
	logger    *log.Logger
	clients   *cache.Table[*http.Client]
	bearer    string

	// lyricsDeadline caps the lyrics sub-fetch race; tests shorten it.
	lyricsDeadline time.Duration

	// newCatalog builds the catalog for a resolved session; tests swap it
	// for a double.
	newCatalog func(client *http.Client, cfg session.Config, bearer string) Catalog
}

// NewMusicService creates the facade. lyricsClient may be nil when the
// lyrics service is disabled.
func NewMusicService(config *shared.Config, generator *potoken.Generator, lyricsClient *lyrics.Client, logger *log.Logger) *MusicService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	clients := cache.New[*http.Client]()
	clients.SetEvictFunc(func(_ string, client *http.Client) {
		client.CloseIdleConnections()
	})

	return &MusicService{
		config:         config,
		generator:      generator,
		lyrics:         lyricsClient,
		logger:         logger,
		clients:        clients,
		lyricsDeadline: defaultLyricsDeadline,
		newCatalog: func(client *http.Client, cfg session.Config, bearer string) Catalog {
			return NewInnertubeClient(client, cfg).WithBearerToken(bearer)
		},
	}
}

// SetBearerToken installs an OAuth access token used for authorization when
// the session has no cookies.
func (m *MusicService) SetBearerToken(token string) {
	m.bearer = token
}

// Clients exposes the HTTP client cache for inspection.
func (m *MusicService) Clients() *cache.Table[*http.Client] {
	return m.clients
}

// ClearCaches drops all cached sessions and HTTP clients. Evicted clients
// have their idle connections closed.
func (m *MusicService) ClearCaches() {
	m.generator.Sessions().Clear()
	m.clients.Clear()
}

// ResolveSession merges the request override onto the static configuration
// and generates missing session data when cookies allow it. Generation
// failures degrade to an unauthenticated session rather than failing the
// request.
func (m *MusicService) ResolveSession(ctx context.Context, override *session.Config) session.Config {
	ov := session.Config{}
	if override != nil {
		ov = *override
	}

	cfg := session.Resolve(m.config.Session, ov)
	if cfg.NeedsSessionDataGeneration() {
		data, err := m.generator.GenerateSessionData(ctx, cfg.Cookies, cfg.TokenServer)
		if err != nil {
			m.logger.Warn("session data generation failed", "error", err)
		} else {
			cfg = cfg.WithSessionData(data.VisitorData, data.PoToken)
		}
	}

	return cfg
}

// CreateClient resolves the effective session and returns a catalog bound to
// the cached HTTP client for that session.
func (m *MusicService) CreateClient(ctx context.Context, override *session.Config) (Catalog, error) {
	catalog, _, err := m.catalogFor(ctx, override)
	return catalog, err
}

func (m *MusicService) catalogFor(ctx context.Context, override *session.Config) (Catalog, session.Config, error) {
	cfg := m.ResolveSession(ctx, override)

	key := cfg.CacheKey()
	client, ok := m.clients.Get(key)
	if !ok {
		client = m.buildHTTPClient(cfg)
		m.clients.Put(key, client, cache.ClientTTL)
	}

	return m.newCatalog(client, cfg, m.bearer), cfg, nil
}

// buildHTTPClient constructs the per-session HTTP client: a tuned transport
// wrapped so every request carries the session's default headers.
func (m *MusicService) buildHTTPClient(cfg session.Config) *http.Client {
	headers := http.Header{}
	headers.Set("User-Agent", session.ResolveString(session.SourceUserAgent, m.config.Session.UserAgent))
	headers.Set("Accept", "*/*")
	headers.Set("Accept-Language", "en-US,en;q=0.9")
	headers.Set("Origin", musicOrigin)
	headers.Set("Referer", musicOrigin+"/")
	if cfg.Cookies != "" {
		headers.Set("Cookie", cfg.Cookies)
	}
	if cfg.VisitorData != "" {
		headers.Set("X-Goog-Visitor-Id", cfg.VisitorData)
	}

	timeout := session.ResolveInt(session.SourceTimeout, m.config.Session.Timeout)
	retries := session.ResolveInt(session.SourceMaxRetries, m.config.Session.MaxRetries)

	return &http.Client{
		Transport: &headerTransport{
			base: &retryTransport{
				base: &http.Transport{
					ForceAttemptHTTP2:     true,
					MaxIdleConns:          100,
					MaxIdleConnsPerHost:   10,
					IdleConnTimeout:       90 * time.Second,
					TLSHandshakeTimeout:   10 * time.Second,
					ResponseHeaderTimeout: 10 * time.Second,
				},
				attempts: retries,
			},
			headers: headers,
		},
		Timeout: time.Duration(timeout) * time.Second,
	}
}

// headerTransport applies default headers to every outgoing request without
// overriding headers the caller already set.
type headerTransport struct {
	base    http.RoundTripper
	headers http.Header
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for key, values := range t.headers {
		if clone.Header.Get(key) == "" {
			clone.Header[key] = values
		}
	}
	return t.base.RoundTrip(clone)
}

// retryTransport retries transient upstream failures (transport errors, 429,
// and 5xx responses) with linear backoff. Requests without a rewindable body
// are attempted once.
type retryTransport struct {
	base     http.RoundTripper
	attempts int
	backoff  time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	attempts := t.attempts
	if attempts < 1 || (req.Body != nil && req.GetBody == nil) {
		attempts = 1
	}
	backoff := t.backoff
	if backoff == 0 {
		backoff = 500 * time.Millisecond
	}

	var resp *http.Response
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if req.GetBody != nil {
				body, bodyErr := req.GetBody()
				if bodyErr != nil {
					return resp, err
				}
				req.Body = body
			}
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(time.Duration(attempt) * backoff):
			}
		}

		resp, err = t.base.RoundTrip(req)
		if err != nil {
			continue
		}
		if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < 500 {
			return resp, nil
		}
		if attempt < attempts-1 {
			resp.Body.Close()
		}
	}
	return resp, err
}

// SearchSongs searches the catalog for songs matching the query.
func (m *MusicService) SearchSongs(ctx context.Context, query string, override *session.Config) ([]Song, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", shared.ErrInvalidArgument)
	}

	catalog, _, err := m.catalogFor(ctx, override)
	if err != nil {
		return nil, err
	}

	return catalog.SearchSongs(ctx, query)
}

// GetSongVideoInfo retrieves metadata for a video together with best-effort
// streaming data and the lyrics race outcome. Metadata failure fails the
// call; streaming and lyrics failures degrade to absent fields.
func (m *MusicService) GetSongVideoInfo(ctx context.Context, videoID string, override *session.Config) (*SongDetail, error) {
	if videoID == "" {
		return nil, fmt.Errorf("%w: video id is required", shared.ErrInvalidArgument)
	}

	catalog, _, err := m.catalogFor(ctx, override)
	if err != nil {
		return nil, err
	}

	song, err := catalog.GetSongInfo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	detail := &SongDetail{Song: *song}

	streaming, err := catalog.GetStreamingData(ctx, videoID)
	if err != nil {
		m.logger.Warn("streaming data unavailable", "video_id", videoID, "error", err)
	} else {
		detail.Streaming = streaming
	}

	if m.lyrics != nil {
		result := m.raceLyrics(ctx, videoID)
		detail.Lyrics = &result
	}

	return detail, nil
}

// raceLyrics fetches lyrics against a fixed deadline. The caller always gets
// a structured result; a slow or failed fetch never blocks the song lookup
// past the deadline.
func (m *MusicService) raceLyrics(ctx context.Context, videoID string) lyrics.Result {
	lines, err, timedOut := shared.RaceTimeout(ctx, m.lyricsDeadline, func(ctx context.Context) ([]lyrics.Line, error) {
		fetched, ok := m.lyrics.Lookup(ctx, videoID)
		if !ok {
			return nil, shared.ErrLyricsUnavailable
		}
		return fetched, nil
	})

	switch {
	case timedOut:
		return lyrics.Unavailable(videoID, "lyrics lookup took too long", m.lyricsDeadline.Seconds())
	case err != nil:
		return lyrics.Unavailable(videoID, "no lyrics found for this video", 0)
	default:
		return lyrics.Found(lines)
	}
}

// GetPlaylist retrieves a playlist with its full track listing. The playlist
// ID must carry the PL prefix; anything else is rejected before any network
// traffic.
func (m *MusicService) GetPlaylist(ctx context.Context, playlistID string, override *session.Config) (*Playlist, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id is required", shared.ErrInvalidArgument)
	}
	if !strings.HasPrefix(strings.ToUpper(playlistID), playlistIDPrefix) {
		return nil, fmt.Errorf("%w: playlist id must start with %s", shared.ErrInvalidArgument, playlistIDPrefix)
	}

	catalog, _, err := m.catalogFor(ctx, override)
	if err != nil {
		return nil, err
	}

	browseID := catalog.GetPlaylistBrowseID(playlistID)
	playlist, err := catalog.GetPlaylist(ctx, browseID)
	if err != nil {
		return nil, err
	}

	for continuation := playlist.Continuation; continuation != ""; {
		songs, next, err := catalog.GetPlaylistSongs(ctx, browseID, continuation)
		if err != nil {
			return nil, err
		}
		playlist.Tracks = append(playlist.Tracks, songs...)
		continuation = next
	}
	playlist.Continuation = ""

	if playlist.TrackCount == 0 {
		playlist.TrackCount = len(playlist.Tracks)
	}

	return playlist, nil
}

// GetAlbum retrieves an album page by browse ID.
func (m *MusicService) GetAlbum(ctx context.Context, browseID string, override *session.Config) (*Album, error) {
	if browseID == "" {
		return nil, fmt.Errorf("%w: album browse id is required", shared.ErrInvalidArgument)
	}

	catalog, _, err := m.catalogFor(ctx, override)
	if err != nil {
		return nil, err
	}

	return catalog.GetAlbum(ctx, browseID)
}

// GetArtist retrieves an artist page by channel ID.
func (m *MusicService) GetArtist(ctx context.Context, channelID string, override *session.Config) (*ArtistInfo, error) {
	if channelID == "" {
		return nil, fmt.Errorf("%w: artist channel id is required", shared.ErrInvalidArgument)
	}

	catalog, _, err := m.catalogFor(ctx, override)
	if err != nil {
		return nil, err
	}

	return catalog.GetArtist(ctx, channelID)
}

// libraryOp names one of the six library listings for fan-out and errors.
type libraryOp struct {
	name  string
	fetch func(Catalog, context.Context) ([]LibraryItem, error)
}

var libraryOps = []libraryOp{
	{"songs", Catalog.GetLibrarySongs},
	{"albums", Catalog.GetLibraryAlbums},
	{"artists", Catalog.GetLibraryArtists},
	{"subscriptions", Catalog.GetLibrarySubscriptions},
	{"podcasts", Catalog.GetLibraryPodcasts},
	{"playlists", Catalog.GetLibraryPlaylists},
}

// GetLibraryList retrieves a single library listing by name. Requires an
// authenticated session.
func (m *MusicService) GetLibraryList(ctx context.Context, name string, override *session.Config) ([]LibraryItem, error) {
	catalog, cfg, err := m.catalogFor(ctx, override)
	if err != nil {
		return nil, err
	}
	if !cfg.HasSessionData() {
		return nil, fmt.Errorf("%w: library access needs cookies and session data", shared.ErrMissingCredentials)
	}

	for _, op := range libraryOps {
		if op.name == name {
			return op.fetch(catalog, ctx)
		}
	}

	return nil, fmt.Errorf("%w: unknown library listing %q", shared.ErrInvalidArgument, name)
}

// GetLibrary retrieves all six library listings concurrently. Any single
// failure fails the combined call.
func (m *MusicService) GetLibrary(ctx context.Context, override *session.Config) (*Library, error) {
	catalog, cfg, err := m.catalogFor(ctx, override)
	if err != nil {
		return nil, err
	}
	if !cfg.HasSessionData() {
		return nil, fmt.Errorf("%w: library access needs cookies and session data", shared.ErrMissingCredentials)
	}

	library := &Library{}
	targets := map[string]*[]LibraryItem{
		"songs":         &library.Songs,
		"albums":        &library.Albums,
		"artists":       &library.Artists,
		"subscriptions": &library.Subscriptions,
		"podcasts":      &library.Podcasts,
		"playlists":     &library.Playlists,
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, op := range libraryOps {
		wg.Add(1)
		go func(op libraryOp) {
			defer wg.Done()

			items, err := op.fetch(catalog, ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("library %s: %w", op.name, err)
				}
				return
			}
			*targets[op.name] = items
		}(op)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	return library, nil
}
