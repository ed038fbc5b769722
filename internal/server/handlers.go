package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmproxy/internal/potoken"
	"github.com/desertthunder/ytmproxy/internal/services"
	"github.com/desertthunder/ytmproxy/internal/session"
)

// MusicAPI is the slice of the music facade the handlers consume. Satisfied
// by [services.MusicService]; tests substitute a double.
type MusicAPI interface {
	ResolveSession(ctx context.Context, override *session.Config) session.Config
	SearchSongs(ctx context.Context, query string, override *session.Config) ([]services.Song, error)
	GetSongVideoInfo(ctx context.Context, videoID string, override *session.Config) (*services.SongDetail, error)
	GetPlaylist(ctx context.Context, playlistID string, override *session.Config) (*services.Playlist, error)
	GetAlbum(ctx context.Context, browseID string, override *session.Config) (*services.Album, error)
	GetArtist(ctx context.Context, channelID string, override *session.Config) (*services.ArtistInfo, error)
	GetLibrary(ctx context.Context, override *session.Config) (*services.Library, error)
	GetLibraryList(ctx context.Context, name string, override *session.Config) ([]services.LibraryItem, error)
	ClearCaches()
}

// sessionOverride builds the per-request session override from query
// parameters. Returns nil when the request carries none, so the static
// configuration applies unchanged.
func sessionOverride(r *http.Request) *session.Config {
	q := r.URL.Query()
	cfg := session.Config{
		Cookies:     q.Get("cookies"),
		VisitorData: q.Get("visitorData"),
		PoToken:     q.Get("poToken"),
		TokenServer: q.Get("tokenServer"),
		Location:    q.Get("location"),
	}

	if cfg == (session.Config{}) {
		return nil
	}
	return &cfg
}

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	start   time.Time
	version string
}

// NewHealthHandler creates a health handler reporting the given version.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{start: time.Now(), version: version}
}

// Routes returns the patterns this handler serves.
func (h *HealthHandler) Routes() []string {
	return []string{"GET /health"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"uptime":  time.Since(h.start).Round(time.Second).String(),
		"version": h.version,
	})
}

// AuthStatusHandler serves the session diagnostic snapshot.
type AuthStatusHandler struct {
	music     MusicAPI
	generator *potoken.Generator
}

// NewAuthStatusHandler creates the auth status handler.
func NewAuthStatusHandler(music MusicAPI, generator *potoken.Generator) *AuthStatusHandler {
	return &AuthStatusHandler{music: music, generator: generator}
}

// Routes returns the patterns this handler serves.
func (h *AuthStatusHandler) Routes() []string {
	return []string{"GET /api/auth/status"}
}

func (h *AuthStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cfg := h.music.ResolveSession(r.Context(), sessionOverride(r))

	status := session.NewAuthStatus(cfg).WithArtifacts(cfg.VisitorData, cfg.PoToken)
	if cfg.TokenServer != "" {
		if err := h.generator.TestTokenServer(r.Context(), cfg.TokenServer); err != nil {
			status.Error = err.Error()
		} else {
			status.TokenServerReachable = true
		}
	}

	writeJSON(w, http.StatusOK, status)
}

// MusicHandler serves the catalog endpoints: search, song, playlist, album,
// artist, and the library listings.
type MusicHandler struct {
	music  MusicAPI
	logger *log.Logger
}

// NewMusicHandler creates the catalog handler.
func NewMusicHandler(music MusicAPI, logger *log.Logger) *MusicHandler {
	return &MusicHandler{music: music, logger: logger}
}

// Routes returns the patterns this handler serves.
func (h *MusicHandler) Routes() []string {
	return []string{
		"GET /api/search",
		"GET /api/song/{id}",
		"GET /api/playlist/{id}",
		"GET /api/album/{id}",
		"GET /api/artist/{id}",
		"GET /api/library",
		"GET /api/library/{listing}",
	}
}

func (h *MusicHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	override := sessionOverride(r)

	switch {
	case r.URL.Path == "/api/search":
		h.search(w, r, override)
	case strings.HasPrefix(r.URL.Path, "/api/song/"):
		h.song(w, r, override)
	case strings.HasPrefix(r.URL.Path, "/api/playlist/"):
		h.playlist(w, r, override)
	case strings.HasPrefix(r.URL.Path, "/api/album/"):
		h.album(w, r, override)
	case strings.HasPrefix(r.URL.Path, "/api/artist/"):
		h.artist(w, r, override)
	case r.URL.Path == "/api/library":
		h.library(w, r, override)
	default:
		h.libraryListing(w, r, override)
	}
}

func (h *MusicHandler) search(w http.ResponseWriter, r *http.Request, override *session.Config) {
	songs, err := h.music.SearchSongs(r.Context(), r.URL.Query().Get("q"), override)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if songs == nil {
		songs = []services.Song{}
	}
	writeJSON(w, http.StatusOK, songs)
}

func (h *MusicHandler) song(w http.ResponseWriter, r *http.Request, override *session.Config) {
	detail, err := h.music.GetSongVideoInfo(r.Context(), r.PathValue("id"), override)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *MusicHandler) playlist(w http.ResponseWriter, r *http.Request, override *session.Config) {
	playlist, err := h.music.GetPlaylist(r.Context(), r.PathValue("id"), override)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

func (h *MusicHandler) album(w http.ResponseWriter, r *http.Request, override *session.Config) {
	album, err := h.music.GetAlbum(r.Context(), r.PathValue("id"), override)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func (h *MusicHandler) artist(w http.ResponseWriter, r *http.Request, override *session.Config) {
	artist, err := h.music.GetArtist(r.Context(), r.PathValue("id"), override)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

func (h *MusicHandler) library(w http.ResponseWriter, r *http.Request, override *session.Config) {
	library, err := h.music.GetLibrary(r.Context(), override)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, library)
}

func (h *MusicHandler) libraryListing(w http.ResponseWriter, r *http.Request, override *session.Config) {
	items, err := h.music.GetLibraryList(r.Context(), r.PathValue("listing"), override)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if items == nil {
		items = []services.LibraryItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// CacheHandler serves cache administration.
type CacheHandler struct {
	music  MusicAPI
	logger *log.Logger
}

// NewCacheHandler creates the cache handler.
func NewCacheHandler(music MusicAPI, logger *log.Logger) *CacheHandler {
	return &CacheHandler{music: music, logger: logger}
}

// Routes returns the patterns this handler serves.
func (h *CacheHandler) Routes() []string {
	return []string{"POST /api/cache/clear"}
}

func (h *CacheHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.music.ClearCaches()
	h.logger.Info("caches cleared", "request_id", RequestIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
