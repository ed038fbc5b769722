// YouTube Music InnerTube [Catalog] implementation
//
// Talks directly to music.youtube.com/youtubei/v1 with the WEB_REMIX client
// context. Authenticated endpoints derive a SAPISIDHASH authorization header
// from the session cookies; an OAuth bearer token takes precedence when set.
package services

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/ytmproxy/internal/session"
	"github.com/desertthunder/ytmproxy/internal/shared"
)

const (
	defaultInnertubeBaseURL = "https://music.youtube.com/youtubei/v1"
	musicOrigin             = "https://music.youtube.com"

	clientNameRemix    = "WEB_REMIX"
	clientVersionRemix = "1.20250310.01.00"
	clientCodeRemix    = "67"

	// Search params restricting results to songs.
	songSearchParams = "EgWKAQIIAWoKEAkQBRAKEAMQBA=="

	playlistBrowsePrefix = "VL"

	browseLibrarySongs         = "FEmusic_liked_videos"
	browseLibraryAlbums        = "FEmusic_liked_albums"
	browseLibraryArtists       = "FEmusic_library_corpus_track_artists"
	browseLibrarySubscriptions = "FEmusic_library_corpus_artists"
	browseLibraryPodcasts      = "FEmusic_library_non_music_audio_list"
	browseLibraryPlaylists     = "FEmusic_liked_playlists"
)

// InnertubeClient implements [Catalog] against the InnerTube API.
type InnertubeClient struct {
	baseURL    string
	httpClient *http.Client
	config     session.Config
	bearer     string
	now        func() time.Time
}

// NewInnertubeClient creates a catalog client bound to one resolved session
// configuration and its cached HTTP client.
func NewInnertubeClient(httpClient *http.Client, config session.Config) *InnertubeClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &InnertubeClient{
		baseURL:    defaultInnertubeBaseURL,
		httpClient: httpClient,
		config:     config,
		now:        time.Now,
	}
}

// WithBaseURL overrides the API base URL, used by tests.
func (c *InnertubeClient) WithBaseURL(baseURL string) *InnertubeClient {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// WithBearerToken attaches an OAuth access token used instead of cookie
// authorization.
func (c *InnertubeClient) WithBearerToken(token string) *InnertubeClient {
	c.bearer = token
	return c
}

// call POSTs an InnerTube request body and decodes the JSON response into a
// generic map. An HTML body where JSON was expected reads as not-found, which
// is how the upstream answers for private or deleted resources.
func (c *InnertubeClient) call(ctx context.Context, endpoint string, body map[string]any) (map[string]any, error) {
	client := map[string]any{
		"clientName":    clientNameRemix,
		"clientVersion": clientVersionRemix,
		"hl":            "en",
	}
	if c.config.Location != "" {
		client["gl"] = c.config.Location
	}
	if c.config.VisitorData != "" {
		client["visitorData"] = c.config.VisitorData
	}

	payload := map[string]any{"context": map[string]any{"client": client}}
	for k, v := range body {
		payload[k] = v
	}

	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	apiURL := c.baseURL + "/" + endpoint + "?prettyPrint=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-YouTube-Client-Name", clientCodeRemix)
	req.Header.Set("X-YouTube-Client-Version", clientVersionRemix)
	if auth := c.authorization(); auth != "" {
		req.Header.Set("Authorization", auth)
		req.Header.Set("X-Origin", musicOrigin)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %d", shared.ErrUpstream, endpoint, resp.StatusCode)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '<' {
		return nil, fmt.Errorf("%w: %s answered with a page instead of data", shared.ErrNotFoundOrPrivate, endpoint)
	}

	var result map[string]any
	if err := json.Unmarshal(trimmed, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s response: %v", shared.ErrUpstream, endpoint, err)
	}

	return result, nil
}

// authorization builds the per-request authorization header. A bearer token
// wins; otherwise SAPISIDHASH is derived from the SAPISID cookie.
func (c *InnertubeClient) authorization() string {
	if c.bearer != "" {
		return "Bearer " + c.bearer
	}

	cookies := session.ParseCookies(c.config.Cookies)
	sapisid, ok := session.FindCookie(cookies, "SAPISID")
	if !ok {
		sapisid, ok = session.FindCookie(cookies, "__Secure-3PAPISID")
	}
	if !ok || sapisid.Value == "" {
		return ""
	}

	ts := c.now().Unix()
	sum := sha1.Sum([]byte(fmt.Sprintf("%d %s %s", ts, sapisid.Value, musicOrigin)))
	return fmt.Sprintf("SAPISIDHASH %d_%x", ts, sum)
}

// SearchSongs runs a song-filtered search.
func (c *InnertubeClient) SearchSongs(ctx context.Context, query string) ([]Song, error) {
	response, err := c.call(ctx, "search", map[string]any{
		"query":  query,
		"params": songSearchParams,
	})
	if err != nil {
		return nil, err
	}

	var songs []Song
	for _, section := range sectionContents(response) {
		shelf := mapAt(section, "musicShelfRenderer")
		if shelf == nil {
			continue
		}
		songs = append(songs, parseShelfSongs(sliceAt(shelf, "contents"))...)
	}

	return songs, nil
}

// GetSongInfo retrieves metadata for a single video via the player endpoint.
func (c *InnertubeClient) GetSongInfo(ctx context.Context, videoID string) (*Song, error) {
	response, err := c.player(ctx, videoID)
	if err != nil {
		return nil, err
	}

	details := mapAt(response, "videoDetails")
	if details == nil {
		return nil, fmt.Errorf("%w: no video details for %s", shared.ErrNotFoundOrPrivate, videoID)
	}

	song := &Song{
		VideoID:    stringAt(details, "videoId"),
		Title:      stringAt(details, "title"),
		Thumbnails: parseThumbnails(details, "thumbnail"),
	}
	if author := stringAt(details, "author"); author != "" {
		song.Artists = []Artist{{Name: author, ID: stringAt(details, "channelId")}}
	}
	if length := stringAt(details, "lengthSeconds"); length != "" {
		if sec, err := strconv.Atoi(length); err == nil {
			song.DurationSec = sec
			song.Duration = formatDuration(sec)
		}
	}

	return song, nil
}

// GetStreamingData retrieves the playable formats for a video.
func (c *InnertubeClient) GetStreamingData(ctx context.Context, videoID string) (*StreamingData, error) {
	response, err := c.player(ctx, videoID)
	if err != nil {
		return nil, err
	}

	streaming := mapAt(response, "streamingData")
	if streaming == nil {
		reason := stringAt(response, "playabilityStatus", "reason")
		if reason == "" {
			reason = "no streaming data returned"
		}
		return nil, fmt.Errorf("%w: %s", shared.ErrUpstream, reason)
	}

	return &StreamingData{
		ExpiresInSeconds: stringAt(streaming, "expiresInSeconds"),
		Formats:          parseFormats(sliceAt(streaming, "formats")),
		AdaptiveFormats:  parseFormats(sliceAt(streaming, "adaptiveFormats")),
	}, nil
}

func (c *InnertubeClient) player(ctx context.Context, videoID string) (map[string]any, error) {
	body := map[string]any{"videoId": videoID}
	if c.config.PoToken != "" {
		body["serviceIntegrityDimensions"] = map[string]any{"poToken": c.config.PoToken}
	}

	response, err := c.call(ctx, "player", body)
	if err != nil {
		return nil, err
	}

	status := stringAt(response, "playabilityStatus", "status")
	if status == "ERROR" {
		reason := stringAt(response, "playabilityStatus", "reason")
		return nil, fmt.Errorf("%w: %s", shared.ErrNotFoundOrPrivate, reason)
	}

	return response, nil
}

// GetAlbum retrieves an album page by browse ID.
func (c *InnertubeClient) GetAlbum(ctx context.Context, browseID string) (*Album, error) {
	response, err := c.call(ctx, "browse", map[string]any{"browseId": browseID})
	if err != nil {
		return nil, err
	}

	header := mapAt(response, "header", "musicDetailHeaderRenderer")
	album := &Album{
		BrowseID:   browseID,
		Title:      runsText(header, "title"),
		Thumbnails: parseThumbnails(header, "thumbnail", "croppedSquareThumbnailRenderer", "thumbnail"),
	}

	for _, run := range sliceAt(header, "subtitle", "runs") {
		text := stringAt(run, "text")
		if browse := stringAt(run, "navigationEndpoint", "browseEndpoint", "browseId"); strings.HasPrefix(browse, "UC") {
			album.Artists = append(album.Artists, Artist{Name: text, ID: browse})
		} else if yearPattern.MatchString(text) {
			album.Year = text
		}
	}

	for _, section := range sectionContents(response) {
		if shelf := mapAt(section, "musicShelfRenderer"); shelf != nil {
			album.Tracks = append(album.Tracks, parseShelfSongs(sliceAt(shelf, "contents"))...)
		}
	}

	if album.Title == "" && len(album.Tracks) == 0 {
		return nil, fmt.Errorf("%w: album %s", shared.ErrNotFoundOrPrivate, browseID)
	}

	return album, nil
}

// GetArtist retrieves an artist page by channel ID.
func (c *InnertubeClient) GetArtist(ctx context.Context, channelID string) (*ArtistInfo, error) {
	response, err := c.call(ctx, "browse", map[string]any{"browseId": channelID})
	if err != nil {
		return nil, err
	}

	header := mapAt(response, "header", "musicImmersiveHeaderRenderer")
	if header == nil {
		header = mapAt(response, "header", "musicVisualHeaderRenderer")
	}
	if header == nil {
		return nil, fmt.Errorf("%w: artist %s", shared.ErrNotFoundOrPrivate, channelID)
	}

	return &ArtistInfo{
		ChannelID:   channelID,
		Name:        runsText(header, "title"),
		Description: runsText(header, "description"),
		Thumbnails:  parseThumbnails(header, "thumbnail", "musicThumbnailRenderer", "thumbnail"),
	}, nil
}

// GetPlaylistBrowseID converts a playlist ID into its browse ID.
func (c *InnertubeClient) GetPlaylistBrowseID(playlistID string) string {
	if strings.HasPrefix(playlistID, playlistBrowsePrefix) {
		return playlistID
	}
	return playlistBrowsePrefix + playlistID
}

// GetPlaylist retrieves a playlist header and its first page of tracks.
func (c *InnertubeClient) GetPlaylist(ctx context.Context, browseID string) (*Playlist, error) {
	response, err := c.call(ctx, "browse", map[string]any{"browseId": browseID})
	if err != nil {
		return nil, err
	}

	header := mapAt(response, "header", "musicDetailHeaderRenderer")
	if header == nil {
		header = mapAt(response, "header", "musicEditablePlaylistDetailHeaderRenderer", "header", "musicDetailHeaderRenderer")
	}
	if header == nil {
		return nil, fmt.Errorf("%w: playlist %s", shared.ErrNotFoundOrPrivate, browseID)
	}

	playlist := &Playlist{
		ID:          strings.TrimPrefix(browseID, playlistBrowsePrefix),
		Title:       runsText(header, "title"),
		Description: runsText(header, "description"),
		Thumbnails:  parseThumbnails(header, "thumbnail", "croppedSquareThumbnailRenderer", "thumbnail"),
	}

	if run := firstRun(header, "subtitle"); run != nil {
		playlist.Author = stringAt(run, "text")
	}
	if counts := sliceAt(header, "secondSubtitle", "runs"); len(counts) > 0 {
		if fields := strings.Fields(stringAt(counts[0], "text")); len(fields) > 0 {
			if n, err := strconv.Atoi(fields[0]); err == nil {
				playlist.TrackCount = n
			}
		}
	}

	for _, section := range sectionContents(response) {
		shelf := mapAt(section, "musicPlaylistShelfRenderer")
		if shelf == nil {
			continue
		}
		playlist.Tracks = append(playlist.Tracks, parseShelfSongs(sliceAt(shelf, "contents"))...)
		playlist.Continuation = shelfContinuation(shelf)
	}

	return playlist, nil
}

// GetPlaylistSongs retrieves one page of playlist tracks. Pass an empty
// continuation for the first page.
func (c *InnertubeClient) GetPlaylistSongs(ctx context.Context, browseID, continuation string) ([]Song, string, error) {
	if continuation == "" {
		playlist, err := c.GetPlaylist(ctx, browseID)
		if err != nil {
			return nil, "", err
		}
		return playlist.Tracks, playlist.Continuation, nil
	}

	response, err := c.call(ctx, "browse", map[string]any{"continuation": continuation})
	if err != nil {
		return nil, "", err
	}

	shelf := mapAt(response, "continuationContents", "musicPlaylistShelfContinuation")
	if shelf == nil {
		return nil, "", nil
	}

	return parseShelfSongs(sliceAt(shelf, "contents")), shelfContinuation(shelf), nil
}

// GetLibrarySongs retrieves the user's liked songs.
func (c *InnertubeClient) GetLibrarySongs(ctx context.Context) ([]LibraryItem, error) {
	return c.library(ctx, browseLibrarySongs)
}

// GetLibraryAlbums retrieves the user's saved albums.
func (c *InnertubeClient) GetLibraryAlbums(ctx context.Context) ([]LibraryItem, error) {
	return c.library(ctx, browseLibraryAlbums)
}

// GetLibraryArtists retrieves artists appearing in the user's library.
func (c *InnertubeClient) GetLibraryArtists(ctx context.Context) ([]LibraryItem, error) {
	return c.library(ctx, browseLibraryArtists)
}

// GetLibrarySubscriptions retrieves the user's artist subscriptions.
func (c *InnertubeClient) GetLibrarySubscriptions(ctx context.Context) ([]LibraryItem, error) {
	return c.library(ctx, browseLibrarySubscriptions)
}

// GetLibraryPodcasts retrieves the user's saved podcasts.
func (c *InnertubeClient) GetLibraryPodcasts(ctx context.Context) ([]LibraryItem, error) {
	return c.library(ctx, browseLibraryPodcasts)
}

// GetLibraryPlaylists retrieves the user's playlists.
func (c *InnertubeClient) GetLibraryPlaylists(ctx context.Context) ([]LibraryItem, error) {
	return c.library(ctx, browseLibraryPlaylists)
}

func (c *InnertubeClient) library(ctx context.Context, browseID string) ([]LibraryItem, error) {
	response, err := c.call(ctx, "browse", map[string]any{"browseId": browseID})
	if err != nil {
		return nil, err
	}
	return parseLibraryItems(sectionContents(response)), nil
}

func parseFormats(raw []any) []StreamFormat {
	var formats []StreamFormat
	for _, item := range raw {
		formats = append(formats, StreamFormat{
			Itag:         intAt(item, "itag"),
			URL:          stringAt(item, "url"),
			MimeType:     stringAt(item, "mimeType"),
			Bitrate:      intAt(item, "bitrate"),
			AudioQuality: stringAt(item, "audioQuality"),
		})
	}
	return formats
}

func formatDuration(seconds int) string {
	if seconds >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
