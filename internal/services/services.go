// package services defines the [Catalog] interface for the YouTube Music
// upstream and the [MusicService] facade built on top of it
package services

import (
	"context"
)

// Catalog is the upstream boundary: everything the proxy asks YouTube Music
// for goes through this interface. The concrete implementation is
// [InnertubeClient]; tests substitute a double.
type Catalog interface {
	// SearchSongs runs a song-filtered search and returns the result rows.
	SearchSongs(ctx context.Context, query string) ([]Song, error)

	// GetSongInfo retrieves metadata for a single video.
	GetSongInfo(ctx context.Context, videoID string) (*Song, error)

	// GetStreamingData retrieves the playable formats for a video.
	GetStreamingData(ctx context.Context, videoID string) (*StreamingData, error)

	// GetAlbum retrieves an album by its browse ID.
	GetAlbum(ctx context.Context, browseID string) (*Album, error)

	// GetArtist retrieves an artist page by channel ID.
	GetArtist(ctx context.Context, channelID string) (*ArtistInfo, error)

	// GetPlaylistBrowseID converts a playlist ID into the browse ID the
	// upstream expects.
	GetPlaylistBrowseID(playlistID string) string

	// GetPlaylist retrieves a playlist header and its first page of tracks.
	GetPlaylist(ctx context.Context, browseID string) (*Playlist, error)

	// GetPlaylistSongs retrieves one page of playlist tracks. A non-empty
	// returned continuation means more pages remain.
	GetPlaylistSongs(ctx context.Context, browseID, continuation string) ([]Song, string, error)

	// GetLibrarySongs retrieves the authenticated user's liked songs.
	GetLibrarySongs(ctx context.Context) ([]LibraryItem, error)

	// GetLibraryAlbums retrieves the authenticated user's saved albums.
	GetLibraryAlbums(ctx context.Context) ([]LibraryItem, error)

	// GetLibraryArtists retrieves artists from the user's library.
	GetLibraryArtists(ctx context.Context) ([]LibraryItem, error)

	// GetLibrarySubscriptions retrieves the user's artist subscriptions.
	GetLibrarySubscriptions(ctx context.Context) ([]LibraryItem, error)

	// GetLibraryPodcasts retrieves the user's saved podcasts.
	GetLibraryPodcasts(ctx context.Context) ([]LibraryItem, error)

	// GetLibraryPlaylists retrieves the user's playlists.
	GetLibraryPlaylists(ctx context.Context) ([]LibraryItem, error)
}

// Thumbnail represents an image/thumbnail from YouTube Music.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Artist represents an artist reference in YouTube Music responses.
type Artist struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// AlbumRef is a lightweight album reference attached to a track.
type AlbumRef struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// Song represents a track/video in YouTube Music responses.
type Song struct {
	VideoID     string      `json:"videoId"`
	Title       string      `json:"title"`
	Artists     []Artist    `json:"artists,omitempty"`
	Album       *AlbumRef   `json:"album,omitempty"`
	Duration    string      `json:"duration,omitempty"`
	DurationSec int         `json:"duration_seconds,omitempty"`
	Thumbnails  []Thumbnail `json:"thumbnails,omitempty"`
}

// StreamFormat is one playable format from the player response.
type StreamFormat struct {
	Itag         int    `json:"itag"`
	URL          string `json:"url,omitempty"`
	MimeType     string `json:"mimeType"`
	Bitrate      int    `json:"bitrate"`
	AudioQuality string `json:"audioQuality,omitempty"`
}

// StreamingData carries the playable formats for a video.
type StreamingData struct {
	ExpiresInSeconds string         `json:"expiresInSeconds,omitempty"`
	Formats          []StreamFormat `json:"formats,omitempty"`
	AdaptiveFormats  []StreamFormat `json:"adaptiveFormats,omitempty"`
}

// Album represents a full album page.
type Album struct {
	BrowseID   string      `json:"browseId"`
	Title      string      `json:"title"`
	Year       string      `json:"year,omitempty"`
	Artists    []Artist    `json:"artists,omitempty"`
	Thumbnails []Thumbnail `json:"thumbnails,omitempty"`
	Tracks     []Song      `json:"tracks,omitempty"`
}

// ArtistInfo represents an artist page.
type ArtistInfo struct {
	ChannelID   string      `json:"channelId"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Thumbnails  []Thumbnail `json:"thumbnails,omitempty"`
}

// Playlist represents a playlist with its tracks.
type Playlist struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Author      string      `json:"author,omitempty"`
	TrackCount  int         `json:"trackCount"`
	Thumbnails  []Thumbnail `json:"thumbnails,omitempty"`
	Tracks      []Song      `json:"tracks,omitempty"`

	// Continuation marks an unfinished track listing; the facade drains it
	// before the playlist leaves the package.
	Continuation string `json:"-"`
}

// LibraryItem is a generic row in one of the user's library listings.
type LibraryItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
}

// Library bundles all six library listings for the combined endpoint.
type Library struct {
	Songs         []LibraryItem `json:"songs"`
	Albums        []LibraryItem `json:"albums"`
	Artists       []LibraryItem `json:"artists"`
	Subscriptions []LibraryItem `json:"subscriptions"`
	Podcasts      []LibraryItem `json:"podcasts"`
	Playlists     []LibraryItem `json:"playlists"`
}
