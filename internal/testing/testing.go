// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/ytmproxy/internal/services"
	"github.com/desertthunder/ytmproxy/internal/session"
)

// MockMusicAPI is a configurable double for the music facade consumed by the
// HTTP handlers and CLI commands. Unset function fields answer with zero
// values.
type MockMusicAPI struct {
	ResolveSessionFunc   func(ctx context.Context, override *session.Config) session.Config
	SearchSongsFunc      func(ctx context.Context, query string, override *session.Config) ([]services.Song, error)
	GetSongVideoInfoFunc func(ctx context.Context, videoID string, override *session.Config) (*services.SongDetail, error)
	GetPlaylistFunc      func(ctx context.Context, playlistID string, override *session.Config) (*services.Playlist, error)
	GetAlbumFunc         func(ctx context.Context, browseID string, override *session.Config) (*services.Album, error)
	GetArtistFunc        func(ctx context.Context, channelID string, override *session.Config) (*services.ArtistInfo, error)
	GetLibraryFunc       func(ctx context.Context, override *session.Config) (*services.Library, error)
	GetLibraryListFunc   func(ctx context.Context, name string, override *session.Config) ([]services.LibraryItem, error)
	ClearCachesCalled    int
}

func (m *MockMusicAPI) ResolveSession(ctx context.Context, override *session.Config) session.Config {
	if m.ResolveSessionFunc != nil {
		return m.ResolveSessionFunc(ctx, override)
	}
	return session.Config{}
}

func (m *MockMusicAPI) SearchSongs(ctx context.Context, query string, override *session.Config) ([]services.Song, error) {
	if m.SearchSongsFunc != nil {
		return m.SearchSongsFunc(ctx, query, override)
	}
	return nil, nil
}

func (m *MockMusicAPI) GetSongVideoInfo(ctx context.Context, videoID string, override *session.Config) (*services.SongDetail, error) {
	if m.GetSongVideoInfoFunc != nil {
		return m.GetSongVideoInfoFunc(ctx, videoID, override)
	}
	return &services.SongDetail{}, nil
}

func (m *MockMusicAPI) GetPlaylist(ctx context.Context, playlistID string, override *session.Config) (*services.Playlist, error) {
	if m.GetPlaylistFunc != nil {
		return m.GetPlaylistFunc(ctx, playlistID, override)
	}
	return &services.Playlist{}, nil
}

func (m *MockMusicAPI) GetAlbum(ctx context.Context, browseID string, override *session.Config) (*services.Album, error) {
	if m.GetAlbumFunc != nil {
		return m.GetAlbumFunc(ctx, browseID, override)
	}
	return &services.Album{}, nil
}

func (m *MockMusicAPI) GetArtist(ctx context.Context, channelID string, override *session.Config) (*services.ArtistInfo, error) {
	if m.GetArtistFunc != nil {
		return m.GetArtistFunc(ctx, channelID, override)
	}
	return &services.ArtistInfo{}, nil
}

func (m *MockMusicAPI) GetLibrary(ctx context.Context, override *session.Config) (*services.Library, error) {
	if m.GetLibraryFunc != nil {
		return m.GetLibraryFunc(ctx, override)
	}
	return &services.Library{}, nil
}

func (m *MockMusicAPI) GetLibraryList(ctx context.Context, name string, override *session.Config) ([]services.LibraryItem, error) {
	if m.GetLibraryListFunc != nil {
		return m.GetLibraryListFunc(ctx, name, override)
	}
	return nil, nil
}

func (m *MockMusicAPI) ClearCaches() {
	m.ClearCachesCalled++
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
