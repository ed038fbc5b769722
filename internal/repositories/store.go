package repositories

import (
	"database/sql"
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmproxy/internal/lyrics"
	"github.com/desertthunder/ytmproxy/internal/models"
)

const lyricsSource = "youtube-music"

// LyricsStoreAdapter adapts [LyricsRepository] to the [lyrics.Store]
// interface. Transcripts are serialized to JSON in the body column and
// kept without expiry.
type LyricsStoreAdapter struct {
	repo   *LyricsRepository
	logger *log.Logger
}

// NewLyricsStoreAdapter creates an adapter over the given repository.
func NewLyricsStoreAdapter(repo *LyricsRepository, logger *log.Logger) *LyricsStoreAdapter {
	return &LyricsStoreAdapter{repo: repo, logger: logger}
}

// Get returns the cached transcript for videoID, if one exists. Decode
// failures are treated as a miss so a fresh fetch can overwrite the row.
func (a *LyricsStoreAdapter) Get(videoID string) ([]lyrics.Line, bool) {
	record, err := a.repo.Get(videoID)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		a.logger.Warn("lyrics lookup failed", "video_id", videoID, "error", err)
		return nil, false
	}

	var lines []lyrics.Line
	if err := json.Unmarshal([]byte(record.Body()), &lines); err != nil {
		a.logger.Warn("discarding unreadable cached lyrics", "video_id", videoID, "error", err)
		return nil, false
	}

	return lines, true
}

// Put stores the transcript for videoID, replacing any previous row.
func (a *LyricsStoreAdapter) Put(videoID string, lines []lyrics.Line) error {
	body, err := json.Marshal(lines)
	if err != nil {
		return err
	}

	return a.repo.Create(models.NewLyricsRecord(videoID, lyricsSource, string(body)))
}
