// package models defines the data model for the YouTube Music proxy
package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for all persistent models in the proxy.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// LyricsRecord is a cached lyric transcript for a single video.
type LyricsRecord struct {
	videoID   string
	source    string
	body      string
	createdAt time.Time
	updatedAt time.Time
}

// NewLyricsRecord creates a record for videoID carrying the serialized
// transcript body.
func NewLyricsRecord(videoID, source, body string) *LyricsRecord {
	now := time.Now().UTC()
	return &LyricsRecord{
		videoID:   videoID,
		source:    source,
		body:      body,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreLyricsRecord rebuilds a record from persisted columns.
func RestoreLyricsRecord(videoID, source, body string, createdAt, updatedAt time.Time) *LyricsRecord {
	return &LyricsRecord{
		videoID:   videoID,
		source:    source,
		body:      body,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (l *LyricsRecord) ID() string           { return l.videoID }
func (l *LyricsRecord) Source() string       { return l.source }
func (l *LyricsRecord) Body() string         { return l.body }
func (l *LyricsRecord) CreatedAt() time.Time { return l.createdAt }
func (l *LyricsRecord) UpdatedAt() time.Time { return l.updatedAt }

// Touch bumps the updated timestamp.
func (l *LyricsRecord) Touch() { l.updatedAt = time.Now().UTC() }

// Validate checks the record carries an identity and a transcript.
func (l *LyricsRecord) Validate() error {
	if l.videoID == "" {
		return fmt.Errorf("lyrics record requires a video id")
	}
	if l.body == "" {
		return fmt.Errorf("lyrics record requires a transcript body")
	}
	return nil
}
