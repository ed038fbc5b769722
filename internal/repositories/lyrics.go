package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/ytmproxy/internal/models"
)

// LyricsRepository persists lyric transcripts in SQLite, keyed by video id.
type LyricsRepository struct {
	db *sql.DB
}

// NewLyricsRepository creates a new LyricsRepository with the given database connection
func NewLyricsRepository(db *sql.DB) *LyricsRepository {
	return &LyricsRepository{db: db}
}

// Create inserts a new [models.LyricsRecord], replacing any existing record
// for the same video id.
func (r *LyricsRepository) Create(record *models.LyricsRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO lyrics (video_id, source, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			source = excluded.source,
			body = excluded.body,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		record.ID(),
		record.Source(),
		record.Body(),
		record.CreatedAt(),
		record.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert lyrics: %w", err)
	}

	return nil
}

// Get retrieves a transcript by video id.
func (r *LyricsRepository) Get(videoID string) (*models.LyricsRecord, error) {
	query := `
		SELECT video_id, source, body, created_at, updated_at
		FROM lyrics
		WHERE video_id = ?
	`

	return r.scanOne(r.db.QueryRow(query, videoID))
}

// Update rewrites an existing record's transcript.
func (r *LyricsRepository) Update(record *models.LyricsRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	record.Touch()

	result, err := r.db.Exec(
		`UPDATE lyrics SET source = ?, body = ?, updated_at = ? WHERE video_id = ?`,
		record.Source(), record.Body(), record.UpdatedAt(), record.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update lyrics: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// Delete removes a record by video id.
func (r *LyricsRepository) Delete(videoID string) error {
	if _, err := r.db.Exec(`DELETE FROM lyrics WHERE video_id = ?`, videoID); err != nil {
		return fmt.Errorf("failed to delete lyrics: %w", err)
	}
	return nil
}

// List retrieves records matching the given criteria. Supported keys: source.
func (r *LyricsRepository) List(criteria map[string]any) ([]*models.LyricsRecord, error) {
	query := `SELECT video_id, source, body, created_at, updated_at FROM lyrics`
	var args []any

	if source, ok := criteria["source"]; ok {
		query += ` WHERE source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lyrics: %w", err)
	}
	defer rows.Close()

	var records []*models.LyricsRecord
	for rows.Next() {
		record, err := scanLyrics(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (r *LyricsRepository) scanOne(row *sql.Row) (*models.LyricsRecord, error) {
	record, err := scanLyrics(row.Scan)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan lyrics: %w", err)
	}
	return record, nil
}

func scanLyrics(scan func(...any) error) (*models.LyricsRecord, error) {
	var videoID, source, body string
	var createdAt, updatedAt time.Time

	if err := scan(&videoID, &source, &body, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return models.RestoreLyricsRecord(videoID, source, body, createdAt, updatedAt), nil
}
