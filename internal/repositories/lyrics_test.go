package repositories

import (
	"database/sql"
	"testing"

	"github.com/desertthunder/ytmproxy/internal/lyrics"
	"github.com/desertthunder/ytmproxy/internal/models"
	"github.com/desertthunder/ytmproxy/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestLyricsRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewLyricsRepository(db)
		record := models.NewLyricsRecord("dQw4w9WgXcQ", "youtube-music", `[{"text":"never gonna"}]`)

		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create lyrics: %v", err)
		}
	})

	t.Run("CreateReplacesExisting", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewLyricsRepository(db)

		if err := repo.Create(models.NewLyricsRecord("dQw4w9WgXcQ", "youtube-music", "old")); err != nil {
			t.Fatalf("failed to create lyrics: %v", err)
		}

		if err := repo.Create(models.NewLyricsRecord("dQw4w9WgXcQ", "youtube-music", "new")); err != nil {
			t.Fatalf("failed to replace lyrics: %v", err)
		}

		retrieved, err := repo.Get("dQw4w9WgXcQ")
		if err != nil {
			t.Fatalf("failed to get lyrics: %v", err)
		}

		if retrieved.Body() != "new" {
			t.Errorf("expected replaced body, got %q", retrieved.Body())
		}
	})

	t.Run("CreateRejectsInvalid", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewLyricsRepository(db)

		if err := repo.Create(models.NewLyricsRecord("", "youtube-music", "body")); err == nil {
			t.Error("expected error for record without a video id")
		}

		if err := repo.Create(models.NewLyricsRecord("dQw4w9WgXcQ", "youtube-music", "")); err == nil {
			t.Error("expected error for record without a body")
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewLyricsRepository(db)
		record := models.NewLyricsRecord("dQw4w9WgXcQ", "youtube-music", "body")

		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create lyrics: %v", err)
		}

		retrieved, err := repo.Get("dQw4w9WgXcQ")
		if err != nil {
			t.Fatalf("failed to get lyrics: %v", err)
		}

		if retrieved.ID() != record.ID() {
			t.Errorf("expected ID %s, got %s", record.ID(), retrieved.ID())
		}

		if retrieved.Source() != record.Source() {
			t.Errorf("expected source %s, got %s", record.Source(), retrieved.Source())
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewLyricsRepository(db)

		if _, err := repo.Get("missing"); err != sql.ErrNoRows {
			t.Errorf("expected sql.ErrNoRows, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewLyricsRepository(db)
		record := models.NewLyricsRecord("dQw4w9WgXcQ", "youtube-music", "body")

		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create lyrics: %v", err)
		}

		updated := models.NewLyricsRecord("dQw4w9WgXcQ", "youtube-music", "updated body")
		if err := repo.Update(updated); err != nil {
			t.Fatalf("failed to update lyrics: %v", err)
		}

		retrieved, err := repo.Get("dQw4w9WgXcQ")
		if err != nil {
			t.Fatalf("failed to get lyrics: %v", err)
		}

		if retrieved.Body() != "updated body" {
			t.Errorf("expected updated body, got %q", retrieved.Body())
		}
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewLyricsRepository(db)

		err := repo.Update(models.NewLyricsRecord("missing", "youtube-music", "body"))
		if err != sql.ErrNoRows {
			t.Errorf("expected sql.ErrNoRows, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewLyricsRepository(db)

		if err := repo.Create(models.NewLyricsRecord("dQw4w9WgXcQ", "youtube-music", "body")); err != nil {
			t.Fatalf("failed to create lyrics: %v", err)
		}

		if err := repo.Delete("dQw4w9WgXcQ"); err != nil {
			t.Fatalf("failed to delete lyrics: %v", err)
		}

		if _, err := repo.Get("dQw4w9WgXcQ"); err == nil {
			t.Error("expected error when getting deleted lyrics")
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewLyricsRepository(db)

		if err := repo.Create(models.NewLyricsRecord("video1", "youtube-music", "body1")); err != nil {
			t.Fatalf("failed to create lyrics: %v", err)
		}
		if err := repo.Create(models.NewLyricsRecord("video2", "import", "body2")); err != nil {
			t.Fatalf("failed to create lyrics: %v", err)
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list lyrics: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected 2 records, got %d", len(all))
		}

		imported, err := repo.List(map[string]any{"source": "import"})
		if err != nil {
			t.Fatalf("failed to list lyrics by source: %v", err)
		}
		if len(imported) != 1 {
			t.Errorf("expected 1 imported record, got %d", len(imported))
		}
		if len(imported) == 1 && imported[0].ID() != "video2" {
			t.Errorf("expected video2, got %s", imported[0].ID())
		}
	})
}

func TestLyricsStoreAdapter(t *testing.T) {
	newAdapter := func(t *testing.T) (*LyricsStoreAdapter, *sql.DB) {
		t.Helper()
		db := setupTestDB(t)
		return NewLyricsStoreAdapter(NewLyricsRepository(db), shared.NewLogger(nil)), db
	}

	t.Run("RoundTrip", func(t *testing.T) {
		adapter, db := newAdapter(t)
		defer db.Close()

		lines := []lyrics.Line{
			{Text: "first line", Start: 0, DurationMS: 1200},
			{Text: "second line", Start: 1200, DurationMS: 1800},
		}

		if err := adapter.Put("dQw4w9WgXcQ", lines); err != nil {
			t.Fatalf("failed to store lyrics: %v", err)
		}

		got, ok := adapter.Get("dQw4w9WgXcQ")
		if !ok {
			t.Fatal("expected stored lyrics to be found")
		}

		if len(got) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(got))
		}

		if got[0].Text != "first line" || got[1].DurationMS != 1800 {
			t.Errorf("unexpected lines: %+v", got)
		}
	})

	t.Run("Miss", func(t *testing.T) {
		adapter, db := newAdapter(t)
		defer db.Close()

		if _, ok := adapter.Get("missing"); ok {
			t.Error("expected miss for unknown video id")
		}
	})

	t.Run("UnreadableBodyIsMiss", func(t *testing.T) {
		adapter, db := newAdapter(t)
		defer db.Close()

		repo := NewLyricsRepository(db)
		if err := repo.Create(models.NewLyricsRecord("dQw4w9WgXcQ", "youtube-music", "not json")); err != nil {
			t.Fatalf("failed to seed corrupt row: %v", err)
		}

		if _, ok := adapter.Get("dQw4w9WgXcQ"); ok {
			t.Error("expected corrupt transcript to read as a miss")
		}
	})
}
