package lyrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// memoryStore is a map-backed Store for tests.
type memoryStore struct {
	data map[string][]Line
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]Line)}
}

func (m *memoryStore) Get(videoID string) ([]Line, bool) {
	lines, ok := m.data[videoID]
	return lines, ok
}

func (m *memoryStore) Put(videoID string, lines []Line) error {
	m.data[videoID] = lines
	return nil
}

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/dQw4w9WgXcQ" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Write([]byte(`[{"text":"first line","start":0.5,"durationMs":2000}]`))
		}))
		defer srv.Close()

		client := New(srv.URL, srv.Client(), 0, nil)
		lines, ok := client.Fetch(ctx, "dQw4w9WgXcQ")
		if !ok {
			t.Fatal("expected lyrics to be found")
		}
		if len(lines) != 1 || lines[0].Text != "first line" {
			t.Errorf("unexpected lines: %+v", lines)
		}
	})

	t.Run("Error Payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"code":404,"reason":"no captions","videoId":"abc"}`))
		}))
		defer srv.Close()

		client := New(srv.URL, srv.Client(), 0, nil)
		if _, ok := client.Fetch(ctx, "abc"); ok {
			t.Error("expected no result for error payload")
		}
	})

	t.Run("Processing Payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"code":102,"message":"transcription in progress"}`))
		}))
		defer srv.Close()

		client := New(srv.URL, srv.Client(), 0, nil)
		if _, ok := client.Fetch(ctx, "abc"); ok {
			t.Error("expected no result while processing")
		}
	})

	t.Run("Non-2xx Response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "server error", http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := New(srv.URL, srv.Client(), 0, nil)
		if _, ok := client.Fetch(ctx, "abc"); ok {
			t.Error("expected no result for 500")
		}
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>error page</html>`))
		}))
		defer srv.Close()

		client := New(srv.URL, srv.Client(), 0, nil)
		if _, ok := client.Fetch(ctx, "abc"); ok {
			t.Error("expected no result for malformed body")
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		client := New(srv.URL, srv.Client(), 20*time.Millisecond, nil)
		if _, ok := client.Fetch(ctx, "abc"); ok {
			t.Error("expected no result on timeout")
		}
	})

	t.Run("Empty Video ID", func(t *testing.T) {
		client := New("http://localhost", nil, 0, nil)
		if _, ok := client.Fetch(ctx, ""); ok {
			t.Error("expected no result for empty video id")
		}
	})
}

func TestLookup(t *testing.T) {
	t.Run("Ignores Client Timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(50 * time.Millisecond)
			w.Write([]byte(`[{"text":"slow line","start":0,"durationMs":1000}]`))
		}))
		defer srv.Close()

		client := New(srv.URL, srv.Client(), 10*time.Millisecond, nil)
		lines, ok := client.Lookup(context.Background(), "abc")
		if !ok {
			t.Fatal("expected lookup to outlive the client's own timeout")
		}
		if len(lines) != 1 || lines[0].Text != "slow line" {
			t.Errorf("unexpected lines: %+v", lines)
		}
	})

	t.Run("Honors Caller Context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		callerCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		client := New(srv.URL, srv.Client(), time.Second, nil)
		if _, ok := client.Lookup(callerCtx, "abc"); ok {
			t.Error("expected no result once the caller's deadline passed")
		}
	})
}

func TestFetchStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Read Through", func(t *testing.T) {
		requests := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.Write([]byte(`[{"text":"cached","start":0,"durationMs":1000}]`))
		}))
		defer srv.Close()

		client := New(srv.URL, srv.Client(), 0, nil)
		client.SetStore(newMemoryStore())

		client.Fetch(ctx, "abc")
		client.Fetch(ctx, "abc")

		if requests != 1 {
			t.Errorf("expected one upstream request, got %d", requests)
		}
	})

	t.Run("Failures Not Cached", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusNotFound)
		}))
		defer srv.Close()

		store := newMemoryStore()
		client := New(srv.URL, srv.Client(), 0, nil)
		client.SetStore(store)

		client.Fetch(ctx, "abc")
		if len(store.data) != 0 {
			t.Error("failed lookups must not be cached")
		}
	})
}

func TestResultConstructors(t *testing.T) {
	t.Run("Unavailable", func(t *testing.T) {
		result := Unavailable("abc", "lyrics fetch took too long", 2)
		if result.Success {
			t.Error("expected failure result")
		}
		if result.Error == nil || result.Error.VideoID != "abc" || result.Error.Timeout != 2 {
			t.Errorf("unexpected error payload: %+v", result.Error)
		}
	})

	t.Run("Found", func(t *testing.T) {
		result := Found([]Line{{Text: "x"}})
		if !result.Success || len(result.Lines) != 1 {
			t.Errorf("unexpected result: %+v", result)
		}
	})
}
