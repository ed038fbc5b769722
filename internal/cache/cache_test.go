package cache

import (
	"sync"
	"testing"
	"time"
)

func TestTable(t *testing.T) {
	t.Run("Put Then Get", func(t *testing.T) {
		table := New[string]()
		table.Put("key", "value", time.Minute)

		got, ok := table.Get("key")
		if !ok || got != "value" {
			t.Errorf("expected cached value, got %q ok=%v", got, ok)
		}
	})

	t.Run("Miss On Absent Key", func(t *testing.T) {
		table := New[string]()
		if _, ok := table.Get("absent"); ok {
			t.Error("expected miss for absent key")
		}
	})

	t.Run("Expired Entry Misses And Sweeps", func(t *testing.T) {
		table := New[string]()
		table.Put("stale", "value", -time.Second)

		if _, ok := table.Get("stale"); ok {
			t.Error("expected miss for expired entry")
		}
		if table.Len() != 0 {
			t.Errorf("expected expired entry swept, %d entries remain", table.Len())
		}
	})

	t.Run("Miss Sweeps Other Expired Entries", func(t *testing.T) {
		table := New[string]()
		table.Put("stale", "value", -time.Second)
		table.Put("live", "value", time.Minute)

		table.Get("missing")

		if table.Len() != 1 {
			t.Errorf("expected only the live entry after sweep, got %d", table.Len())
		}
		if _, ok := table.Get("live"); !ok {
			t.Error("live entry should survive the sweep")
		}
	})

	t.Run("Replace Existing Key", func(t *testing.T) {
		table := New[int]()
		table.Put("key", 1, time.Minute)
		table.Put("key", 2, time.Minute)

		if got, _ := table.Get("key"); got != 2 {
			t.Errorf("expected replacement value 2, got %d", got)
		}
		if table.Len() != 1 {
			t.Errorf("expected single entry, got %d", table.Len())
		}
	})
}

func TestTableEviction(t *testing.T) {
	t.Run("Clear Invokes Callback Once Per Entry", func(t *testing.T) {
		table := New[string]()
		evicted := map[string]int{}
		table.SetEvictFunc(func(key, _ string) { evicted[key]++ })

		table.Put("a", "1", time.Minute)
		table.Put("b", "2", time.Minute)
		table.Clear()

		if table.Len() != 0 {
			t.Errorf("expected empty table after clear, got %d", table.Len())
		}
		if evicted["a"] != 1 || evicted["b"] != 1 {
			t.Errorf("expected each entry evicted exactly once, got %+v", evicted)
		}
	})

	t.Run("Sweep Invokes Callback", func(t *testing.T) {
		table := New[string]()
		var evicted []string
		table.SetEvictFunc(func(key, _ string) { evicted = append(evicted, key) })

		table.Put("stale", "value", -time.Second)
		table.Get("stale")

		if len(evicted) != 1 || evicted[0] != "stale" {
			t.Errorf("expected stale entry evicted, got %v", evicted)
		}
	})

	t.Run("Replacement Evicts Old Value", func(t *testing.T) {
		table := New[string]()
		var evicted []string
		table.SetEvictFunc(func(_, value string) { evicted = append(evicted, value) })

		table.Put("key", "old", time.Minute)
		table.Put("key", "new", time.Minute)

		if len(evicted) != 1 || evicted[0] != "old" {
			t.Errorf("expected old value evicted on replace, got %v", evicted)
		}
	})
}

func TestTableConcurrency(t *testing.T) {
	table := New[int]()
	table.SetEvictFunc(func(string, int) {})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				table.Put("shared", n, time.Minute)
				table.Get("shared")
				if j%25 == 0 {
					table.Clear()
				}
			}
		}(i)
	}
	wg.Wait()
}
