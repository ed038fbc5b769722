package session

import (
	"fmt"
	"strings"
	"testing"

	"github.com/desertthunder/ytmproxy/internal/shared"
)

func TestSessionDataInvariants(t *testing.T) {
	// Enumerate every combination of cookies x visitorData x poToken and
	// assert both invariants from first principles.
	for i := 0; i < 8; i++ {
		cookies := i&1 != 0
		visitor := i&2 != 0
		token := i&4 != 0

		cfg := Config{}
		if cookies {
			cfg.Cookies = "SID=abc123456789"
		}
		if visitor {
			cfg.VisitorData = "CgtVa1plQ2pJ"
		}
		if token {
			cfg.PoToken = "MlQ3b2tlbg=="
		}

		name := fmt.Sprintf("cookies=%v visitor=%v token=%v", cookies, visitor, token)
		t.Run(name, func(t *testing.T) {
			wantHas := cookies && (visitor || token)
			if got := cfg.HasSessionData(); got != wantHas {
				t.Errorf("HasSessionData() = %v, want %v", got, wantHas)
			}

			wantNeeds := cookies && (!visitor || !token)
			if got := cfg.NeedsSessionDataGeneration(); got != wantNeeds {
				t.Errorf("NeedsSessionDataGeneration() = %v, want %v", got, wantNeeds)
			}
		})
	}
}

func TestCacheKey(t *testing.T) {
	base := Config{
		Cookies:     "SID=abc123456789",
		Location:    "US",
		VisitorData: "visitor",
		PoToken:     "token",
		TokenServer: "http://localhost:4416",
	}

	t.Run("Equal Configs Equal Keys", func(t *testing.T) {
		other := base
		if base.CacheKey() != other.CacheKey() {
			t.Error("identical configs must produce identical keys")
		}
	})

	t.Run("Any Field Change Changes Key", func(t *testing.T) {
		variants := []Config{
			{Cookies: "SID=other", Location: base.Location, VisitorData: base.VisitorData, PoToken: base.PoToken, TokenServer: base.TokenServer},
			{Cookies: base.Cookies, Location: "DE", VisitorData: base.VisitorData, PoToken: base.PoToken, TokenServer: base.TokenServer},
			{Cookies: base.Cookies, Location: base.Location, VisitorData: "other", PoToken: base.PoToken, TokenServer: base.TokenServer},
			{Cookies: base.Cookies, Location: base.Location, VisitorData: base.VisitorData, PoToken: "other", TokenServer: base.TokenServer},
			{Cookies: base.Cookies, Location: base.Location, VisitorData: base.VisitorData, PoToken: base.PoToken, TokenServer: "http://other"},
		}
		for i, v := range variants {
			if v.CacheKey() == base.CacheKey() {
				t.Errorf("variant %d should produce a different key", i)
			}
		}
	})

	t.Run("Absent Fields Use Sentinel", func(t *testing.T) {
		key := Config{}.CacheKey()
		if !strings.Contains(key, cacheKeySentinel) {
			t.Errorf("expected sentinel in key, got %q", key)
		}
		if parts := strings.Split(key, "|"); len(parts) != 5 {
			t.Errorf("expected 5 key segments, got %d", len(parts))
		}
	})
}

func TestMerge(t *testing.T) {
	base := Config{Cookies: "SID=base", Location: "US"}

	t.Run("Override Wins", func(t *testing.T) {
		merged := base.Merge(Config{Cookies: "SID=override", Location: "DE"})
		if merged.Cookies != "SID=override" || merged.Location != "DE" {
			t.Errorf("unexpected merge result: %+v", merged)
		}
	})

	t.Run("Empty Override Keeps Base", func(t *testing.T) {
		merged := base.Merge(Config{})
		if merged != base {
			t.Errorf("expected base config, got %+v", merged)
		}
	})

	t.Run("Originals Untouched", func(t *testing.T) {
		_ = base.Merge(Config{Cookies: "SID=other"})
		if base.Cookies != "SID=base" {
			t.Error("merge must not mutate the receiver")
		}
	})
}

func TestWithSessionData(t *testing.T) {
	t.Run("Fills Missing Fields", func(t *testing.T) {
		cfg := Config{Cookies: "SID=abc"}.WithSessionData("generated-visitor", "generated-token")
		if cfg.VisitorData != "generated-visitor" || cfg.PoToken != "generated-token" {
			t.Errorf("expected generated values, got %+v", cfg)
		}
	})

	t.Run("Existing Values Win", func(t *testing.T) {
		cfg := Config{VisitorData: "explicit"}.WithSessionData("generated-visitor", "generated-token")
		if cfg.VisitorData != "explicit" {
			t.Errorf("explicit visitor data must win, got %q", cfg.VisitorData)
		}
		if cfg.PoToken != "generated-token" {
			t.Errorf("missing token should be filled, got %q", cfg.PoToken)
		}
	})
}

func TestResolve(t *testing.T) {
	static := shared.SessionConfig{
		Cookies:       "SID=static",
		Location:      "GB",
		PoTokenServer: "http://static:4416",
	}

	t.Run("Override Beats Static", func(t *testing.T) {
		cfg := Resolve(static, Config{Cookies: "SID=request"})
		if cfg.Cookies != "SID=request" {
			t.Errorf("expected request cookies, got %q", cfg.Cookies)
		}
		if cfg.Location != "GB" {
			t.Errorf("expected static location, got %q", cfg.Location)
		}
	})

	t.Run("Default Location", func(t *testing.T) {
		cfg := Resolve(shared.SessionConfig{}, Config{})
		if cfg.Location != "US" {
			t.Errorf("expected default location US, got %q", cfg.Location)
		}
	})

	t.Run("Environment Between Static And Default", func(t *testing.T) {
		t.Setenv("YTM_VISITOR_DATA", "env-visitor")
		cfg := Resolve(shared.SessionConfig{}, Config{})
		if cfg.VisitorData != "env-visitor" {
			t.Errorf("expected env visitor data, got %q", cfg.VisitorData)
		}
	})
}
