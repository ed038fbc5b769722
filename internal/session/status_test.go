package session

import (
	"strings"
	"testing"
)

func TestAuthStatus(t *testing.T) {
	t.Run("Flags", func(t *testing.T) {
		status := NewAuthStatus(Config{
			Cookies:     "SID=abcdefghijk; SAPISID=secret",
			TokenServer: "http://localhost:4416",
		})

		if !status.CookiesConfigured || !status.TokenServerConfigured {
			t.Errorf("expected configured flags set: %+v", status)
		}
		if status.TokenServerReachable {
			t.Error("reachability must be filled in by the caller")
		}
		if status.CheckedAt.IsZero() {
			t.Error("expected a check timestamp")
		}
	})

	t.Run("ArtifactPreviewsCapped", func(t *testing.T) {
		long := strings.Repeat("v", 200)
		status := NewAuthStatus(Config{}).WithArtifacts(long, long)

		for name, preview := range map[string]string{
			"visitor data": status.VisitorDataPreview,
			"po token":     status.PoTokenPreview,
		} {
			if len(preview) > previewLength {
				t.Errorf("%s preview exceeds %d chars: %d", name, previewLength, len(preview))
			}
			if !strings.HasSuffix(preview, "...") {
				t.Errorf("%s preview missing ellipsis: %q", name, preview)
			}
		}
	})

	t.Run("ShortArtifactsUntouched", func(t *testing.T) {
		status := NewAuthStatus(Config{}).WithArtifacts("visitor", "token")
		if status.VisitorDataPreview != "visitor" || status.PoTokenPreview != "token" {
			t.Errorf("expected short artifacts unchanged: %+v", status)
		}
	})
}
