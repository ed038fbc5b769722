package ui

import (
	"strings"

	"github.com/desertthunder/ytmproxy/internal/session"
)

// RenderAuthStatus formats a session status snapshot as a styled terminal
// report, shared by the auth status command and the watch view.
func RenderAuthStatus(status session.AuthStatus) string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Session Status"))
	b.WriteString("\n")

	b.WriteString(renderFlag("Cookies configured", status.CookiesConfigured))
	b.WriteString("\n")

	if status.CookiesConfigured {
		if status.CookieValidation.Valid {
			b.WriteString(styles.ok.Render("  cookie validation passed"))
		} else {
			b.WriteString(styles.err.Render("  cookie validation failed"))
			for _, issue := range status.CookieValidation.Missing {
				line := "    " + issue.Name
				if issue.Reason != "" {
					line += ": " + issue.Reason
				}
				b.WriteString("\n")
				b.WriteString(styles.warn.Render(line))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(renderFlag("Token server configured", status.TokenServerConfigured))
	b.WriteString("\n")
	if status.TokenServerConfigured {
		b.WriteString(renderFlag("Token server reachable", status.TokenServerReachable))
		b.WriteString("\n")
	}

	if status.VisitorDataPreview != "" {
		b.WriteString(styles.help.Render("  visitor data: " + status.VisitorDataPreview))
		b.WriteString("\n")
	}
	if status.PoTokenPreview != "" {
		b.WriteString(styles.help.Render("  po token:     " + status.PoTokenPreview))
		b.WriteString("\n")
	}

	if status.Error != "" {
		b.WriteString(styles.err.Render("  error: " + status.Error))
		b.WriteString("\n")
	}

	b.WriteString(styles.help.Render("checked " + status.CheckedAt.Format("15:04:05 MST")))

	return b.String()
}

func renderFlag(label string, on bool) string {
	if on {
		return styles.ok.Render("✓ " + label)
	}
	return styles.warn.Render("✗ " + label)
}
