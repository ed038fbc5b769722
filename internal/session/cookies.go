package session

import "strings"

const securePrefix = "__Secure-"

// minSIDLength is the shortest SID value Google issues in practice; anything
// shorter is a copy-paste accident.
const minSIDLength = 10

// essentialCookies are the names a YouTube Music session must carry to
// authenticate library and playback requests.
var essentialCookies = []string{
	"SID",
	"HSID",
	"SSID",
	"APISID",
	"SAPISID",
	"__Secure-1PSID",
	"__Secure-3PSID",
	"__Secure-1PAPISID",
	"__Secure-3PAPISID",
	"LOGIN_INFO",
	"VISITOR_INFO1_LIVE",
}

// Cookie is a single parsed cookie from a raw header string.
type Cookie struct {
	Name   string
	Value  string
	Secure bool
}

// CookieIssue describes a missing or malformed essential cookie.
type CookieIssue struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ValidationResult aggregates the outcome of validating a cookie set.
type ValidationResult struct {
	Valid   bool          `json:"valid"`
	Missing []CookieIssue `json:"missing,omitempty"`
	Present []string      `json:"present,omitempty"`
}

// ParseCookies parses a raw `;`-delimited cookie header into structured
// records. Segments without `=` or with an empty name are skipped; duplicates
// are retained. Cookies with the `__Secure-` name prefix are marked secure.
// Malformed input yields an empty list, never an error.
func ParseCookies(raw string) []Cookie {
	var cookies []Cookie
	for _, segment := range strings.Split(raw, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		name, value, ok := strings.Cut(segment, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cookies = append(cookies, Cookie{
			Name:   name,
			Value:  strings.TrimSpace(value),
			Secure: strings.HasPrefix(name, securePrefix),
		})
	}
	return cookies
}

// FindCookie returns the first cookie matching name, case-insensitively.
func FindCookie(cookies []Cookie, name string) (Cookie, bool) {
	for _, c := range cookies {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Cookie{}, false
}

// ValidateYouTubeCookies checks that all essential cookies are present and
// well formed. The result is valid only when every per-cookie rule passes:
// LOGIN_INFO is non-empty and contains a `:`, SID is at least 10 characters,
// and every `__Secure-` cookie is marked secure.
func ValidateYouTubeCookies(cookies []Cookie) ValidationResult {
	result := ValidationResult{Valid: true}

	for _, name := range essentialCookies {
		cookie, ok := FindCookie(cookies, name)
		if !ok {
			result.Valid = false
			result.Missing = append(result.Missing, CookieIssue{Name: name})
			continue
		}
		result.Present = append(result.Present, cookie.Name)

		if issue, ok := checkCookie(name, cookie); ok {
			result.Valid = false
			result.Missing = append(result.Missing, issue)
		}
	}

	return result
}

// checkCookie applies the per-cookie rules beyond simple presence.
func checkCookie(name string, cookie Cookie) (CookieIssue, bool) {
	switch {
	case strings.EqualFold(name, "LOGIN_INFO") && cookie.Value == "":
		return CookieIssue{Name: name, Reason: "empty value"}, true
	case strings.EqualFold(name, "LOGIN_INFO") && !strings.Contains(cookie.Value, ":"):
		return CookieIssue{Name: name, Reason: "malformed value, expected ':' separator"}, true
	case strings.EqualFold(name, "SID") && len(cookie.Value) < minSIDLength:
		return CookieIssue{Name: name, Reason: "value too short"}, true
	case strings.HasPrefix(name, securePrefix) && !cookie.Secure:
		return CookieIssue{Name: name, Reason: "missing secure flag"}, true
	}
	return CookieIssue{}, false
}
