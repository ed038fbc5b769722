package session

import (
	"strings"

	"github.com/desertthunder/ytmproxy/internal/shared"
)

// cacheKeySentinel stands in for absent fields so that distinct
// configurations can never collapse to the same key.
const cacheKeySentinel = "none"

// Config is the effective per-request session configuration. Values are
// immutable once built; transformations return a new Config.
type Config struct {
	Cookies     string
	Location    string
	VisitorData string
	PoToken     string
	TokenServer string
}

// HasSessionData reports whether the configuration carries enough material to
// authenticate upstream calls: cookies plus at least one of visitor data or
// proof-of-origin token.
func (c Config) HasSessionData() bool {
	return c.Cookies != "" && (c.VisitorData != "" || c.PoToken != "")
}

// NeedsSessionDataGeneration reports whether cookies are present but visitor
// data or the proof-of-origin token still has to be generated.
func (c Config) NeedsSessionDataGeneration() bool {
	return c.Cookies != "" && (c.VisitorData == "" || c.PoToken == "")
}

// CacheKey derives a deterministic fingerprint from all five fields. Two
// configs produce the same key exactly when every field matches.
func (c Config) CacheKey() string {
	fields := []string{c.Cookies, c.Location, c.VisitorData, c.PoToken, c.TokenServer}
	for i, f := range fields {
		if f == "" {
			fields[i] = cacheKeySentinel
		}
	}
	return strings.Join(fields, "|")
}

// Merge returns a copy of c with every non-empty field of override applied on
// top. Neither receiver nor argument is mutated.
func (c Config) Merge(override Config) Config {
	merged := c
	if override.Cookies != "" {
		merged.Cookies = override.Cookies
	}
	if override.Location != "" {
		merged.Location = override.Location
	}
	if override.VisitorData != "" {
		merged.VisitorData = override.VisitorData
	}
	if override.PoToken != "" {
		merged.PoToken = override.PoToken
	}
	if override.TokenServer != "" {
		merged.TokenServer = override.TokenServer
	}
	return merged
}

// WithSessionData returns a copy of c with generated visitor data and token
// filled in. Values already present win over the generated ones.
func (c Config) WithSessionData(visitorData, poToken string) Config {
	next := c
	if next.VisitorData == "" {
		next.VisitorData = visitorData
	}
	if next.PoToken == "" {
		next.PoToken = poToken
	}
	return next
}

// Resolve builds the effective session configuration from a request override
// and the static application config, falling through to environment variables
// and defaults per source.
func Resolve(static shared.SessionConfig, override Config) Config {
	return Config{
		Cookies:     ResolveString(SourceCookies, override.Cookies, static.Cookies),
		Location:    ResolveString(SourceLocation, override.Location, static.Location),
		VisitorData: ResolveString(SourceVisitorData, override.VisitorData, static.VisitorData),
		PoToken:     ResolveString(SourcePoToken, override.PoToken, static.PoToken),
		TokenServer: ResolveString(SourceTokenServer, override.TokenServer, static.PoTokenServer),
	}
}
