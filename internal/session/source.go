// package session resolves YouTube Music session configuration from layered
// sources and validates authentication material.
//
// Precedence for every tunable is request parameter > static TOML config >
// environment variable > hard-coded default.
package session

import (
	"encoding/base64"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Source describes where a configuration value may come from: an environment
// variable consulted after the explicit candidates, and a default used when
// every source is empty.
//
// Base64 applies to string sources only: a selected value that looks like
// base64 is transparently decoded. This sniffing can false-positive on
// plaintext that happens to match the base64 alphabet (a hex token, say);
// the behavior is kept for compatibility with existing deployments.
type Source[T any] struct {
	Env     string
	Default T
	Base64  bool
}

// Recognized configuration sources, one per tunable.
var (
	SourceCookies     = Source[string]{Env: "YTM_COOKIES", Base64: true}
	SourceVisitorData = Source[string]{Env: "YTM_VISITOR_DATA"}
	SourcePoToken     = Source[string]{Env: "YTM_PO_TOKEN"}
	SourceTokenServer = Source[string]{Env: "YTM_PO_TOKEN_SERVER"}
	SourceLocation    = Source[string]{Env: "YTM_LOCATION", Default: "US"}
	SourceUserAgent   = Source[string]{Env: "YTM_USER_AGENT", Default: defaultUserAgent}
	SourceTimeout     = Source[int]{Env: "YTM_TIMEOUT", Default: 30}
	SourceMaxRetries  = Source[int]{Env: "YTM_MAX_RETRIES", Default: 3}
	SourceDebug       = Source[bool]{Env: "YTM_DEBUG"}
	SourceLyrics      = Source[bool]{Env: "YTM_INCLUDE_LYRICS", Default: true}
	SourceHTTPS       = Source[bool]{Env: "YTM_HTTPS_REDIRECT"}
)

var base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)

// ResolveString returns the first non-blank candidate, then the source's
// environment variable, then its default. When the source supports base64
// decoding the selected candidate is decoded if it round-trips cleanly;
// decode failure silently keeps the raw value.
func ResolveString(src Source[string], candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return maybeDecodeBase64(src, c)
		}
	}
	if v := os.Getenv(src.Env); strings.TrimSpace(v) != "" {
		return maybeDecodeBase64(src, v)
	}
	return src.Default
}

// ResolveInt returns the first positive candidate, then the environment
// variable when it parses to a positive integer, then the default.
func ResolveInt(src Source[int], candidates ...int) int {
	for _, c := range candidates {
		if c > 0 {
			return c
		}
	}
	if v := os.Getenv(src.Env); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return src.Default
}

// ResolveBool returns true when any candidate or the environment variable is
// true, otherwise the default.
func ResolveBool(src Source[bool], candidates ...bool) bool {
	for _, c := range candidates {
		if c {
			return true
		}
	}
	if v := os.Getenv(src.Env); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil && b {
			return true
		}
	}
	return src.Default
}

// maybeDecodeBase64 replaces value with its base64-decoded text when the
// source opts in, the value consists solely of base64 alphabet characters,
// and the decoded bytes are valid UTF-8.
func maybeDecodeBase64(src Source[string], value string) string {
	if !src.Base64 {
		return value
	}
	trimmed := strings.TrimSpace(value)
	if !base64Pattern.MatchString(trimmed) {
		return value
	}
	decoded, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil || !utf8.Valid(decoded) {
		return value
	}
	return string(decoded)
}
