// Package repositories implements SQLite persistence for the proxy's auxiliary caches.
//
// Key Implementations:
//   - [LyricsRepository] : Lyric transcript caching keyed by video id
//   - [LyricsStoreAdapter] : Adapts LyricsRepository to the lyrics.Store read-through interface
//
// Unlike the in-memory session and client caches, persisted lyrics survive restarts;
// transcripts never change once published so they are kept without expiry.
package repositories
