// Package models defines domain entities and persistence interfaces for the YouTube Music proxy.
//
// The package contains two categories of types:
//
// 1. Persistence contracts: the [Model] and [Repository] interfaces shared by database-backed entities
//
// 2. Persistent Entities:
//   - [LyricsRecord] : Cached lyric transcripts keyed by video id
//
// All persistent entities implement the Model interface providing identity, timestamps, and validation.
package models
