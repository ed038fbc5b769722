// Response parsing for the InnerTube API.
//
// Browse and search responses are deeply nested renderer trees, so the
// parsers navigate generic maps with small path helpers instead of
// declaring a struct per renderer.
package services

import (
	"regexp"
	"strings"
)

var (
	durationPattern = regexp.MustCompile(`^\d+:\d{2}(:\d{2})?$`)
	yearPattern     = regexp.MustCompile(`^(19|20)\d{2}$`)
)

// mapAt walks nested maps by key and returns the map at the end of the
// path, or nil when any step is missing.
func mapAt(v any, keys ...string) map[string]any {
	for _, key := range keys {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = m[key]
	}
	m, _ := v.(map[string]any)
	return m
}

// sliceAt walks nested maps by key and returns the slice at the end of the
// path, or nil when any step is missing.
func sliceAt(v any, keys ...string) []any {
	if len(keys) > 1 {
		v = mapAt(v, keys[:len(keys)-1]...)
		keys = keys[len(keys)-1:]
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	s, _ := m[keys[0]].([]any)
	return s
}

// stringAt walks nested maps by key and returns the string at the end of
// the path, or "" when any step is missing.
func stringAt(v any, keys ...string) string {
	if len(keys) > 1 {
		v = mapAt(v, keys[:len(keys)-1]...)
		keys = keys[len(keys)-1:]
	}
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := m[keys[0]].(string)
	return s
}

// runsText joins the text runs found at the given path.
func runsText(v any, keys ...string) string {
	runs := sliceAt(v, append(keys, "runs")...)
	var b strings.Builder
	for _, run := range runs {
		b.WriteString(stringAt(run, "text"))
	}
	return b.String()
}

// firstRun returns the first text run at the given path.
func firstRun(v any, keys ...string) map[string]any {
	runs := sliceAt(v, append(keys, "runs")...)
	if len(runs) == 0 {
		return nil
	}
	m, _ := runs[0].(map[string]any)
	return m
}

func parseThumbnails(v any, keys ...string) []Thumbnail {
	raw := sliceAt(v, append(keys, "thumbnails")...)
	var thumbs []Thumbnail
	for _, item := range raw {
		url := stringAt(item, "url")
		if url == "" {
			continue
		}
		thumbs = append(thumbs, Thumbnail{
			URL:    url,
			Width:  intAt(item, "width"),
			Height: intAt(item, "height"),
		})
	}
	return thumbs
}

func intAt(v any, keys ...string) int {
	if len(keys) > 1 {
		v = mapAt(v, keys[:len(keys)-1]...)
		keys = keys[len(keys)-1:]
	}
	m, ok := v.(map[string]any)
	if !ok {
		return 0
	}
	f, _ := m[keys[0]].(float64)
	return int(f)
}

// parseListItem converts a musicResponsiveListItemRenderer into a Song.
// Returns false when the renderer carries no video ID, which happens for
// non-track rows mixed into search shelves.
func parseListItem(renderer map[string]any) (Song, bool) {
	song := Song{
		VideoID:    stringAt(renderer, "playlistItemData", "videoId"),
		Thumbnails: parseThumbnails(renderer, "thumbnail", "musicThumbnailRenderer", "thumbnail"),
	}

	columns := sliceAt(renderer, "flexColumns")
	if len(columns) > 0 {
		title := firstRun(columns[0], "musicResponsiveListItemFlexColumnRenderer", "text")
		song.Title = stringAt(title, "text")
		if song.VideoID == "" {
			song.VideoID = stringAt(title, "navigationEndpoint", "watchEndpoint", "videoId")
		}
	}

	if len(columns) > 1 {
		runs := sliceAt(columns[1], "musicResponsiveListItemFlexColumnRenderer", "text", "runs")
		for _, run := range runs {
			text := stringAt(run, "text")
			browseID := stringAt(run, "navigationEndpoint", "browseEndpoint", "browseId")
			switch {
			case strings.HasPrefix(browseID, "UC"):
				song.Artists = append(song.Artists, Artist{Name: text, ID: browseID})
			case strings.HasPrefix(browseID, "MPRE"):
				song.Album = &AlbumRef{Name: text, ID: browseID}
			case durationPattern.MatchString(text):
				song.Duration = text
				song.DurationSec = durationSeconds(text)
			}
		}
	}

	if song.VideoID == "" {
		return Song{}, false
	}
	return song, true
}

// parseShelfSongs extracts every track row from a list of shelf contents.
func parseShelfSongs(contents []any) []Song {
	var songs []Song
	for _, item := range contents {
		renderer := mapAt(item, "musicResponsiveListItemRenderer")
		if renderer == nil {
			continue
		}
		if song, ok := parseListItem(renderer); ok {
			songs = append(songs, song)
		}
	}
	return songs
}

// parseLibraryItems extracts rows from a section list that may mix shelf
// and grid renderers, as the library browse endpoints do.
func parseLibraryItems(sections []any) []LibraryItem {
	var items []LibraryItem
	for _, section := range sections {
		for _, item := range sliceAt(section, "musicShelfRenderer", "contents") {
			renderer := mapAt(item, "musicResponsiveListItemRenderer")
			if renderer == nil {
				continue
			}
			items = append(items, parseLibraryListItem(renderer))
		}
		for _, item := range sliceAt(section, "gridRenderer", "items") {
			renderer := mapAt(item, "musicTwoRowItemRenderer")
			if renderer == nil {
				continue
			}
			items = append(items, LibraryItem{
				ID:       stringAt(renderer, "navigationEndpoint", "browseEndpoint", "browseId"),
				Title:    runsText(renderer, "title"),
				Subtitle: runsText(renderer, "subtitle"),
			})
		}
	}
	return items
}

func parseLibraryListItem(renderer map[string]any) LibraryItem {
	item := LibraryItem{ID: stringAt(renderer, "playlistItemData", "videoId")}

	columns := sliceAt(renderer, "flexColumns")
	if len(columns) > 0 {
		item.Title = runsText(columns[0], "musicResponsiveListItemFlexColumnRenderer", "text")
	}
	if len(columns) > 1 {
		item.Subtitle = runsText(columns[1], "musicResponsiveListItemFlexColumnRenderer", "text")
	}
	if item.ID == "" {
		item.ID = stringAt(renderer, "navigationEndpoint", "browseEndpoint", "browseId")
	}

	return item
}

// sectionContents returns the section list under the first tab of a browse
// or search response.
func sectionContents(response map[string]any) []any {
	tabs := sliceAt(response, "contents", "singleColumnBrowseResultsRenderer", "tabs")
	if tabs == nil {
		tabs = sliceAt(response, "contents", "tabbedSearchResultsRenderer", "tabs")
	}
	if len(tabs) == 0 {
		return nil
	}
	return sliceAt(tabs[0], "tabRenderer", "content", "sectionListRenderer", "contents")
}

// shelfContinuation returns the next-page token of a playlist shelf.
func shelfContinuation(shelf map[string]any) string {
	conts := sliceAt(shelf, "continuations")
	if len(conts) == 0 {
		return ""
	}
	return stringAt(conts[0], "nextContinuationData", "continuation")
}

// durationSeconds converts "3:05" or "1:02:44" to seconds.
func durationSeconds(text string) int {
	parts := strings.Split(text, ":")
	total := 0
	for _, part := range parts {
		n := 0
		for _, r := range part {
			if r < '0' || r > '9' {
				return 0
			}
			n = n*10 + int(r-'0')
		}
		total = total*60 + n
	}
	return total
}
