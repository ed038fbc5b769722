// Package ui implements the terminal interface using bubbletea's Elm architecture.
//
// [WatchModel] is the auth watch view: it polls a session status snapshot on an
// interval and renders it with the shared lipgloss [Palette]. The model implements
// bubbletea's standard Init/Update/View pattern, receiving messages via the Msg
// union type.
//
// [RenderAuthStatus] formats a snapshot for both the watch view and the one-shot
// auth status command, so the two stay visually consistent.
package ui
