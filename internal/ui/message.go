package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytmproxy/internal/session"
)

// MsgKind enumerates all message types in the watch view.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var _ tea.Msg = Msg{}

const (
	MsgStatusFetched MsgKind = iota
	MsgTick
)

// statusFetchedMsg is the constructor for [MsgStatusFetched]
func statusFetchedMsg(status session.AuthStatus, err error) Msg {
	return Msg{
		kind: MsgStatusFetched,
		data: struct {
			status session.AuthStatus
			err    error
		}{status, err},
	}
}

// tickMsg is the constructor for [MsgTick]
func tickMsg() Msg {
	return Msg{kind: MsgTick}
}
