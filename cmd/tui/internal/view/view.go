package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// BackMsg returns control to the menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// LockMsg drops back to the unlock screen.
type LockMsg struct{}

// UnlockedMsg announces a successful setup or unlock.
type UnlockedMsg struct{}
