package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-rope/internal/core"
)

// KeyMapper translates Bubble Tea key and mouse messages to viewer actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a viewer action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	key := msg.String()

	// Global quit keys
	switch key {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	}

	switch key {
	case "k", "up":
		return core.ActionUp, false
	case "j", "down":
		return core.ActionDown, false
	case "h", "left":
		return core.ActionLeft, false
	case "l", "right":
		return core.ActionRight, false
	case " ":
		return core.ActionPin, false
	case "u":
		return core.ActionUnpin, false
	case "n":
		return core.ActionNudge, false
	case "a":
		return core.ActionSlowMotion, false
	case "f":
		return core.ActionFollow, false
	case "p":
		return core.ActionPause, false
	case ".":
		return core.ActionStep, false
	case "r":
		return core.ActionRestart, false
	case "b", "esc":
		return core.ActionBack, false
	}

	return core.ActionNone, false
}

// MapMouseToFrame records mouse input: dragging or clicking with the left button
// pins node 0 under the pointer, the right button releases it.
func (km *KeyMapper) MapMouseToFrame(msg tea.MouseMsg, frame *core.InputFrame) {
	switch msg.Button {
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress || msg.Action == tea.MouseActionMotion {
			frame.SetClick(msg.X, msg.Y)
		}
	case tea.MouseButtonRight:
		if msg.Action == tea.MouseActionPress {
			frame.Set(core.ActionUnpin)
		}
	}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionRuns
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionRuns
	}

	return MenuActionNone
}
