package core

// Action represents a semantic viewer action, abstracted from physical key presses.
type Action int

const (
	ActionNone       Action = iota
	ActionUp                // K, Up arrow - move the pin cursor
	ActionDown              // J, Down arrow
	ActionLeft              // H, Left arrow
	ActionRight             // L, Right arrow
	ActionPin               // Space - pin node 0 at the cursor
	ActionUnpin             // U - release node 0
	ActionNudge             // N - push the free end toward the cursor
	ActionSlowMotion        // A - toggle 0.1x time scale
	ActionFollow            // F - camera follows node 0
	ActionPause             // P - pause/resume
	ActionStep              // . - advance one frame while paused
	ActionRestart           // R - rebuild the scene
	ActionBack              // B, Escape - back to the menu
	ActionQuit              // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionPin:
		return "Pin"
	case ActionUnpin:
		return "Unpin"
	case ActionNudge:
		return "Nudge"
	case ActionSlowMotion:
		return "SlowMotion"
	case ActionFollow:
		return "Follow"
	case ActionPause:
		return "Pause"
	case ActionStep:
		return "Step"
	case ActionRestart:
		return "Restart"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Pointer is a mouse click in screen cells.
type Pointer struct {
	X, Y int
}

// InputFrame holds the input gathered during one frame.
type InputFrame struct {
	Actions map[Action]bool
	Click   *Pointer // Last click this frame, nil if none
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// SetClick records a click at a screen cell.
func (f *InputFrame) SetClick(x, y int) {
	f.Click = &Pointer{X: x, Y: y}
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Empty reports whether nothing happened this frame.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0 && f.Click == nil
}

// Clear resets all input for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
	f.Click = nil
}
