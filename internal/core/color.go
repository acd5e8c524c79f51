package core

// Color is the semantic color of a screen cell. The platform layer decides how each
// one looks in a terminal.
type Color uint8

const (
	ColorDefault   Color = iota
	ColorRope            // Segment at or near rest length
	ColorRopeTaut        // Segment stretched past the warning factor
	ColorContact         // Node listed by the collision snapshot
	ColorPin             // Pinned node
	ColorCursor          // Pin cursor
	ColorCircle          // Circle outline
	ColorBox             // Box outline
	ColorKinematic       // Body moved by its scene
	ColorHUD             // Status line
	ColorWarn            // Warnings in the status line
)
