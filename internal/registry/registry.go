// Package registry provides a global registry for scene factories.
// Scenes register themselves in init() functions, allowing the platform
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/tui-rope/internal/collision"
)

// ErrUnknownScene is returned by Create for ids nobody registered.
var ErrUnknownScene = errors.New("registry: unknown scene")

// Scene sets up the obstacles a rope falls through and where the rope starts.
// Scenes hold no rope state; the simulation owns the rope.
type Scene interface {
	// ID returns a unique identifier (e.g., "drape"). Used by the CLI and run storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Description returns one line shown in listings.
	Description() string

	// Build adds the scene's bodies to an empty world and returns the rope layout.
	// Seeded scenes must produce the same world for the same seed.
	Build(w *collision.World, seed int64) (Layout, error)

	// Animate moves kinematic bodies to their pose at t seconds of simulated time.
	// It reports whether anything moved.
	Animate(w *collision.World, t float64) bool
}

// Layout describes the rope a scene wants.
type Layout struct {
	Origin mgl64.Vec2 // Spawn position of node 0
	Pin    bool       // Pin node 0 at Origin on start
	Nodes  int        // Overrides the configured node count when positive
}

// SceneInfo contains metadata about a registered scene.
type SceneInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory is a function that creates a new instance of a scene.
type Factory func() Scene

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]SceneInfo)
	mu        sync.RWMutex
)

// Register adds a scene factory to the registry.
// Typically called from a scene's init() function.
// Panics if a scene with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scene %q already registered", id))
	}

	factories[id] = f

	s := f()
	infos[id] = SceneInfo{ID: id, Title: s.Title(), Description: s.Description()}
}

// List returns information about all registered scenes, sorted by ID.
func List() []SceneInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SceneInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new scene by its ID.
func Create(id string) (Scene, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownScene, id)
	}

	return f(), nil
}

// Exists checks if a scene with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
