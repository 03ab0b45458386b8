// Package components holds the plain data shared by the simulation core and the scene.
package components

// Position represents an entity's playfield position. Y grows downward.
type Position struct {
	X, Y float64
}

// Velocity represents an entity's velocity in pixels per tick.
type Velocity struct {
	X, Y float64
}
