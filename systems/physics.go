// Package systems contains the per-tick simulation rules: agent physics and the obstacle field.
package systems

import (
	"github.com/pthm-cable/flapnet/components"
	"github.com/pthm-cable/flapnet/config"
)

// PhysicsParams holds per-tick physics constants.
type PhysicsParams struct {
	Gravity     float64
	Friction    float64
	JumpImpulse float64 // magnitude; jumps push toward y = 0
	ScreenH     float64
}

// PhysicsParamsFrom extracts physics parameters from the configuration.
func PhysicsParamsFrom(cfg *config.Config) PhysicsParams {
	return PhysicsParams{
		Gravity:     cfg.Physics.Gravity,
		Friction:    cfg.Physics.Friction,
		JumpImpulse: cfg.Physics.JumpImpulse,
		ScreenH:     cfg.Derived.ScreenH,
	}
}

// ApplyForce adds a vertical impulse scaled by mass.
func ApplyForce(vel *components.Velocity, body components.Body, fy float64) {
	vel.Y += fy / body.Mass
}

// Jump resets vertical velocity and applies the upward impulse. Dead agents don't jump.
func Jump(vel *components.Velocity, body components.Body, vit components.Vitality, p PhysicsParams) {
	if !vit.Alive {
		return
	}
	vel.Y = 0
	ApplyForce(vel, body, -p.JumpImpulse)
}

// Step integrates one tick. Touching the ceiling or the ground clamps the
// agent, stops it and kills it. Returns true if the agent died this step.
func Step(pos *components.Position, vel *components.Velocity, vit *components.Vitality, p PhysicsParams) bool {
	vel.Y *= p.Friction
	vel.Y += p.Gravity
	pos.Y += vel.Y

	wasAlive := vit.Alive
	if pos.Y <= 0 {
		pos.Y = 0
		vel.Y = 0
		vit.Alive = false
	}
	if pos.Y >= p.ScreenH {
		pos.Y = p.ScreenH
		vel.Y = 0
		vit.Alive = false
	}
	return wasAlive && !vit.Alive
}

// Collides reports whether the agent's bounding box overlaps either segment of the pipe.
func Collides(pos components.Position, body components.Body, pipe components.Pipe) bool {
	r := body.Radius
	if pos.X+r <= pipe.X || pos.X-r >= pipe.Right() {
		return false
	}
	return pos.Y-r < pipe.GapTop() || pos.Y+r > pipe.GapBottom()
}

// Sense builds the normalized sensory vector for an agent facing a pipe:
// horizontal distance to the gap center over screen width, and vertical
// offset to the gap center over screen height.
func Sense(pos components.Position, pipe components.Pipe, screenW, screenH float64) []float64 {
	return []float64{
		(pipe.CenterX() - pos.X) / screenW,
		(pipe.GapY - pos.Y) / screenH,
	}
}
