package game

import (
	"github.com/pthm-cable/flapnet/components"
	"github.com/pthm-cable/flapnet/config"
	"github.com/pthm-cable/flapnet/neural"
	"github.com/pthm-cable/flapnet/systems"
)

// Agent is one simulated player: physical state plus the genome that controls it.
type Agent struct {
	Pos    components.Position
	Vel    components.Velocity
	Body   components.Body
	Vit    components.Vitality
	Genome *neural.Genome

	// Elite marks agents carried over unchanged from the previous generation.
	Elite bool
}

// NewAgent creates an agent at the episode start position owning genome.
func NewAgent(cfg *config.Config, genome *neural.Genome) *Agent {
	a := &Agent{
		Body: components.Body{
			Radius: cfg.Physics.AgentRadius,
			Mass:   cfg.Physics.Mass,
		},
		Genome: genome,
	}
	a.Reset(cfg)
	return a
}

// Reset restores position, velocity, alive flag and score to episode-start values.
// The genome is untouched.
func (a *Agent) Reset(cfg *config.Config) {
	a.Pos = components.Position{X: cfg.Agent.StartX, Y: cfg.Agent.StartY}
	a.Vel = components.Velocity{}
	a.Vit = components.Vitality{Alive: true}
}

// Decide feeds the agent's view of pipe through its genome and jumps if the
// network says so. Returns whether it jumped.
func (a *Agent) Decide(pipe components.Pipe, screenW, screenH float64, p systems.PhysicsParams) bool {
	if a.Genome == nil {
		panic("game: agent has no genome")
	}
	if !a.Genome.Predict(systems.Sense(a.Pos, pipe, screenW, screenH)) {
		return false
	}
	systems.Jump(&a.Vel, a.Body, a.Vit, p)
	return true
}

// Scores returns each agent's score in population order.
func Scores(agents []*Agent) []float64 {
	scores := make([]float64, len(agents))
	for i, a := range agents {
		scores[i] = float64(a.Vit.Score)
	}
	return scores
}

// CountAlive returns how many agents are still alive.
func CountAlive(agents []*Agent) int {
	n := 0
	for _, a := range agents {
		if a.Vit.Alive {
			n++
		}
	}
	return n
}
