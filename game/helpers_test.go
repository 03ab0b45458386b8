package game

import (
	"math/rand"

	"github.com/pthm-cable/flapnet/config"
	"github.com/pthm-cable/flapnet/neural"
)

// testConfig returns the defaults with a small population.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Population.Size = 10
	cfg.Population.Elites = 2
	return cfg
}

// hoverConfig keeps agents in place: no gravity, no jump impulse and gaps
// tall enough that nothing ever collides.
func hoverConfig() *config.Config {
	cfg := testConfig()
	cfg.Physics.Gravity = 0
	cfg.Physics.JumpImpulse = 0
	cfg.Pipes.GapHalfHeight = 10_000
	return cfg
}

// constGenome returns a [2, 1] genome whose output is sigmoid(bias) for every input.
func constGenome(bias float64) *neural.Genome {
	g := neural.NewGenome(rand.New(rand.NewSource(1)), []int{2, 1})
	g.Layers[0].W.Zero()
	g.Layers[0].B.SetVec(0, bias)
	return g
}

// populate creates n agents at the start position with constant-output genomes.
func populate(cfg *config.Config, n int, bias float64) []*Agent {
	agents := make([]*Agent, n)
	for i := range agents {
		agents[i] = NewAgent(cfg, constGenome(bias))
	}
	return agents
}
