package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/pthm-cable/flapnet/config"
	"github.com/pthm-cable/flapnet/neural"
)

func TestBuildGenerationFresh(t *testing.T) {
	cfg := testConfig()
	b := NewBreeder(cfg, rand.New(rand.NewSource(42)))

	agents, err := b.BuildGeneration(nil)
	if err != nil {
		t.Fatalf("BuildGeneration(nil): %v", err)
	}
	if len(agents) != cfg.Population.Size {
		t.Fatalf("got %d agents, want %d", len(agents), cfg.Population.Size)
	}

	for i, a := range agents {
		if !a.Vit.Alive || a.Vit.Score != 0 || a.Elite {
			t.Errorf("agent %d not fresh: %+v elite=%v", i, a.Vit, a.Elite)
		}
		if a.Pos.X != cfg.Agent.StartX || a.Pos.Y != cfg.Agent.StartY || a.Vel.Y != 0 {
			t.Errorf("agent %d not at start: pos=%+v vel=%+v", i, a.Pos, a.Vel)
		}
		if !a.Genome.Matches(cfg.Network.Dims) {
			t.Errorf("agent %d genome dims %v", i, a.Genome.Dims())
		}
		for j := 0; j < i; j++ {
			if agents[j].Genome == a.Genome || agents[j].Genome.Equal(a.Genome) {
				t.Errorf("agents %d and %d share a genome", j, i)
			}
		}
	}
}

func TestBuildGenerationCarriesTopElites(t *testing.T) {
	cfg := testConfig()
	b := NewBreeder(cfg, rand.New(rand.NewSource(42)))
	prev, err := b.BuildGeneration(nil)
	if err != nil {
		t.Fatal(err)
	}

	scores := []int{3, 9, 1, 7, 5, 0, 2, 4, 6, 8}
	for i, a := range prev {
		a.Vit.Score = scores[i]
		a.Vit.Alive = false
		a.Pos.Y = 42
	}
	top := []*neural.Genome{prev[1].Genome.Clone(), prev[9].Genome.Clone()}

	next, err := b.BuildGeneration(prev)
	if err != nil {
		t.Fatalf("BuildGeneration: %v", err)
	}
	if len(next) != cfg.Population.Size {
		t.Fatalf("got %d agents, want %d", len(next), cfg.Population.Size)
	}

	for i, want := range top {
		a := next[i]
		if !a.Genome.Equal(want) {
			t.Errorf("slot %d genome is not the rank-%d scorer's", i, i)
		}
		if !a.Elite {
			t.Errorf("slot %d not marked elite", i)
		}
		if !a.Vit.Alive || a.Vit.Score != 0 || a.Pos.Y != cfg.Agent.StartY {
			t.Errorf("slot %d not reset: vit=%+v pos=%+v", i, a.Vit, a.Pos)
		}
	}

	for i := cfg.Population.Elites; i < len(next); i++ {
		if next[i].Elite {
			t.Errorf("offspring %d marked elite", i)
		}
		for _, e := range next[:cfg.Population.Elites] {
			if next[i].Genome == e.Genome {
				t.Errorf("offspring %d aliases an elite genome", i)
			}
		}
	}
}

func TestBuildGenerationSelfOffspringWithoutMutation(t *testing.T) {
	cfg := testConfig()
	cfg.Mutation.Probability = 0
	b := NewBreeder(cfg, rand.New(rand.NewSource(42)))
	prev, _ := b.BuildGeneration(nil)
	for i, a := range prev {
		a.Vit.Score = len(prev) - i
	}

	next, err := b.BuildGeneration(prev)
	if err != nil {
		t.Fatal(err)
	}

	e := cfg.Population.Elites
	for i := 0; i < e; i++ {
		// Self-crossover without mutation is a clone
		if !next[e+i].Genome.Equal(next[i].Genome) {
			t.Errorf("self offspring %d differs from its elite", i)
		}
	}

	next[e].Genome.Layers[0].W.Set(0, 0, 99)
	if next[0].Genome.Layers[0].W.At(0, 0) == 99 {
		t.Error("editing the self offspring changed the elite")
	}
}

func TestBuildGenerationTiesKeepPopulationOrder(t *testing.T) {
	cfg := testConfig()
	b := NewBreeder(cfg, rand.New(rand.NewSource(42)))
	prev, _ := b.BuildGeneration(nil)
	for _, a := range prev {
		a.Vit.Score = 7
	}

	next, err := b.BuildGeneration(prev)
	if err != nil {
		t.Fatal(err)
	}
	if next[0] != prev[0] || next[1] != prev[1] {
		t.Error("tied scores should keep the first agents as elites")
	}
}

func TestBuildGenerationConfigErrors(t *testing.T) {
	valid := func() []*Agent {
		agents, _ := NewBreeder(testConfig(), rand.New(rand.NewSource(1))).BuildGeneration(nil)
		return agents
	}

	tests := []struct {
		name   string
		modify func(*config.Config)
		prev   []*Agent
	}{
		{"zero population", func(c *config.Config) { c.Population.Size = 0 }, nil},
		{"zero elites", func(c *config.Config) { c.Population.Elites = 0 }, nil},
		{"elites half population", func(c *config.Config) { c.Population.Elites = 5 }, nil},
		{"short dims", func(c *config.Config) { c.Network.Dims = []int{2} }, nil},
		{"zero hidden layer", func(c *config.Config) { c.Network.Dims = []int{2, 0, 1} }, nil},
		{"negative hidden layer", func(c *config.Config) { c.Network.Dims = []int{2, -3, 1} }, nil},
		{"wrong input count", func(c *config.Config) { c.Network.Dims = []int{3, 4, 1} }, nil},
		{"wrong output count", func(c *config.Config) { c.Network.Dims = []int{2, 4, 2} }, nil},
		{"wrong population size", func(c *config.Config) {}, valid()[:9]},
		{"dims mismatch", func(c *config.Config) { c.Network.Dims = []int{2, 3, 1} }, valid()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(cfg)
			_, err := NewBreeder(cfg, rand.New(rand.NewSource(42))).BuildGeneration(tt.prev)
			if !errors.Is(err, ErrConfig) {
				t.Errorf("err = %v, want ErrConfig", err)
			}
		})
	}
}

func TestBuildGenerationPanicsOnMissingGenome(t *testing.T) {
	cfg := testConfig()
	b := NewBreeder(cfg, rand.New(rand.NewSource(42)))
	prev, _ := b.BuildGeneration(nil)
	prev[3].Genome = nil
	prev[3].Vit.Score = 12

	defer func() {
		if recover() == nil {
			t.Error("expected panic for an agent without a genome")
		}
	}()
	b.BuildGeneration(prev)
}

func TestPickParentsDistinct(t *testing.T) {
	b := NewBreeder(testConfig(), rand.New(rand.NewSource(42)))
	for i := 0; i < 1000; i++ {
		if p, q := b.pickParents(3); p == q || p < 0 || q < 0 || p >= 3 || q >= 3 {
			t.Fatalf("pickParents(3) = %d, %d", p, q)
		}
	}
	if p, q := b.pickParents(1); p != 0 || q != 0 {
		t.Errorf("pickParents(1) = %d, %d; want 0, 0", p, q)
	}
}

// One episode with N=4, E=1 where everyone falls out within three ticks
// with the same score, then breed from it.
func TestEndToEndTiedExtinction(t *testing.T) {
	cfg := config.Default()
	cfg.Population.Size = 4
	cfg.Population.Elites = 1
	cfg.Network.Dims = []int{2, 1}
	cfg.Screen.Height = 10
	cfg.Agent.StartY = 5
	cfg.Physics.Gravity = 3
	cfg.Physics.JumpImpulse = 0
	cfg.Pipes.Margin = 2
	cfg.Pipes.GapHalfHeight = 1
	if err := cfg.Validate(); err != nil {
		t.Fatalf("scenario config invalid: %v", err)
	}
	cfg.ComputeDerived()

	rng := rand.New(rand.NewSource(42))
	b := NewBreeder(cfg, rng)
	agents, err := b.BuildGeneration(nil)
	if err != nil {
		t.Fatalf("seeding: %v", err)
	}

	e := NewEvaluator(cfg, rng, agents, 0)
	for e.Step() {
		if e.Tick() > 3 {
			t.Fatal("episode did not end within 3 ticks")
		}
	}
	if e.Alive() != 0 {
		t.Fatalf("%d agents still alive", e.Alive())
	}

	for i, a := range agents {
		if a.Vit.Score != agents[0].Vit.Score {
			t.Fatalf("agent %d score %d, want tie at %d", i, a.Vit.Score, agents[0].Vit.Score)
		}
	}
	best := agents[0].Genome.Clone()

	next, err := b.BuildGeneration(agents)
	if err != nil {
		t.Fatalf("BuildGeneration on tied scores: %v", err)
	}
	if len(next) != 4 {
		t.Fatalf("got %d agents, want 4", len(next))
	}
	first := next[0]
	if !first.Genome.Equal(best) {
		t.Error("first agent is not the best scorer's genome")
	}
	if !first.Vit.Alive || first.Vit.Score != 0 || first.Pos.Y != cfg.Agent.StartY || first.Vel.Y != 0 {
		t.Errorf("first agent not reset: vit=%+v pos=%+v vel=%+v", first.Vit, first.Pos, first.Vel)
	}
}
