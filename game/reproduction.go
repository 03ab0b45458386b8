package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/pthm-cable/flapnet/config"
	"github.com/pthm-cable/flapnet/neural"
)

// ErrConfig is wrapped by every error caused by an invalid generation setup.
var ErrConfig = errors.New("invalid generation config")

// Breeder builds populations: fresh random ones, and successors of an evaluated one.
type Breeder struct {
	cfg *config.Config
	rng *rand.Rand
}

// NewBreeder creates a breeder drawing all randomness from rng.
func NewBreeder(cfg *config.Config, rng *rand.Rand) *Breeder {
	return &Breeder{cfg: cfg, rng: rng}
}

// MutationParams returns the procreation parameters from the configuration.
func (b *Breeder) MutationParams() neural.MutationParams {
	return neural.MutationParams{
		Probability:   b.cfg.Mutation.Probability,
		Range:         b.cfg.Mutation.Range,
		SymmetricBias: b.cfg.Mutation.SymmetricBias,
	}
}

// BuildGeneration returns exactly N agents.
//
// With an empty previous population every agent gets a freshly initialized
// genome. Otherwise the previous agents are ranked by score (stable, so ties
// keep population order) and the next population is:
//
//	[0, E)    the top E agents themselves, physically reset
//	[E, 2E)   each elite procreated with itself
//	[2E, N)   crossovers of two distinct random elites
func (b *Breeder) BuildGeneration(prev []*Agent) ([]*Agent, error) {
	if err := b.validate(prev); err != nil {
		return nil, err
	}

	n, e := b.cfg.Population.Size, b.cfg.Population.Elites
	next := make([]*Agent, 0, n)

	if len(prev) == 0 {
		for i := 0; i < n; i++ {
			next = append(next, NewAgent(b.cfg, neural.NewGenome(b.rng, b.cfg.Network.Dims)))
		}
		return next, nil
	}

	ranked := append([]*Agent(nil), prev...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Vit.Score > ranked[j].Vit.Score
	})
	elites := ranked[:e]

	for _, a := range elites {
		a.Reset(b.cfg)
		a.Elite = true
		next = append(next, a)
	}

	mp := b.MutationParams()
	for _, a := range elites {
		next = append(next, NewAgent(b.cfg, neural.Procreate(b.rng, a.Genome, a.Genome, mp)))
	}

	for len(next) < n {
		i, j := b.pickParents(e)
		next = append(next, NewAgent(b.cfg, neural.Procreate(b.rng, elites[i].Genome, elites[j].Genome, mp)))
	}

	return next, nil
}

// pickParents draws two elite indices, redrawing the second until they differ.
// A single elite can only be paired with itself.
func (b *Breeder) pickParents(e int) (int, int) {
	i := b.rng.Intn(e)
	if e == 1 {
		return i, i
	}
	j := b.rng.Intn(e)
	for j == i {
		j = b.rng.Intn(e)
	}
	return i, j
}

func (b *Breeder) validate(prev []*Agent) error {
	n, e := b.cfg.Population.Size, b.cfg.Population.Elites
	dims := b.cfg.Network.Dims

	switch {
	case n <= 0:
		return fmt.Errorf("%w: population size must be positive, got %d", ErrConfig, n)
	case e <= 0:
		return fmt.Errorf("%w: elite count must be positive, got %d", ErrConfig, e)
	case 2*e >= n:
		return fmt.Errorf("%w: elite count %d must be less than half the population %d", ErrConfig, e, n)
	case len(dims) < 2:
		return fmt.Errorf("%w: network dims %v need an input and an output layer", ErrConfig, dims)
	case dims[0] != config.NumInputs:
		return fmt.Errorf("%w: network dims %v must start with %d sensory inputs", ErrConfig, dims, config.NumInputs)
	case dims[len(dims)-1] != config.NumOutputs:
		return fmt.Errorf("%w: network dims %v must end with %d decision output", ErrConfig, dims, config.NumOutputs)
	}
	for i, d := range dims {
		if d <= 0 {
			return fmt.Errorf("%w: dims[%d] must be positive, got %d", ErrConfig, i, d)
		}
	}

	if len(prev) == 0 {
		return nil
	}
	if len(prev) != n {
		return fmt.Errorf("%w: previous population has %d agents, want %d", ErrConfig, len(prev), n)
	}
	for i, a := range prev {
		if a.Genome == nil {
			panic(fmt.Sprintf("game: agent %d has score %d but no genome", i, a.Vit.Score))
		}
		if !a.Genome.Matches(dims) {
			return fmt.Errorf("%w: agent %d genome has dims %v, want %v", ErrConfig, i, a.Genome.Dims(), dims)
		}
	}
	return nil
}
