package neural

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// MutationParams controls Procreate.
type MutationParams struct {
	Probability float64 // chance each entry is replaced by a random value
	Range       float64 // replacements are uniform in [-Range, Range)

	// SymmetricBias makes biases default to parent1 like weights do. When false,
	// biases default to parent2, so a bias can only come from parent2 or a mutation.
	SymmetricBias bool
}

// Procreate produces a child genome by uniform crossover with mutation.
//
// Each entry is mutated with probability p.Probability; otherwise it takes
// parent2's value with probability 0.5 and keeps the default parent's value
// the rest of the time. Weights default to parent1. Biases default to parent2
// unless SymmetricBias is set.
//
// The parents are never aliased by the child. Procreate(rng, g, g, {Probability: 0})
// returns an exact copy of g.
func Procreate(rng *rand.Rand, parent1, parent2 *Genome, p MutationParams) *Genome {
	if len(parent1.Layers) != len(parent2.Layers) {
		panic(fmt.Sprintf("neural: procreate parents have %d and %d layers",
			len(parent1.Layers), len(parent2.Layers)))
	}

	child := &Genome{Layers: make([]Layer, len(parent1.Layers))}
	for c := range parent1.Layers {
		l1, l2 := parent1.Layers[c], parent2.Layers[c]
		rows, cols := l1.W.Dims()
		if r2, c2 := l2.W.Dims(); r2 != rows || c2 != cols {
			panic(fmt.Sprintf("neural: procreate layer %d shapes differ: %dx%d vs %dx%d",
				c, rows, cols, r2, c2))
		}

		w := mat.DenseCopyOf(l1.W)
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				w.Set(i, j, p.draw(rng, l1.W.At(i, j), l2.W.At(i, j)))
			}
		}

		biasDefault := l2.B
		if p.SymmetricBias {
			biasDefault = l1.B
		}
		b := mat.VecDenseCopyOf(biasDefault)
		for i := 0; i < rows; i++ {
			b.SetVec(i, p.draw(rng, biasDefault.AtVec(i), l2.B.AtVec(i)))
		}

		child.Layers[c] = Layer{W: w, B: b}
	}
	return child
}

// draw picks one child entry: a mutation, the other parent's value, or the default.
func (p MutationParams) draw(rng *rand.Rand, def, other float64) float64 {
	if rng.Float64() < p.Probability {
		return (rng.Float64()*2 - 1) * p.Range
	}
	if rng.Float64() >= 0.5 {
		return other
	}
	return def
}
