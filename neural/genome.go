// Package neural provides the fixed-topology feedforward networks that control agents.
package neural

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Layer holds one layer's learnable parameters.
type Layer struct {
	W *mat.Dense    // dims[c] x dims[c-1]
	B *mat.VecDense // dims[c]
}

// Genome is an ordered sequence of layers. Layers[0] maps the input to the first hidden layer.
type Genome struct {
	Layers []Layer
}

// NewGenome creates a genome for the given layer sizes with every weight and bias
// drawn from a standard normal distribution.
func NewGenome(rng *rand.Rand, dims []int) *Genome {
	if len(dims) < 2 {
		panic(fmt.Sprintf("neural: need at least two layer sizes, got %v", dims))
	}

	g := &Genome{Layers: make([]Layer, len(dims)-1)}
	for c := 1; c < len(dims); c++ {
		rows, cols := dims[c], dims[c-1]

		w := make([]float64, rows*cols)
		for i := range w {
			w[i] = rng.NormFloat64()
		}
		b := make([]float64, rows)
		for i := range b {
			b[i] = rng.NormFloat64()
		}

		g.Layers[c-1] = Layer{
			W: mat.NewDense(rows, cols, w),
			B: mat.NewVecDense(rows, b),
		}
	}
	return g
}

// Dims returns the layer sizes this genome was built for.
func (g *Genome) Dims() []int {
	if len(g.Layers) == 0 {
		return nil
	}
	_, in := g.Layers[0].W.Dims()
	dims := []int{in}
	for _, l := range g.Layers {
		rows, _ := l.W.Dims()
		dims = append(dims, rows)
	}
	return dims
}

// Matches reports whether every layer has exactly the shapes dims prescribes.
func (g *Genome) Matches(dims []int) bool {
	if len(g.Layers) != len(dims)-1 {
		return false
	}
	for c, l := range g.Layers {
		rows, cols := l.W.Dims()
		if rows != dims[c+1] || cols != dims[c] || l.B.Len() != dims[c+1] {
			return false
		}
	}
	return true
}

// Clone creates a deep copy of the genome.
func (g *Genome) Clone() *Genome {
	clone := &Genome{Layers: make([]Layer, len(g.Layers))}
	for c, l := range g.Layers {
		clone.Layers[c] = Layer{
			W: mat.DenseCopyOf(l.W),
			B: mat.VecDenseCopyOf(l.B),
		}
	}
	return clone
}

// Equal reports whether two genomes have identical shapes and parameters.
func (g *Genome) Equal(other *Genome) bool {
	if len(g.Layers) != len(other.Layers) {
		return false
	}
	for c := range g.Layers {
		if !mat.Equal(g.Layers[c].W, other.Layers[c].W) || !mat.Equal(g.Layers[c].B, other.Layers[c].B) {
			return false
		}
	}
	return true
}

// NumParams returns the total number of weights and biases.
func (g *Genome) NumParams() int {
	n := 0
	for _, l := range g.Layers {
		rows, cols := l.W.Dims()
		n += rows*cols + rows
	}
	return n
}
