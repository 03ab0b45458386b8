package neural

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// DecisionThreshold is the output activation at or above which the network decides to jump.
const DecisionThreshold = 0.5

// Sigmoid is the logistic function, evaluated so that exp never overflows.
// Saturates to exactly 0 or 1 for large-magnitude inputs.
func Sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// Forward computes the activations of the last layer for a column input vector
// of length dims[0].
func (g *Genome) Forward(input []float64) []float64 {
	a := mat.NewVecDense(len(input), append([]float64(nil), input...))
	for _, l := range g.Layers {
		a = activate(l, a)
	}
	return a.RawVector().Data
}

// Predict reports whether the single output activation is >= DecisionThreshold.
// sigmoid(0) = 0.5 exactly, so a zero pre-activation decides to jump.
func (g *Genome) Predict(input []float64) bool {
	return g.Forward(input)[0] >= DecisionThreshold
}

// Activations holds captured layer values. Layers[0] is the input.
type Activations struct {
	Layers [][]float64
}

// Output returns the final layer's activations.
func (a *Activations) Output() []float64 {
	return a.Layers[len(a.Layers)-1]
}

// ForwardWithCapture computes the network output and captures every layer's activations.
func (g *Genome) ForwardWithCapture(input []float64) *Activations {
	act := &Activations{Layers: make([][]float64, 0, len(g.Layers)+1)}
	act.Layers = append(act.Layers, append([]float64(nil), input...))

	a := mat.NewVecDense(len(input), append([]float64(nil), input...))
	for _, l := range g.Layers {
		a = activate(l, a)
		act.Layers = append(act.Layers, append([]float64(nil), a.RawVector().Data...))
	}
	return act
}

// activate computes sigmoid(W·a + b) into a fresh vector.
func activate(l Layer, a *mat.VecDense) *mat.VecDense {
	rows, _ := l.W.Dims()
	z := mat.NewVecDense(rows, nil)
	z.MulVec(l.W, a)
	z.AddVec(z, l.B)
	for i := 0; i < rows; i++ {
		z.SetVec(i, Sigmoid(z.AtVec(i)))
	}
	return z
}
