package neural

import (
	"math/rand"
	"testing"
)

func TestProcreateSelfNoMutationIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p := NewGenome(rng, []int{2, 10, 10, 1})

	for _, symmetric := range []bool{false, true} {
		child := Procreate(rng, p, p, MutationParams{Probability: 0, Range: 0.5, SymmetricBias: symmetric})
		if !child.Equal(p) {
			t.Errorf("procreate(p, p, 0) changed the genome (symmetric=%v)", symmetric)
		}
	}
}

func TestProcreateDoesNotAlias(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p1 := NewGenome(rng, []int{2, 3, 1})
	p2 := NewGenome(rng, []int{2, 3, 1})
	before1, before2 := p1.Clone(), p2.Clone()

	child := Procreate(rng, p1, p2, MutationParams{Probability: 0.1, Range: 0.5})
	child.Layers[0].W.Set(0, 0, 123)
	child.Layers[0].B.SetVec(0, 123)

	if !p1.Equal(before1) || !p2.Equal(before2) {
		t.Error("procreate or child edits modified a parent")
	}
}

func TestProcreateWithoutMutationInheritsFromParents(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	dims := []int{2, 20, 20, 1}
	p1 := NewGenome(rng, dims)
	p2 := NewGenome(rng, dims)

	child := Procreate(rng, p1, p2, MutationParams{Probability: 0, Range: 0.5})
	if !child.Matches(dims) {
		t.Fatalf("child dims %v, want %v", child.Dims(), dims)
	}

	var fromP1, fromP2 int
	for c, l := range child.Layers {
		rows, cols := l.W.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				v := l.W.At(i, j)
				switch v {
				case p1.Layers[c].W.At(i, j):
					fromP1++
				case p2.Layers[c].W.At(i, j):
					fromP2++
				default:
					t.Fatalf("weight %d[%d,%d] = %v comes from neither parent", c, i, j, v)
				}
			}
			// Default bias mode: biases can only come from parent2
			if got, want := l.B.AtVec(i), p2.Layers[c].B.AtVec(i); got != want {
				t.Errorf("bias %d[%d] = %v, want parent2's %v", c, i, got, want)
			}
		}
	}

	// 460 weights split roughly evenly between parents
	total := fromP1 + fromP2
	if fromP1 < total/3 || fromP2 < total/3 {
		t.Errorf("uneven weight inheritance: %d from p1, %d from p2", fromP1, fromP2)
	}
}

func TestProcreateSymmetricBias(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	dims := []int{2, 50, 50, 1}
	p1 := NewGenome(rng, dims)
	p2 := NewGenome(rng, dims)

	child := Procreate(rng, p1, p2, MutationParams{Probability: 0, SymmetricBias: true})

	var fromP1, fromP2 int
	for c, l := range child.Layers {
		for i := 0; i < l.B.Len(); i++ {
			switch l.B.AtVec(i) {
			case p1.Layers[c].B.AtVec(i):
				fromP1++
			case p2.Layers[c].B.AtVec(i):
				fromP2++
			default:
				t.Fatalf("bias %d[%d] comes from neither parent", c, i)
			}
		}
	}
	if fromP1 == 0 || fromP2 == 0 {
		t.Errorf("symmetric bias should mix parents: %d from p1, %d from p2", fromP1, fromP2)
	}
}

func TestProcreateFullMutation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	dims := []int{2, 10, 1}
	p := NewGenome(rng, dims)

	const r = 0.5
	child := Procreate(rng, p, p, MutationParams{Probability: 1, Range: r})

	for c, l := range child.Layers {
		for _, v := range l.W.RawMatrix().Data {
			if v < -r || v >= r {
				t.Errorf("mutated weight in layer %d out of [-%v, %v): %v", c, r, r, v)
			}
		}
		for _, v := range l.B.RawVector().Data {
			if v < -r || v >= r {
				t.Errorf("mutated bias in layer %d out of [-%v, %v): %v", c, r, r, v)
			}
		}
	}
	if child.Equal(p) {
		t.Error("full mutation left the genome unchanged")
	}
}

func TestProcreateMutationRate(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	dims := []int{2, 100, 100, 1}
	p := NewGenome(rng, dims)

	child := Procreate(rng, p, p, MutationParams{Probability: 0.1, Range: 0.5})

	changed := 0
	for c, l := range child.Layers {
		rows, cols := l.W.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				if l.W.At(i, j) != p.Layers[c].W.At(i, j) {
					changed++
				}
			}
		}
	}

	total := 2*100 + 100*100 + 100
	rate := float64(changed) / float64(total)
	if rate < 0.08 || rate > 0.12 {
		t.Errorf("mutation rate %.3f, want ~0.1", rate)
	}
}

func TestProcreatePanicsOnShapeMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	defer func() {
		if recover() == nil {
			t.Error("expected panic for mismatched parents")
		}
	}()
	Procreate(rng, NewGenome(rng, []int{2, 3, 1}), NewGenome(rng, []int{2, 4, 1}), MutationParams{})
}
