package renderer

import (
	"testing"

	"github.com/pthm-cable/flapnet/components"
)

func TestLayoutNetwork(t *testing.T) {
	dims := []int{2, 10, 10, 1}
	nodes := layoutNetwork(dims, 0, 0, 400, 220)

	if len(nodes) != len(dims) {
		t.Fatalf("got %d columns, want %d", len(nodes), len(dims))
	}
	for c, n := range dims {
		if len(nodes[c]) != n {
			t.Errorf("column %d has %d nodes, want %d", c, len(nodes[c]), n)
		}
		for i, p := range nodes[c] {
			if p.X != nodes[c][0].X {
				t.Errorf("column %d node %d off the column: x=%v", c, i, p.X)
			}
			if p.Y < 10 || p.Y > 210 {
				t.Errorf("column %d node %d outside the box: y=%v", c, i, p.Y)
			}
			if i > 0 && p.Y <= nodes[c][i-1].Y {
				t.Errorf("column %d nodes not top to bottom", c)
			}
		}
		if c > 0 && nodes[c][0].X <= nodes[c-1][0].X {
			t.Errorf("columns not left to right")
		}
	}

	// A single output node sits in the middle
	if out := nodes[3][0]; out.Y != 110 {
		t.Errorf("output node y = %v, want 110", out.Y)
	}
}

func TestNodeRadius(t *testing.T) {
	if r := nodeRadius([]int{2, 1}, 220); r != 8 {
		t.Errorf("small network radius = %v, want capped at 8", r)
	}
	if r := nodeRadius([]int{2, 500, 1}, 220); r != 2 {
		t.Errorf("wide network radius = %v, want floor 2", r)
	}
}

func TestEdgeStyle(t *testing.T) {
	tests := []struct {
		weight        float64
		wantThickness float32
		wantAlpha     uint8
	}{
		{0.1, 0.5, 44},
		{-1, 1.5, 80},
		{10, 3, 150},
	}
	for _, tt := range tests {
		th, a := edgeStyle(tt.weight)
		if th != tt.wantThickness || a != tt.wantAlpha {
			t.Errorf("edgeStyle(%v) = %v, %v; want %v, %v", tt.weight, th, a, tt.wantThickness, tt.wantAlpha)
		}
	}
}

func TestActivationColor(t *testing.T) {
	if c := activationColor(1); c.R != 255 || c.B != 30 {
		t.Errorf("positive saturation = %+v", c)
	}
	if c := activationColor(-5); c.B != 255 || c.R != 30 {
		t.Errorf("negative saturation = %+v", c)
	}
	if c := activationColor(0); c.R != 60 || c.G != 60 || c.B != 60 {
		t.Errorf("zero = %+v", c)
	}
}

func TestPipeSegments(t *testing.T) {
	p := components.Pipe{X: 100, GapY: 200, HalfGap: 50, Width: 60}
	segs := pipeSegments(p, 500)
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if segs[0] != (segment{X: 100, Y: 0, W: 60, H: 150}) {
		t.Errorf("upper = %+v", segs[0])
	}
	if segs[1] != (segment{X: 100, Y: 250, W: 60, H: 250}) {
		t.Errorf("lower = %+v", segs[1])
	}

	// Gap reaching past both edges leaves nothing solid
	wide := components.Pipe{X: 0, GapY: 250, HalfGap: 1000, Width: 60}
	if segs := pipeSegments(wide, 500); len(segs) != 0 {
		t.Errorf("wide gap segments = %+v", segs)
	}
}
