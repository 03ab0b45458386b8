package systems

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/pthm-cable/flapnet/components"
	"github.com/pthm-cable/flapnet/config"
)

// FieldParams holds obstacle field parameters.
type FieldParams struct {
	Count          int
	StartX         float64
	Space          float64
	Width          float64
	HalfGap        float64
	Margin         float64 // gap centers stay in [Margin, ScreenH-Margin]
	Speed          float64
	ScreenH        float64
	RegapOnRecycle bool
}

// FieldParamsFrom extracts field parameters from the configuration.
func FieldParamsFrom(cfg *config.Config) FieldParams {
	return FieldParams{
		Count:          cfg.Pipes.Count,
		StartX:         cfg.Pipes.StartX,
		Space:          cfg.Pipes.Space,
		Width:          cfg.Pipes.Width,
		HalfGap:        cfg.Pipes.GapHalfHeight,
		Margin:         cfg.Pipes.Margin,
		Speed:          cfg.Pipes.Speed,
		ScreenH:        cfg.Derived.ScreenH,
		RegapOnRecycle: cfg.Pipes.RegapOnRecycle,
	}
}

// Field is a fixed-size ring of pipes scrolling left. Pipes are kept sorted by
// ascending X; a pipe that leaves the screen is moved behind the last one
// instead of being replaced.
type Field struct {
	pipes    []components.Pipe
	params   FieldParams
	rng      *rand.Rand
	recycled int
}

// NewField creates Count pipes at StartX + i*Space with random gap centers.
func NewField(rng *rand.Rand, p FieldParams) *Field {
	f := &Field{
		pipes:  make([]components.Pipe, p.Count),
		params: p,
		rng:    rng,
	}
	for i := range f.pipes {
		f.pipes[i] = components.Pipe{
			ID:      i,
			X:       float64(i)*p.Space + p.StartX,
			GapY:    f.randomGapY(),
			HalfGap: p.HalfGap,
			Width:   p.Width,
		}
	}
	return f
}

func (f *Field) randomGapY() float64 {
	return f.params.Margin + f.rng.Float64()*(f.params.ScreenH-2*f.params.Margin)
}

// Advance scrolls every pipe left by Speed when moving. If the leftmost pipe's
// right edge has passed 0 it is moved to Space beyond the last pipe.
func (f *Field) Advance(moving bool) {
	if !moving {
		return
	}

	for i := range f.pipes {
		f.pipes[i].X -= f.params.Speed
	}

	if f.pipes[0].Right() < 0 {
		last := f.pipes[len(f.pipes)-1]
		f.pipes[0].X = last.X + f.params.Space
		if f.params.RegapOnRecycle {
			f.pipes[0].GapY = f.randomGapY()
		}
		f.recycled++
	}

	sort.Slice(f.pipes, func(i, j int) bool { return f.pipes[i].X < f.pipes[j].X })
}

// NearestAhead returns the pipe with the smallest X that is >= x.
// Panics if no pipe lies ahead, which the ring layout rules out.
func (f *Field) NearestAhead(x float64) components.Pipe {
	for _, p := range f.pipes {
		if p.X >= x {
			return p
		}
	}
	panic(fmt.Sprintf("systems: no pipe ahead of x=%g", x))
}

// Front returns the first pipe an agent at x with the given radius has not
// fully cleared yet. This is the only pipe it can be touching.
func (f *Field) Front(x, radius float64) components.Pipe {
	for _, p := range f.pipes {
		if p.Right() >= x-radius {
			return p
		}
	}
	panic(fmt.Sprintf("systems: every pipe is behind x=%g", x))
}

// ByID returns the pipe with the given ID.
func (f *Field) ByID(id int) (components.Pipe, bool) {
	for _, p := range f.pipes {
		if p.ID == id {
			return p, true
		}
	}
	return components.Pipe{}, false
}

// Pipes returns a copy of the pipes in ascending X order.
func (f *Field) Pipes() []components.Pipe {
	return append([]components.Pipe(nil), f.pipes...)
}

// Len returns the number of pipes, which never changes.
func (f *Field) Len() int {
	return len(f.pipes)
}

// Recycled returns how many times a pipe has been moved to the back.
func (f *Field) Recycled() int {
	return f.recycled
}
