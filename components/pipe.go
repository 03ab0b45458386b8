package components

// Pipe is one gapped obstacle: a column of Width starting at X with an opening
// of 2*HalfGap centered on GapY.
type Pipe struct {
	ID      int // stable across recycling
	X       float64
	GapY    float64
	HalfGap float64
	Width   float64
}

// Right returns the pipe's right edge.
func (p Pipe) Right() float64 {
	return p.X + p.Width
}

// CenterX returns the horizontal center of the gap.
func (p Pipe) CenterX() float64 {
	return p.X + p.Width/2
}

// GapTop returns the y where the upper segment ends.
func (p Pipe) GapTop() float64 {
	return p.GapY - p.HalfGap
}

// GapBottom returns the y where the lower segment starts.
func (p Pipe) GapBottom() float64 {
	return p.GapY + p.HalfGap
}
