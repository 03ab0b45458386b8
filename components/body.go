package components

// Body holds physical properties of an agent.
type Body struct {
	Radius float64
	Mass   float64 // scales jump impulse
}
