package components

// Vitality tracks an agent's episode outcome.
// Alive goes from true to false at most once per episode.
type Vitality struct {
	Alive bool
	Score int // ticks survived while alive
}

// Agent tags a scene entity with its population index.
type Agent struct {
	Index int
	Elite bool
}
