package game

import "github.com/pthm-cable/flapnet/components"

// AgentState is the per-tick view of one agent handed to presentation code.
type AgentState struct {
	Index int
	X, Y  float64
	Alive bool
	Score int
	Elite bool
}

// Snapshot is a read-only copy of an episode's state after a tick.
type Snapshot struct {
	Generation  int
	Tick        int
	PipesPassed int
	AliveCount  int
	Agents      []AgentState
	Pipes       []components.Pipe
}

// Leader returns the index of the live agent with the highest score, or the
// best dead one if none are alive. Returns -1 for an empty snapshot.
func (s *Snapshot) Leader() int {
	best := -1
	for i, a := range s.Agents {
		if best < 0 {
			best = i
			continue
		}
		b := s.Agents[best]
		if a.Alive && !b.Alive || a.Alive == b.Alive && a.Score > b.Score {
			best = i
		}
	}
	return best
}
