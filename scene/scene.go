// Package scene mirrors episode snapshots into an ark ECS world for drawing.
package scene

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flapnet/components"
	"github.com/pthm-cable/flapnet/config"
	"github.com/pthm-cable/flapnet/game"
)

// Scene holds one entity per agent and per pipe. Entities are created the
// first time a snapshot needs them and updated in place afterwards.
type Scene struct {
	world *ecs.World

	agentMapper *ecs.Map4[
		components.Position,
		components.Body,
		components.Vitality,
		components.Agent,
	]
	agentFilter *ecs.Filter4[
		components.Position,
		components.Body,
		components.Vitality,
		components.Agent,
	]
	pipeMapper *ecs.Map1[components.Pipe]
	pipeFilter *ecs.Filter1[components.Pipe]

	// Individual component mappers for updates by handle
	posMap   *ecs.Map1[components.Position]
	vitMap   *ecs.Map1[components.Vitality]
	agentMap *ecs.Map1[components.Agent]

	agents []ecs.Entity
	pipes  []ecs.Entity
	body   components.Body

	info Info
}

// Info is the episode-level state shown alongside the entities.
type Info struct {
	Generation  int
	Tick        int
	PipesPassed int
	Alive       int
	Population  int
	Leader      int // agent index, -1 if unknown
	LeaderScore int
}

// New creates an empty scene; agent bodies use the configured radius and mass.
func New(cfg *config.Config) *Scene {
	world := ecs.NewWorld()
	return &Scene{
		world: world,
		agentMapper: ecs.NewMap4[
			components.Position,
			components.Body,
			components.Vitality,
			components.Agent,
		](world),
		agentFilter: ecs.NewFilter4[
			components.Position,
			components.Body,
			components.Vitality,
			components.Agent,
		](world),
		pipeMapper: ecs.NewMap1[components.Pipe](world),
		pipeFilter: ecs.NewFilter1[components.Pipe](world),
		posMap:     ecs.NewMap1[components.Position](world),
		vitMap:     ecs.NewMap1[components.Vitality](world),
		agentMap:   ecs.NewMap1[components.Agent](world),
		body: components.Body{
			Radius: cfg.Physics.AgentRadius,
			Mass:   cfg.Physics.Mass,
		},
		info: Info{Leader: -1},
	}
}

// Sync copies a snapshot into the world.
func (s *Scene) Sync(snap *game.Snapshot) {
	for len(s.agents) < len(snap.Agents) {
		pos := components.Position{}
		body := s.body
		vit := components.Vitality{}
		ag := components.Agent{Index: len(s.agents)}
		s.agents = append(s.agents, s.agentMapper.NewEntity(&pos, &body, &vit, &ag))
	}
	for len(s.pipes) < len(snap.Pipes) {
		pipe := components.Pipe{}
		s.pipes = append(s.pipes, s.pipeMapper.NewEntity(&pipe))
	}

	for i, a := range snap.Agents {
		e := s.agents[i]
		*s.posMap.Get(e) = components.Position{X: a.X, Y: a.Y}
		*s.vitMap.Get(e) = components.Vitality{Alive: a.Alive, Score: a.Score}
		*s.agentMap.Get(e) = components.Agent{Index: a.Index, Elite: a.Elite}
	}
	for i, p := range snap.Pipes {
		*s.pipeMapper.Get(s.pipes[i]) = p
	}

	s.info = Info{
		Generation:  snap.Generation,
		Tick:        snap.Tick,
		PipesPassed: snap.PipesPassed,
		Alive:       snap.AliveCount,
		Population:  len(snap.Agents),
		Leader:      snap.Leader(),
	}
	if s.info.Leader >= 0 {
		s.info.LeaderScore = snap.Agents[s.info.Leader].Score
	}
}

// Info returns the episode state from the last Sync.
func (s *Scene) Info() Info {
	return s.info
}

// EachAgent calls fn for every agent entity.
func (s *Scene) EachAgent(fn func(pos components.Position, body components.Body, vit components.Vitality, ag components.Agent)) {
	query := s.agentFilter.Query()
	for query.Next() {
		pos, body, vit, ag := query.Get()
		fn(*pos, *body, *vit, *ag)
	}
}

// EachPipe calls fn for every pipe entity.
func (s *Scene) EachPipe(fn func(components.Pipe)) {
	query := s.pipeFilter.Query()
	for query.Next() {
		fn(*query.Get())
	}
}

// AgentPosition returns the mirrored position of agent i.
func (s *Scene) AgentPosition(i int) (components.Position, bool) {
	if i < 0 || i >= len(s.agents) || !s.world.Alive(s.agents[i]) {
		return components.Position{}, false
	}
	return *s.posMap.Get(s.agents[i]), true
}
