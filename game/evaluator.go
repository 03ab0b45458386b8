package game

import (
	"context"
	"math/rand"

	"github.com/pthm-cable/flapnet/config"
	"github.com/pthm-cable/flapnet/systems"
	"github.com/pthm-cable/flapnet/telemetry"
)

// Evaluator runs one episode: a population against a shared obstacle field
// until every agent is dead.
//
// Each tick has two phases. First every live agent acts against the field
// as it was at the start of the tick; then, if anyone survived, the field
// advances exactly once.
type Evaluator struct {
	cfg        *config.Config
	agents     []*Agent
	field      *systems.Field
	physics    systems.PhysicsParams
	generation int

	tick        int
	alive       int
	pipesPassed int
	target      int // ID of the pipe the reference agent is heading for
	stopped     bool

	jumps []bool // manual jump requests, consumed at each agent's next decision

	perf *telemetry.PerfCollector
}

// NewEvaluator builds a fresh obstacle field from rng and prepares an episode
// for agents. Agent 0 is the reference for the pipe-pass counter.
func NewEvaluator(cfg *config.Config, rng *rand.Rand, agents []*Agent, generation int) *Evaluator {
	if len(agents) == 0 {
		panic("game: evaluator needs at least one agent")
	}
	e := &Evaluator{
		cfg:        cfg,
		agents:     agents,
		field:      systems.NewField(rng, systems.FieldParamsFrom(cfg)),
		physics:    systems.PhysicsParamsFrom(cfg),
		generation: generation,
		alive:      CountAlive(agents),
		jumps:      make([]bool, len(agents)),
	}
	e.target = e.field.NearestAhead(agents[0].Pos.X).ID
	return e
}

// SetPerfCollector enables per-tick phase timing.
func (e *Evaluator) SetPerfCollector(p *telemetry.PerfCollector) {
	e.perf = p
}

// Step advances the episode by one tick. Returns false once the episode is over;
// calling Step after that does nothing.
func (e *Evaluator) Step() bool {
	if e.Done() {
		return false
	}

	if e.perf != nil {
		e.perf.StartTick()
		e.perf.StartPhase(telemetry.PhaseAgents)
		e.perf.AgentSteps(e.alive)
	}

	e.stepAgents()

	if e.perf != nil {
		e.perf.StartPhase(telemetry.PhaseField)
	}

	if e.alive > 0 {
		e.field.Advance(true)
		e.countPasses()
	}
	e.tick++

	if e.perf != nil {
		e.perf.EndTick()
	}

	return !e.Done()
}

// stepAgents runs collision, scoring, decision and physics for each live
// agent in population order. The field is only read here.
func (e *Evaluator) stepAgents() {
	w, h := e.cfg.Derived.ScreenW, e.cfg.Derived.ScreenH

	for i, a := range e.agents {
		if !a.Vit.Alive {
			e.jumps[i] = false
			continue
		}

		front := e.field.Front(a.Pos.X, a.Body.Radius)
		if systems.Collides(a.Pos, a.Body, front) {
			a.Vit.Alive = false
			continue
		}

		// A tick counts once the agent is known to have survived the collision test
		a.Vit.Score++

		if e.jumps[i] {
			systems.Jump(&a.Vel, a.Body, a.Vit, e.physics)
			e.jumps[i] = false
		}
		a.Decide(e.field.NearestAhead(a.Pos.X), w, h, e.physics)
		systems.Step(&a.Pos, &a.Vel, &a.Vit, e.physics)
	}

	e.alive = CountAlive(e.agents)
}

// countPasses bumps the pass counter when the reference agent's x goes past
// the gap center of the pipe it was heading for.
func (e *Evaluator) countPasses() {
	x := e.agents[0].Pos.X
	p, ok := e.field.ByID(e.target)
	if !ok {
		panic("game: lost track of the reference pipe")
	}
	if p.CenterX() < x {
		e.pipesPassed++
		e.target = e.field.NearestAhead(x).ID
	}
}

// Run steps until the episode ends or ctx is cancelled. Cancellation is only
// observed between ticks.
func (e *Evaluator) Run(ctx context.Context) error {
	for !e.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.Step()
	}
	return nil
}

// Done reports whether the episode is over: everyone is dead, the tick cap
// was reached, or Stop was called.
func (e *Evaluator) Done() bool {
	if e.alive == 0 || e.stopped {
		return true
	}
	return e.cfg.Episode.MaxTicks > 0 && e.tick >= e.cfg.Episode.MaxTicks
}

// Stop ends the episode after the current tick. Scores stand as they are.
func (e *Evaluator) Stop() {
	e.stopped = true
}

// RequestJump queues a jump for agent i, applied at its next decision.
// Requests for dead or unknown agents are ignored.
func (e *Evaluator) RequestJump(i int) {
	if i < 0 || i >= len(e.agents) || !e.agents[i].Vit.Alive {
		return
	}
	e.jumps[i] = true
}

// Snapshot copies the current episode state.
func (e *Evaluator) Snapshot() *Snapshot {
	s := &Snapshot{
		Generation:  e.generation,
		Tick:        e.tick,
		PipesPassed: e.pipesPassed,
		AliveCount:  e.alive,
		Agents:      make([]AgentState, len(e.agents)),
		Pipes:       e.field.Pipes(),
	}
	for i, a := range e.agents {
		s.Agents[i] = AgentState{
			Index: i,
			X:     a.Pos.X,
			Y:     a.Pos.Y,
			Alive: a.Vit.Alive,
			Score: a.Vit.Score,
			Elite: a.Elite,
		}
	}
	return s
}

// Agents returns the evaluated population in its original order.
func (e *Evaluator) Agents() []*Agent { return e.agents }

// Field returns the episode's obstacle field.
func (e *Evaluator) Field() *systems.Field { return e.field }

// Tick returns the number of ticks run so far.
func (e *Evaluator) Tick() int { return e.tick }

// Alive returns the number of agents still alive.
func (e *Evaluator) Alive() int { return e.alive }

// PipesPassed returns how many pipes the reference agent's x has passed.
func (e *Evaluator) PipesPassed() int { return e.pipesPassed }

// Generation returns the generation index of this episode.
func (e *Evaluator) Generation() int { return e.generation }
