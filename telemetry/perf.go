package telemetry

import (
	"log/slog"
	"time"
)

// Timed phases of a generation.
const (
	PhaseAgents   = "agents"   // collision, decision and physics for every live agent
	PhaseField    = "field"    // single-writer pipe advance
	PhaseBreeding = "breeding" // building the population that plays the episode
)

// PerfCollector accumulates timings for one generation: each tick of its
// episode and the breeding that produced its population. Finish closes the
// generation and starts counting the next one.
type PerfCollector struct {
	genStart   time.Time
	ticks      int
	tickTotal  time.Duration
	tickMax    time.Duration
	agentSteps int // live agents stepped over the episode
	phases     map[string]time.Duration

	tickStart  time.Time
	phase      string
	phaseStart time.Time

	frames     int
	frameTotal time.Duration
	lastFrame  time.Time // kept across generations so frame gaps stay continuous
}

// NewPerfCollector creates a collector whose first generation starts now.
func NewPerfCollector() *PerfCollector {
	p := &PerfCollector{}
	p.reset(time.Now())
	return p
}

func (p *PerfCollector) reset(now time.Time) {
	*p = PerfCollector{
		genStart:  now,
		phases:    make(map[string]time.Duration),
		lastFrame: p.lastFrame,
	}
}

// StartTick begins timing an episode tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.phase = ""
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.endPhase(now)
	p.phase = phase
	p.phaseStart = now
}

func (p *PerfCollector) endPhase(now time.Time) {
	if p.phase != "" {
		p.phases[p.phase] += now.Sub(p.phaseStart)
		p.phase = ""
	}
}

// EndTick closes the running phase and the tick.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.endPhase(now)

	d := now.Sub(p.tickStart)
	p.ticks++
	p.tickTotal += d
	if d > p.tickMax {
		p.tickMax = d
	}
}

// AgentSteps adds n live agents to the agents-phase workload.
func (p *PerfCollector) AgentSteps(n int) {
	p.agentSteps += n
}

// Time starts timing phase outside of a tick; call the returned func to stop.
func (p *PerfCollector) Time(phase string) func() {
	start := time.Now()
	return func() {
		p.phases[phase] += time.Since(start)
	}
}

// RecordFrame marks a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frames++
		p.frameTotal += now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarizes where one generation's time went.
type PerfStats struct {
	RunID      string `csv:"run_id"`
	Generation int    `csv:"generation"`

	Ticks       int     `csv:"ticks"`
	EpisodeSec  float64 `csv:"episode_sec"` // wall time from breeding start to Finish
	AvgTickUS   float64 `csv:"avg_tick_us"`
	MaxTickUS   float64 `csv:"max_tick_us"`
	TicksPerSec float64 `csv:"ticks_per_sec"` // over time spent inside ticks

	AgentSteps  int     `csv:"agent_steps"`
	AgentStepNS float64 `csv:"agent_step_ns"` // agents phase cost per live agent
	AgentsPct   float64 `csv:"agents_pct"`    // share of tick time
	FieldPct    float64 `csv:"field_pct"`
	BreedingMS  float64 `csv:"breeding_ms"`

	FPS float64 `csv:"fps"` // 0 when nothing was rendered
}

// Finish returns the stats of the current generation and starts the next one.
func (p *PerfCollector) Finish() PerfStats {
	now := time.Now()
	p.endPhase(now)

	s := PerfStats{
		Ticks:      p.ticks,
		EpisodeSec: now.Sub(p.genStart).Seconds(),
		MaxTickUS:  float64(p.tickMax) / float64(time.Microsecond),
		AgentSteps: p.agentSteps,
		BreedingMS: float64(p.phases[PhaseBreeding]) / float64(time.Millisecond),
	}
	if p.ticks > 0 {
		s.AvgTickUS = float64(p.tickTotal) / float64(p.ticks) / float64(time.Microsecond)
	}
	if p.tickTotal > 0 {
		s.TicksPerSec = float64(p.ticks) / p.tickTotal.Seconds()
		s.AgentsPct = 100 * float64(p.phases[PhaseAgents]) / float64(p.tickTotal)
		s.FieldPct = 100 * float64(p.phases[PhaseField]) / float64(p.tickTotal)
	}
	if p.agentSteps > 0 {
		s.AgentStepNS = float64(p.phases[PhaseAgents]) / float64(p.agentSteps)
	}
	if p.frameTotal > 0 {
		s.FPS = float64(p.frames) / p.frameTotal.Seconds()
	}

	p.reset(now)
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("generation", s.Generation),
		slog.Int("ticks", s.Ticks),
		slog.Float64("episode_sec", s.EpisodeSec),
		slog.Float64("avg_tick_us", s.AvgTickUS),
		slog.Float64("max_tick_us", s.MaxTickUS),
		slog.Float64("ticks_per_sec", s.TicksPerSec),
		slog.Float64("agent_step_ns", s.AgentStepNS),
		slog.Float64("agents_pct", s.AgentsPct),
		slog.Float64("field_pct", s.FieldPct),
		slog.Float64("breeding_ms", s.BreedingMS),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs the perf stats using slog.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}
