package scene

import (
	"testing"

	"github.com/pthm-cable/flapnet/components"
	"github.com/pthm-cable/flapnet/config"
	"github.com/pthm-cable/flapnet/game"
)

func testSnapshot(tick int) *game.Snapshot {
	return &game.Snapshot{
		Generation:  2,
		Tick:        tick,
		PipesPassed: 1,
		AliveCount:  2,
		Agents: []game.AgentState{
			{Index: 0, X: 100, Y: float64(10 + tick), Alive: true, Score: tick, Elite: true},
			{Index: 1, X: 100, Y: 50, Alive: false, Score: 3},
			{Index: 2, X: 100, Y: float64(20 + tick), Alive: true, Score: tick},
		},
		Pipes: []components.Pipe{
			{ID: 0, X: float64(400 - tick), GapY: 200, HalfGap: 70, Width: 60},
			{ID: 1, X: float64(650 - tick), GapY: 300, HalfGap: 70, Width: 60},
		},
	}
}

func countEntities(s *Scene) (agents, pipes int) {
	s.EachAgent(func(components.Position, components.Body, components.Vitality, components.Agent) { agents++ })
	s.EachPipe(func(components.Pipe) { pipes++ })
	return agents, pipes
}

func TestSyncCreatesEntitiesOnce(t *testing.T) {
	s := New(config.Default())

	for tick := 1; tick <= 5; tick++ {
		s.Sync(testSnapshot(tick))
	}

	agents, pipes := countEntities(s)
	if agents != 3 || pipes != 2 {
		t.Errorf("entities = %d agents, %d pipes; want 3, 2", agents, pipes)
	}
}

func TestSyncUpdatesComponents(t *testing.T) {
	cfg := config.Default()
	s := New(cfg)
	s.Sync(testSnapshot(1))
	s.Sync(testSnapshot(7))

	s.EachAgent(func(pos components.Position, body components.Body, vit components.Vitality, ag components.Agent) {
		if body.Radius != cfg.Physics.AgentRadius {
			t.Errorf("agent %d radius = %v", ag.Index, body.Radius)
		}
		switch ag.Index {
		case 0:
			if pos.Y != 17 || vit.Score != 7 || !vit.Alive || !ag.Elite {
				t.Errorf("agent 0 = %+v %+v %+v", pos, vit, ag)
			}
		case 1:
			if vit.Alive || vit.Score != 3 {
				t.Errorf("agent 1 = %+v", vit)
			}
		}
	})

	s.EachPipe(func(p components.Pipe) {
		if p.ID == 0 && p.X != 393 {
			t.Errorf("pipe 0 x = %v, want 393", p.X)
		}
	})

	if pos, ok := s.AgentPosition(2); !ok || pos.Y != 27 {
		t.Errorf("AgentPosition(2) = %+v, %v", pos, ok)
	}
	if _, ok := s.AgentPosition(5); ok {
		t.Error("AgentPosition(5) should not exist")
	}
}

func TestSyncInfo(t *testing.T) {
	s := New(config.Default())
	if s.Info().Leader != -1 {
		t.Errorf("empty scene leader = %d", s.Info().Leader)
	}

	s.Sync(testSnapshot(4))
	info := s.Info()
	want := Info{Generation: 2, Tick: 4, PipesPassed: 1, Alive: 2, Population: 3, Leader: 0, LeaderScore: 4}
	if info != want {
		t.Errorf("Info() = %+v, want %+v", info, want)
	}
}
