package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flapnet/camera"
	"github.com/pthm-cable/flapnet/config"
	"github.com/pthm-cable/flapnet/game"
	"github.com/pthm-cable/flapnet/neural"
	"github.com/pthm-cable/flapnet/scene"
	"github.com/pthm-cable/flapnet/systems"
)

// PanelWidth is the width of the side panel right of the playfield.
const PanelWidth = 300

// Viewer draws a running Trainer: playfield on the left, HUD and the
// leader's network on the right.
type Viewer struct {
	cfg   *config.Config
	theme Theme
	scene *scene.Scene
	cam   *camera.Camera
	hud   *HUD

	// Leader network capture from the last Sync
	leaderGenome *neural.Genome
	leaderAct    *neural.Activations
}

// WindowSize returns the window dimensions needed for cfg.
func WindowSize(cfg *config.Config) (int32, int32) {
	return int32(cfg.Screen.Width) + PanelWidth, int32(cfg.Screen.Height) + groundHeight
}

// NewViewer creates a viewer. Must be called after the raylib window exists.
func NewViewer(cfg *config.Config) *Viewer {
	theme := DefaultTheme()
	w, h := float32(cfg.Screen.Width), float32(cfg.Screen.Height)
	return &Viewer{
		cfg:   cfg,
		theme: theme,
		scene: scene.New(cfg),
		cam:   camera.New(0, 0, w, h, w, h),
		hud:   NewHUD(int32(w), 0, PanelWidth, theme),
	}
}

// HandleInput applies keyboard and mouse input: space makes agent 0 jump,
// P pauses, mouse wheel zooms, right drag pans, R resets the view.
func (v *Viewer) HandleInput(tr *game.Trainer) {
	if rl.IsKeyPressed(rl.KeySpace) {
		tr.Evaluator().RequestJump(0)
	}
	if rl.IsKeyPressed(rl.KeyP) {
		v.hud.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.cam.Reset()
	}

	mouse := rl.GetMousePosition()
	if !v.cam.Contains(mouse.X, mouse.Y) {
		return
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		v.cam.Pan(-d.X, -d.Y)
	}
}

// Sync mirrors the trainer's current episode into the scene and captures the
// leader's network activations for the diagram.
func (v *Viewer) Sync(tr *game.Trainer) {
	eval := tr.Evaluator()
	v.scene.Sync(eval.Snapshot())

	v.leaderGenome, v.leaderAct = nil, nil
	leader := v.scene.Info().Leader
	if leader < 0 {
		return
	}
	a := eval.Agents()[leader]
	if a.Genome == nil {
		return
	}
	pipe := eval.Field().NearestAhead(a.Pos.X)
	input := systems.Sense(a.Pos, pipe, v.cfg.Derived.ScreenW, v.cfg.Derived.ScreenH)
	v.leaderGenome = a.Genome
	v.leaderAct = a.Genome.ForwardWithCapture(input)
}

// Draw renders one frame and returns the HUD controls.
func (v *Viewer) Draw(tr *game.Trainer) Controls {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(v.theme.PanelBg)
	DrawPlayfield(v.scene, v.cam, v.theme)

	ctl, y := v.hud.Draw(v.scene.Info(), HUDData{
		RunID: tr.RunID(),
		Last:  tr.LastStats(),
		FPS:   rl.GetFPS(),
	})

	_, winH := WindowSize(v.cfg)
	netY := y + v.theme.Padding
	netH := winH - netY - v.theme.Padding
	if netH > 80 {
		v.theme.DrawPanel(v.hud.x, netY, PanelWidth, netH)
		rl.DrawText("Leader network", v.hud.x+v.theme.Padding, netY+6, v.theme.FontSize, v.theme.SectionHeader)
		DrawNetworkDiagram(v.hud.x+60, netY+24, PanelWidth-100, netH-30, v.leaderGenome, v.leaderAct)
	}

	return ctl
}
