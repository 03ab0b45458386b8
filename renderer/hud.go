package renderer

import (
	"fmt"

	"github.com/dustin/go-humanize"
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flapnet/scene"
	"github.com/pthm-cable/flapnet/telemetry"
)

// Speed limits for the ticks-per-frame slider.
const (
	MinSpeed = 1
	MaxSpeed = 50
)

// Controls holds the HUD state the main loop acts on.
type Controls struct {
	Speed  int // simulation ticks per frame
	Paused bool
	Skip   bool // end the current episode (one-shot)
}

// HUDData holds everything shown in the panel besides the scene info.
type HUDData struct {
	RunID string
	Last  *telemetry.GenerationStats // previous generation, nil during the first
	FPS   int32
}

// HUD renders the side panel with run stats and raygui controls.
type HUD struct {
	theme       Theme
	x, y, width int32
	speed       float32
	paused      bool
	bestEver    int
}

// NewHUD creates a HUD panel at the given position.
func NewHUD(x, y, width int32, theme Theme) *HUD {
	return &HUD{theme: theme, x: x, y: y, width: width, speed: MinSpeed}
}

// TogglePause flips the paused state (keyboard shortcut).
func (h *HUD) TogglePause() {
	h.paused = !h.paused
}

// Draw renders the panel and returns the resulting controls. Returns the y
// below the panel's last line so callers can stack more below it.
func (h *HUD) Draw(info scene.Info, data HUDData) (Controls, int32) {
	t := h.theme
	x := h.x + t.Padding
	y := h.y + t.Padding
	inner := h.width - 2*t.Padding

	if info.LeaderScore > h.bestEver {
		h.bestEver = info.LeaderScore
	}

	t.DrawPanel(h.x, h.y, h.width, 330)

	y = t.DrawSectionHeader(x, y, "Training")
	y = t.DrawLabelValue(x, y, "Generation", humanize.Comma(int64(info.Generation)))
	y = t.DrawLabelValue(x, y, "Tick", humanize.Comma(int64(info.Tick)))
	y = t.DrawLabelValue(x, y, "Pipes", humanize.Comma(int64(info.PipesPassed)))
	y = t.DrawLabelValue(x, y, "Leader", fmt.Sprintf("#%d (%s)", info.Leader, humanize.Comma(int64(info.LeaderScore))))
	y = t.DrawLabelValue(x, y, "Best ever", humanize.Comma(int64(h.bestEver)))
	alive := float32(0)
	if info.Population > 0 {
		alive = float32(info.Alive) / float32(info.Population)
	}
	y = t.DrawBar(x, y, "Alive", alive, inner)
	y += 4

	y = t.DrawSectionHeader(x, y, "Last generation")
	if data.Last != nil {
		y = t.DrawLabelValue(x, y, "Best", fmt.Sprintf("%.0f", data.Last.BestScore))
		y = t.DrawLabelValue(x, y, "Mean", fmt.Sprintf("%.1f +/- %.1f", data.Last.MeanScore, data.Last.StdScore))
		y = t.DrawLabelValue(x, y, "Elite mean", fmt.Sprintf("%.1f", data.Last.EliteMean))
	} else {
		y = t.DrawLabelValue(x, y, "Best", "-")
	}
	y += 4

	// Speed slider
	rl.DrawText(fmt.Sprintf("Speed: %dx  FPS: %d", int(h.speed), data.FPS), x, y, t.FontSize, t.LabelColor)
	y += t.LineHeight
	h.speed = gui.SliderBar(
		rl.Rectangle{X: float32(x + 20), Y: float32(y), Width: float32(inner - 50), Height: 16},
		fmt.Sprint(MinSpeed), fmt.Sprint(MaxSpeed),
		h.speed, MinSpeed, MaxSpeed,
	)
	y += 26

	ctl := Controls{}
	half := float32(inner-10) / 2
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: 26}, toggleText(h.paused, "Resume", "Pause")) {
		h.paused = !h.paused
	}
	if gui.Button(rl.Rectangle{X: float32(x) + half + 10, Y: float32(y), Width: half, Height: 26}, "Skip episode") {
		ctl.Skip = true
	}
	y += 36

	if data.RunID != "" {
		rl.DrawText("run "+shortID(data.RunID), x, y, 10, ColorLabelDim)
	}

	ctl.Speed = int(h.speed + 0.5)
	ctl.Paused = h.paused
	return ctl, h.y + 330
}

func toggleText(on bool, ifOn, ifOff string) string {
	if on {
		return ifOn
	}
	return ifOff
}

// shortID trims a UUID to its first group for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
