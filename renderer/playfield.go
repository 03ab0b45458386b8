package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flapnet/camera"
	"github.com/pthm-cable/flapnet/components"
	"github.com/pthm-cable/flapnet/scene"
)

// groundHeight is the strip drawn below the playfield.
const groundHeight = 6

// DrawPlayfield draws pipes and agents from the scene through the camera.
// Dead agents are not drawn; the leader gets an outline.
func DrawPlayfield(sc *scene.Scene, cam *camera.Camera, theme Theme) {
	x0, y0 := cam.WorldToScreen(0, 0)
	x1, y1 := cam.WorldToScreen(cam.WorldW, cam.WorldH)
	rl.DrawRectangleRec(rl.Rectangle{X: x0, Y: y1, Width: x1 - x0, Height: cam.Scale(groundHeight)}, theme.Ground)

	rl.BeginScissorMode(int32(cam.OffsetX), int32(cam.OffsetY), int32(cam.ViewportW), int32(cam.ViewportH))
	defer rl.EndScissorMode()

	rl.DrawRectangleRec(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, theme.Background)

	sc.EachPipe(func(p components.Pipe) {
		if !cam.IsVisible(float32(p.CenterX()), cam.WorldH/2, float32(p.Width/2)+cam.WorldH) {
			return
		}
		drawPipe(p, cam, theme)
	})

	leader := sc.Info().Leader
	sc.EachAgent(func(pos components.Position, body components.Body, vit components.Vitality, ag components.Agent) {
		if !vit.Alive || !cam.IsVisible(float32(pos.X), float32(pos.Y), float32(body.Radius)) {
			return
		}
		sx, sy := cam.WorldToScreen(float32(pos.X), float32(pos.Y))
		r := cam.Scale(float32(body.Radius))

		color := theme.Agent
		if ag.Elite {
			color = theme.AgentElite
		}
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, r, color)
		if ag.Index == leader {
			rl.DrawCircleLinesV(rl.Vector2{X: sx, Y: sy}, r+2, theme.AgentLeader)
		}
	})
}

// drawPipe draws the upper and lower segments of a pipe.
func drawPipe(p components.Pipe, cam *camera.Camera, theme Theme) {
	for _, seg := range pipeSegments(p, cam.WorldH) {
		sx, sy := cam.WorldToScreen(float32(seg.X), float32(seg.Y))
		rect := rl.Rectangle{X: sx, Y: sy, Width: cam.Scale(float32(seg.W)), Height: cam.Scale(float32(seg.H))}
		rl.DrawRectangleRec(rect, theme.PipeFill)
		rl.DrawRectangleLinesEx(rect, 2, theme.PipeEdge)
	}
}

// segment is an axis-aligned rectangle in world space.
type segment struct {
	X, Y, W, H float64
}

// pipeSegments returns the upper and lower solid parts of p on a playfield
// of the given height. Empty parts are omitted.
func pipeSegments(p components.Pipe, height float32) []segment {
	segs := make([]segment, 0, 2)
	if top := p.GapTop(); top > 0 {
		segs = append(segs, segment{X: p.X, Y: 0, W: p.Width, H: top})
	}
	if bottom := p.GapBottom(); bottom < float64(height) {
		segs = append(segs, segment{X: p.X, Y: bottom, W: p.Width, H: float64(height) - bottom})
	}
	return segs
}
