package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flapnet/neural"
)

// Labels for the network visualization.
var (
	InputLabels  = []string{"dx gap", "dy gap"}
	OutputLabels = []string{"jump"}
)

// NetworkColors for activation visualization.
var (
	ColorNodeInactive = rl.Color{R: 60, G: 60, B: 60, A: 255}
	ColorEdgePositive = rl.Color{R: 200, G: 80, B: 80, A: 100}
	ColorEdgeNegative = rl.Color{R: 80, G: 80, B: 200, A: 100}
	ColorLabelDim     = rl.Color{R: 120, G: 120, B: 120, A: 255}
	ColorDecisionOn   = rl.Color{R: 120, G: 220, B: 120, A: 255}
)

// minEdgeWeight hides near-zero connections.
const minEdgeWeight = 0.1

// DrawNetworkDiagram renders the genome one column per layer, colored by act.
func DrawNetworkDiagram(x, y, width, height int32, g *neural.Genome, act *neural.Activations) {
	if g == nil || act == nil {
		rl.DrawText("No network data", x+10, y+10, 14, ColorLabelDim)
		return
	}

	nodes := layoutNetwork(g.Dims(), float32(x), float32(y), float32(width), float32(height))
	radius := nodeRadius(g.Dims(), float32(height))

	// Edges first so nodes draw on top
	for c, l := range g.Layers {
		rows, cols := l.W.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				w := l.W.At(i, j)
				if math.Abs(w) < minEdgeWeight {
					continue
				}
				drawEdge(nodes[c][j], nodes[c+1][i], w)
			}
		}
	}

	for c, layer := range nodes {
		for i, pos := range layer {
			var a float64
			if c < len(act.Layers) && i < len(act.Layers[c]) {
				a = act.Layers[c][i]
			}
			drawNode(pos, radius, a)
		}
	}

	for i, pos := range nodes[0] {
		if i < len(InputLabels) {
			w := rl.MeasureText(InputLabels[i], 10)
			rl.DrawText(InputLabels[i], int32(pos.X-radius)-w-4, int32(pos.Y)-5, 10, ColorLabelDim)
		}
	}

	last := nodes[len(nodes)-1]
	out := act.Output()
	for i, pos := range last {
		if i >= len(OutputLabels) {
			break
		}
		color := ColorLabelDim
		if i < len(out) && out[i] >= neural.DecisionThreshold {
			color = ColorDecisionOn
		}
		rl.DrawText(OutputLabels[i], int32(pos.X+radius+6), int32(pos.Y)-5, 10, color)
	}
}

// nodePos is a node center in screen space.
type nodePos struct {
	X, Y float32
}

// layoutNetwork places one evenly spaced column per layer inside the box.
// Each column's nodes are spread over the height and centered on it.
func layoutNetwork(dims []int, x, y, width, height float32) [][]nodePos {
	cols := float32(len(dims))
	colWidth := width / cols
	usable := height - 20

	nodes := make([][]nodePos, len(dims))
	for c, n := range dims {
		cx := x + colWidth*(float32(c)+0.5)
		spacing := usable / float32(n)
		nodes[c] = make([]nodePos, n)
		for i := range nodes[c] {
			nodes[c][i] = nodePos{X: cx, Y: y + 10 + spacing*(float32(i)+0.5)}
		}
	}
	return nodes
}

// nodeRadius shrinks nodes for wide layers so they don't overlap.
func nodeRadius(dims []int, height float32) float32 {
	widest := 1
	for _, n := range dims {
		if n > widest {
			widest = n
		}
	}
	r := (height - 20) / float32(widest) / 3
	if r > 8 {
		r = 8
	}
	if r < 2 {
		r = 2
	}
	return r
}

// drawNode renders a single neuron node.
func drawNode(pos nodePos, radius float32, activation float64) {
	v := rl.Vector2{X: pos.X, Y: pos.Y}
	rl.DrawCircleV(v, radius, activationColor(activation))
	rl.DrawCircleLinesV(v, radius, rl.Color{R: 100, G: 100, B: 100, A: 255})
}

// drawEdge renders a connection between nodes.
func drawEdge(from, to nodePos, weight float64) {
	thickness, alpha := edgeStyle(weight)
	color := ColorEdgePositive
	if weight < 0 {
		color = ColorEdgeNegative
	}
	color.A = alpha
	rl.DrawLineEx(rl.Vector2{X: from.X, Y: from.Y}, rl.Vector2{X: to.X, Y: to.Y}, thickness, color)
}

// edgeStyle maps weight magnitude to line thickness in [0.5, 3] and alpha in [40, 150].
func edgeStyle(weight float64) (float32, uint8) {
	mag := math.Abs(weight)
	thickness := float32(math.Min(math.Max(mag*1.5, 0.5), 3))
	alpha := uint8(math.Min(40+mag*40, 150))
	return thickness, alpha
}

// activationColor returns a color based on activation value.
// Negative = blue, Zero = gray, Positive = red.
func activationColor(activation float64) rl.Color {
	t := float32(math.Min(math.Abs(activation), 1))
	if activation >= 0 {
		return rl.Color{
			R: uint8(60 + t*195),
			G: uint8(60 - t*30),
			B: uint8(60 - t*30),
			A: 255,
		}
	}
	return rl.Color{
		R: uint8(60 - t*30),
		G: uint8(60 - t*30),
		B: uint8(60 + t*195),
		A: 255,
	}
}
