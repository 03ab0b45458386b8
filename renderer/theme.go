// Package renderer draws the training run with raylib: the playfield, the HUD
// and the leading agent's network.
package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Theme holds UI styling constants.
type Theme struct {
	Background     rl.Color
	Ground         rl.Color
	PipeFill       rl.Color
	PipeEdge       rl.Color
	Agent          rl.Color
	AgentElite     rl.Color
	AgentLeader    rl.Color
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		Background:     rl.Color{R: 112, G: 197, B: 206, A: 255},
		Ground:         rl.Color{R: 222, G: 216, B: 149, A: 255},
		PipeFill:       rl.Color{R: 115, G: 191, B: 46, A: 255},
		PipeEdge:       rl.Color{R: 84, G: 56, B: 71, A: 255},
		Agent:          rl.Color{R: 250, G: 200, B: 40, A: 160},
		AgentElite:     rl.Color{R: 240, G: 90, B: 40, A: 220},
		AgentLeader:    rl.White,
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		Padding:        10,
		LineHeight:     18,
		LabelWidth:     90,
		BarHeight:      12,
		FontSize:       14,
		HeaderFontSize: 16,
	}
}

// DrawPanel draws a panel background with border.
func (t Theme) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, t.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, t.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (t Theme) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, t.HeaderFontSize, t.SectionHeader)
	return y + t.LineHeight + 2
}

// DrawLabelValue draws a label and value on the same line and returns the new Y position.
func (t Theme) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, t.FontSize, t.LabelColor)
	rl.DrawText(value, x+t.LabelWidth, y, t.FontSize, t.ValueColor)
	return y + t.LineHeight
}

// DrawBar draws a progress bar for [0, 1] values and returns the new Y position.
func (t Theme) DrawBar(x, y int32, label string, value float32, width int32) int32 {
	value = clamp01(value)

	barX := x + t.LabelWidth
	barWidth := width - t.LabelWidth - 50

	rl.DrawText(label+":", x, y, t.FontSize, t.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, t.BarHeight, t.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*value), t.BarHeight, t.BarFill)
	rl.DrawText(fmt.Sprintf("%.0f%%", value*100), barX+barWidth+5, y, t.FontSize, t.ValueColor)

	return y + t.LineHeight + 2
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
