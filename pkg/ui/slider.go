package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider is a horizontal bar the user drags to pick a value in [Min, Max].
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	X, Y     float64
	W, H     float64
	Format   string // printf verb used to show the value, "%.2f" by default

	changed bool
}

// NewSlider creates a slider of the default height.
func NewSlider(x, y, w float64, label string, min, max, value float64) *Slider {
	return &Slider{
		Label:  label,
		Value:  value,
		Min:    min,
		Max:    max,
		X:      x,
		Y:      y,
		W:      w,
		H:      12,
		Format: "%.2f",
	}
}

// Changed reports whether the user moved the slider since the last call.
func (s *Slider) Changed() bool {
	c := s.changed
	s.changed = false
	return c
}

// Update checks for mouse interaction
func (s *Slider) Update() {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) || !cursorIn(s.X, s.Y, s.W, s.H) {
		return
	}
	mx, _ := ebiten.CursorPosition()
	p := (float64(mx) - s.X) / s.W
	v := min(s.Max, max(s.Min, s.Min+p*(s.Max-s.Min)))
	if v != s.Value {
		s.Value = v
		s.changed = true
	}
}

// Draw renders the slider
func (s *Slider) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)

	ratio := 0.0
	if s.Max > s.Min {
		ratio = (s.Value - s.Min) / (s.Max - s.Min)
	}
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H), color.RGBA{R: 90, G: 170, B: 220, A: 255}, true)

	text := fmt.Sprintf(s.Format, s.Value)
	// DebugPrint glyphs are 6px wide
	ebitenutil.DebugPrintAt(screen, text, int(s.X+s.W)-6*len(text), int(s.Y)-15)
}
