package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	checkboxBorder = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	checkboxTick   = color.RGBA{R: 100, G: 200, B: 100, A: 255}
)

// Checkbox toggles a boolean setting, by click or by its shortcut key.
type Checkbox struct {
	Shortcut
	Label string
	Value bool
	X, Y  float64
	Size  float64
}

// NewCheckbox creates a 16px checkbox.
func NewCheckbox(x, y float64, label string, value bool) *Checkbox {
	return &Checkbox{Label: label, Value: value, X: x, Y: y, Size: 16}
}

func (c *Checkbox) Update() {
	if c.pressed() || clickedIn(c.X, c.Y, c.Size, c.Size) {
		c.Value = !c.Value
	}
}

func (c *Checkbox) Draw(screen *ebiten.Image) {
	x, y, s := float32(c.X), float32(c.Y), float32(c.Size)
	vector.StrokeRect(screen, x, y, s, s, 2, checkboxBorder, true)
	if c.Value {
		vector.FillRect(screen, x+3, y+3, s-6, s-6, checkboxTick, true)
	}
}
