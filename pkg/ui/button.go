package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Button runs OnClick once per click or shortcut press.
type Button struct {
	Shortcut
	Label         string
	X, Y          float64
	Width, Height float64
	OnClick       func()

	BGColor    color.RGBA
	HoverColor color.RGBA
}

// NewButton creates a button with the default palette.
func NewButton(x, y, width, height float64, label string, onClick func()) *Button {
	return &Button{
		Label:      label,
		X:          x,
		Y:          y,
		Width:      width,
		Height:     height,
		OnClick:    onClick,
		BGColor:    color.RGBA{R: 40, G: 100, B: 120, A: 255},
		HoverColor: color.RGBA{R: 60, G: 140, B: 160, A: 255},
	}
}

func (b *Button) Update() {
	if b.OnClick == nil {
		return
	}
	if b.pressed() || clickedIn(b.X, b.Y, b.Width, b.Height) {
		b.OnClick()
	}
}

func (b *Button) Draw(screen *ebiten.Image) {
	bg := b.BGColor
	if cursorIn(b.X, b.Y, b.Width, b.Height) {
		bg = b.HoverColor
	}
	x, y, w, h := float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height)
	vector.FillRect(screen, x, y, w, h, bg, true)
	vector.StrokeRect(screen, x, y, w, h, 1, checkboxBorder, true)
	// DebugPrint glyphs are 16px tall
	ebitenutil.DebugPrintAt(screen, b.Label, int(b.X)+6, int(b.Y+b.Height/2)-8)
}
