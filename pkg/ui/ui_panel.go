package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight   = 30.0
	sectionHeight = 25.0
	scrollStep    = 20.0
)

// Widget is implemented by everything a Panel can hold.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	// Height is the vertical space the widget takes in the panel, label included.
	Height() float64
	// MoveTo places the widget's top edge, used when the panel scrolls.
	MoveTo(y float64)
}

type sliderWidget struct{ *Slider }

func (s sliderWidget) Height() float64  { return s.H + 25 }
func (s sliderWidget) MoveTo(y float64) { s.Y = y }

type checkboxWidget struct{ *Checkbox }

func (c checkboxWidget) Height() float64  { return c.Size + 5 }
func (c checkboxWidget) MoveTo(y float64) { c.Y = y }

type buttonWidget struct{ *Button }

func (b buttonWidget) Height() float64  { return b.Button.Height + 8 }
func (b buttonWidget) MoveTo(y float64) { b.Y = y - 15 }

type section struct {
	title      string
	start, end int
}

// Panel is a scrollable column of widgets grouped in titled sections.
type Panel struct {
	Title         string
	X, Y          float64
	Width, Height float64
	ScrollOffset  float64

	BGColor     color.RGBA
	BorderColor color.RGBA

	widgets  []Widget
	labels   []string
	sections []section
}

// NewPanel creates an empty panel.
func NewPanel(title string, x, y, width, height float64) *Panel {
	return &Panel{
		Title:       title,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		BGColor:     color.RGBA{R: 20, G: 40, B: 50, A: 220},
		BorderColor: color.RGBA{R: 90, G: 130, B: 140, A: 255},
	}
}

// Contains reports whether a screen point is over the panel, so clicks there
// are not handled by the scene underneath.
func (p *Panel) Contains(x, y int) bool {
	fx, fy := float64(x), float64(y)
	return fx >= p.X && fx <= p.X+p.Width && fy >= p.Y && fy <= p.Y+p.Height
}

// AddSection starts a new section; widgets added afterwards belong to it.
func (p *Panel) AddSection(title string) {
	p.EndSection()
	p.sections = append(p.sections, section{title: title, start: len(p.widgets), end: -1})
}

// EndSection closes the open section, if any.
func (p *Panel) EndSection() {
	if n := len(p.sections); n > 0 && p.sections[n-1].end < 0 {
		p.sections[n-1].end = len(p.widgets)
	}
}

// AddSlider appends a slider to the open section.
func (p *Panel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(p.X+10, p.Y+p.contentHeight()+15, p.Width-20, label, min, max, value)
	p.add(label, sliderWidget{s})
	return s
}

// AddCheckbox appends a checkbox to the open section.
func (p *Panel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(p.Width-30+p.X, p.Y+p.contentHeight()+15, label, value)
	p.add(label, checkboxWidget{c})
	return c
}

// AddButton appends a full-width button to the open section.
func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+10, p.Y+p.contentHeight(), p.Width-20, 20, label, onClick)
	p.add("", buttonWidget{b})
	return b
}

func (p *Panel) add(label string, w Widget) {
	p.widgets = append(p.widgets, w)
	p.labels = append(p.labels, label)
}

func (p *Panel) contentHeight() float64 {
	h := titleHeight + float64(len(p.sections))*sectionHeight
	for _, w := range p.widgets {
		h += w.Height()
	}
	return h
}

// Update scrolls the panel when the wheel turns over it and forwards input to the widgets.
func (p *Panel) Update() {
	if _, dy := ebiten.Wheel(); dy != 0 && p.Contains(ebiten.CursorPosition()) {
		maxScroll := max(0, p.contentHeight()-p.Height+10)
		p.ScrollOffset = min(maxScroll, max(0, p.ScrollOffset-dy*scrollStep))
	}
	for _, w := range p.widgets {
		w.Update()
	}
}

func (p *Panel) visible(y float64) bool {
	return y >= p.Y+titleHeight-10 && y <= p.Y+p.Height-10
}

// Draw renders the background, the section headers and every visible widget.
func (p *Panel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), p.BGColor, true)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), 2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+8))

	y := p.Y + titleHeight - p.ScrollOffset
	for _, s := range p.sections {
		if p.visible(y) {
			vector.FillRect(screen, float32(p.X+5), float32(y), float32(p.Width-10), 20, color.RGBA{R: 40, G: 70, B: 80, A: 255}, true)
			ebitenutil.DebugPrintAt(screen, s.title, int(p.X+10), int(y+3))
		}
		y += sectionHeight

		end := s.end
		if end < 0 {
			end = len(p.widgets)
		}
		for i := s.start; i < end; i++ {
			w := p.widgets[i]
			// widgets hidden by the scroll are parked off-screen so they ignore clicks
			if !p.visible(y) {
				w.MoveTo(-1000)
				y += w.Height()
				continue
			}
			if p.labels[i] != "" {
				ebitenutil.DebugPrintAt(screen, p.labels[i], int(p.X+10), int(y))
			}
			w.MoveTo(y + 15)
			w.Draw(screen)
			y += w.Height()
		}
	}
}
