package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Shortcut binds an optional key that acts like a click on a widget.
type Shortcut struct {
	key   ebiten.Key
	bound bool
}

// Bind sets the key.
func (s *Shortcut) Bind(key ebiten.Key) { s.key, s.bound = key, true }

func (s Shortcut) pressed() bool { return s.bound && inpututil.IsKeyJustPressed(s.key) }

// cursorIn reports whether the mouse is over the given box.
func cursorIn(x, y, w, h float64) bool {
	mx, my := ebiten.CursorPosition()
	return float64(mx) >= x && float64(mx) <= x+w && float64(my) >= y && float64(my) <= y+h
}

// clickedIn reports a left press that started this frame over the given box.
func clickedIn(x, y, w, h float64) bool {
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && cursorIn(x, y, w, h)
}
