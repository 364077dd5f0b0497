package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Built-in fish, all facing right. They are used when no sprite file could be loaded.
var fishDesigns = []struct {
	design  []string
	palette map[rune]color.RGBA
}{
	{
		// small and quick
		design: []string{
			"..........",
			"S...OOO...",
			"SS.OOOOOW.",
			".SOOOOOOOK",
			"SS.OOOOOO.",
			"S...OOO...",
		},
		palette: map[rune]color.RGBA{
			'O': {R: 250, G: 150, B: 40, A: 255},
			'S': {R: 220, G: 110, B: 30, A: 255},
			'W': {R: 255, G: 255, B: 255, A: 255},
			'K': {R: 30, G: 30, B: 30, A: 255},
		},
	},
	{
		design: []string{
			"....GGGG.......",
			"T.GGYYYYGG.....",
			"TTGYYYYYYYGW...",
			".TYYYYYYYYYYGK.",
			"TTGYYYYYYYYG...",
			"T.GGYYYYYGG....",
			"....GGGG.......",
		},
		palette: map[rune]color.RGBA{
			'G': {R: 170, G: 140, B: 60, A: 255},
			'Y': {R: 210, G: 190, B: 110, A: 255},
			'T': {R: 140, G: 110, B: 50, A: 255},
			'W': {R: 255, G: 255, B: 255, A: 255},
			'K': {R: 30, G: 30, B: 30, A: 255},
		},
	},
	{
		// long and heavy
		design: []string{
			"......DDDD..........",
			"F...DDGGGGGGDD......",
			"FF.DGGLLGGLLGGGDW...",
			".FFGGGGGGGGGGGGGGGK.",
			"FF.DGGLLGGLLGGGGD...",
			"F...DDGGGGGGDD......",
			"......DDDD..........",
		},
		palette: map[rune]color.RGBA{
			'D': {R: 40, G: 90, B: 50, A: 255},
			'G': {R: 80, G: 140, B: 80, A: 255},
			'L': {R: 170, G: 200, B: 120, A: 255},
			'F': {R: 50, G: 100, B: 60, A: 255},
			'W': {R: 255, G: 255, B: 255, A: 255},
			'K': {R: 20, G: 20, B: 20, A: 255},
		},
	},
}

// builtinFish returns the fallback image for a unit kind.
func builtinFish(kind int) *ebiten.Image {
	d := fishDesigns[((kind%len(fishDesigns))+len(fishDesigns))%len(fishDesigns)]
	return generateSprite(d.design, d.palette)
}

// generateSprite converts an ASCII grid into an Ebiten image
func generateSprite(design []string, palette map[rune]color.RGBA) *ebiten.Image {
	w := 0
	for _, row := range design {
		w = max(w, len(row))
	}
	img := ebiten.NewImage(w, len(design))
	for y, row := range design {
		for x, char := range row {
			if col, ok := palette[char]; ok {
				img.Set(x, y, col)
			}
		}
	}
	return img
}
