package geometry

import "fmt"

// Rect is an axis-aligned rectangle described by its top-left corner and size.
type Rect struct {
	Position Vector2D `json:"position" yaml:"position"`
	Size     Vector2D `json:"size" yaml:"size"`
}

// NewRect builds a rectangle from its top-left corner and dimensions.
func NewRect(x, y, width, height float64) Rect {
	return Rect{Position: Vector2D{X: x, Y: y}, Size: Vector2D{X: width, Y: height}}
}

// RectFromCenter builds a rectangle of the given size centred on center.
// This is how area shapes are usually authored: a node position plus an extent.
func RectFromCenter(center, size Vector2D) Rect {
	return Rect{Position: center.Sub(size.Mul(0.5)), Size: size}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%s %gx%g]", r.Position, r.Size.X, r.Size.Y)
}

// Min is the top-left corner.
func (r Rect) Min() Vector2D { return r.Position }

// Max is the bottom-right corner.
func (r Rect) Max() Vector2D { return r.Position.Add(r.Size) }

// Center is the middle of the rectangle.
func (r Rect) Center() Vector2D { return r.Position.Add(r.Size.Mul(0.5)) }

// HasPoint reports whether p lies inside the rectangle.
// The min edges are inclusive and the max edges exclusive.
func (r Rect) HasPoint(p Vector2D) bool {
	maxP := r.Max()
	return p.X >= r.Position.X && p.Y >= r.Position.Y && p.X < maxP.X && p.Y < maxP.Y
}

// Shrink returns the rectangle reduced by margin on every side.
// The size never goes below zero; a fully collapsed rect keeps the same center.
func (r Rect) Shrink(margin float64) Rect {
	size := Vector2D{
		X: max(0, r.Size.X-2*margin),
		Y: max(0, r.Size.Y-2*margin),
	}
	return RectFromCenter(r.Center(), size)
}

// Clamp returns the point of the rectangle closest to p.
func (r Rect) Clamp(p Vector2D) Vector2D {
	maxP := r.Max()
	return Vector2D{
		X: Clamp(p.X, r.Position.X, maxP.X),
		Y: Clamp(p.Y, r.Position.Y, maxP.Y),
	}
}

// Intersects reports whether two rectangles overlap with a non-empty area.
func (r Rect) Intersects(other Rect) bool {
	rMax, oMax := r.Max(), other.Max()
	return r.Position.X < oMax.X && other.Position.X < rMax.X &&
		r.Position.Y < oMax.Y && other.Position.Y < rMax.Y
}
