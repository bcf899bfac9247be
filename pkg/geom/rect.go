// Package geom provides the rectangle type shared by the remapping engine.
//
// All coordinates live in a single space with the origin at the top-left
// corner and y growing downward.
package geom

import "math"

// Rect is an axis-aligned rectangle. W and H are never negative for a
// well-formed rectangle.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CenterX returns the horizontal center point of the rectangle.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical center point of the rectangle.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Finite reports whether every component is a finite number.
func (r Rect) Finite() bool {
	return Finite(r.X, r.Y, r.W, r.H)
}

// Finite reports whether every value is neither NaN nor infinite.
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Degenerate reports whether the rectangle cannot serve as a coordinate
// frame: zero or negative extent, or non-finite components.
func (r Rect) Degenerate() bool {
	return !r.Finite() || r.W <= 0 || r.H <= 0
}

// ScaleAboutCenter multiplies width and height by s while keeping the
// center point fixed.
func (r Rect) ScaleAboutCenter(s float64) Rect {
	w, h := r.W*s, r.H*s
	return Rect{
		X: r.X + (r.W-w)/2,
		Y: r.Y + (r.H-h)/2,
		W: w,
		H: h,
	}
}

// Translate returns the rectangle shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Overlaps reports whether r and o share interior area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}
