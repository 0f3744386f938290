package main

// Surface is the pixel size of the drawing area as measured by the client.
type Surface struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a position either in surface pixels or in normalized board space,
// depending on context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Zero reports whether the surface has no measurable area yet.
func (s Surface) Zero() bool { return s.Width <= 0 || s.Height <= 0 }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClampToSurface clamps a pixel position to [0,Width] x [0,Height].
func (s Surface) ClampToSurface(p Point) Point {
	x, y := p.X, p.Y
	if x < 0 {
		x = 0
	} else if x > s.Width {
		x = s.Width
	}
	if y < 0 {
		y = 0
	} else if y > s.Height {
		y = s.Height
	}
	return Point{X: x, Y: y}
}

// Normalize converts a pixel position to normalized board coordinates.
// The vertical axis is inverted: larger y means higher on screen.
// ok is false while the surface has not been measured; callers must not
// persist a position in that case.
func (s Surface) Normalize(p Point) (Point, bool) {
	if s.Zero() {
		return Point{}, false
	}
	return Point{
		X: clamp01(p.X / s.Width),
		Y: clamp01(1 - p.Y/s.Height),
	}, true
}

// Denormalize converts normalized board coordinates back to pixels.
func (s Surface) Denormalize(n Point) Point {
	return Point{X: n.X * s.Width, Y: (1 - n.Y) * s.Height}
}
