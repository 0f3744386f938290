package main

type dragState int

const (
	dragIdle dragState = iota
	dragPressed
	dragDragging
)

// DragSession replays a pointer gesture against an issue node. The session
// only reaches the dragging state after a pointer move is observed, which is
// what separates a drag from a plain click: a press/release pair with no
// movement must never produce a position update.
type DragSession struct {
	state   dragState
	surface Surface
	// offset between the pointer-down position and the node origin, so the
	// node does not jump under the cursor when the drag starts.
	offset Point
	pos    Point
}

// StartDrag begins a gesture. nodePx is the node's current pixel position,
// pointerPx the pointer-down position.
func StartDrag(surface Surface, nodePx, pointerPx Point) *DragSession {
	return &DragSession{
		state:   dragPressed,
		surface: surface,
		offset:  Point{X: pointerPx.X - nodePx.X, Y: pointerPx.Y - nodePx.Y},
		pos:     nodePx,
	}
}

// Move feeds a pointer-move event and returns the node's new pixel position,
// clamped to the surface.
func (d *DragSession) Move(pointerPx Point) Point {
	if d.state == dragIdle {
		return d.pos
	}
	d.state = dragDragging
	d.pos = d.surface.ClampToSurface(Point{X: pointerPx.X - d.offset.X, Y: pointerPx.Y - d.offset.Y})
	return d.pos
}

// Dragging reports whether movement has been observed since pointer-down.
func (d *DragSession) Dragging() bool { return d.state == dragDragging }

// End finishes the gesture. moved is false for a plain click, or when the
// surface had no measurable size; in either case norm is meaningless and no
// position write may happen.
func (d *DragSession) End() (norm Point, moved bool) {
	wasDragging := d.state == dragDragging
	d.state = dragIdle
	if !wasDragging {
		return Point{}, false
	}
	n, ok := d.surface.Normalize(d.pos)
	if !ok {
		return Point{}, false
	}
	return n, true
}
