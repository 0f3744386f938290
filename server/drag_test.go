package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClickWithoutMovementDoesNotMove(t *testing.T) {
	s := Surface{Width: 800, Height: 600}
	sess := StartDrag(s, Point{X: 400, Y: 300}, Point{X: 405, Y: 295})
	// press and release, no pointer-move in between
	_, moved := sess.End()
	assert.False(t, moved)
}

func TestDragPreservesGrabOffset(t *testing.T) {
	s := Surface{Width: 800, Height: 600}
	// node at (100,100), grabbed at (105,95)
	sess := StartDrag(s, Point{X: 100, Y: 100}, Point{X: 105, Y: 95})
	pos := sess.Move(Point{X: 205, Y: 195})
	assert.Equal(t, Point{X: 200, Y: 200}, pos)

	norm, moved := sess.End()
	require.True(t, moved)
	assert.InDelta(t, 0.25, norm.X, 1e-9)
	assert.InDelta(t, 1-200.0/600.0, norm.Y, 1e-9)
}

func TestDragClampsToSurface(t *testing.T) {
	s := Surface{Width: 100, Height: 100}
	sess := StartDrag(s, Point{X: 50, Y: 50}, Point{X: 50, Y: 50})
	pos := sess.Move(Point{X: 500, Y: -40})
	assert.Equal(t, Point{X: 100, Y: 0}, pos)

	norm, moved := sess.End()
	require.True(t, moved)
	assert.Equal(t, 1.0, norm.X)
	assert.Equal(t, 1.0, norm.Y)
}

func TestDragReturnToStartStillCountsAsDrag(t *testing.T) {
	// moving away and back writes the (unchanged) position; only a gesture
	// with no movement at all is a click
	s := Surface{Width: 100, Height: 100}
	sess := StartDrag(s, Point{X: 50, Y: 50}, Point{X: 50, Y: 50})
	sess.Move(Point{X: 60, Y: 60})
	sess.Move(Point{X: 50, Y: 50})
	norm, moved := sess.End()
	require.True(t, moved)
	assert.InDelta(t, 0.5, norm.X, 1e-9)
	assert.InDelta(t, 0.5, norm.Y, 1e-9)
}

func TestDragOnUnmeasuredSurface(t *testing.T) {
	sess := StartDrag(Surface{}, Point{}, Point{X: 3, Y: 4})
	sess.Move(Point{X: 10, Y: 10})
	_, moved := sess.End()
	assert.False(t, moved, "zero-size surface must never produce a position")
}

func TestDraggingFlag(t *testing.T) {
	s := Surface{Width: 10, Height: 10}
	sess := StartDrag(s, Point{X: 5, Y: 5}, Point{X: 5, Y: 5})
	assert.False(t, sess.Dragging())
	sess.Move(Point{X: 6, Y: 5})
	assert.True(t, sess.Dragging())
	_, _ = sess.End()
	assert.False(t, sess.Dragging())
}
