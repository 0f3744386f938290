package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDenormalizeRoundTrip(t *testing.T) {
	surfaces := []Surface{
		{Width: 800, Height: 600},
		{Width: 1920, Height: 1080},
		{Width: 333, Height: 777},
	}
	points := []Point{
		{X: 0, Y: 0},
		{X: 1, Y: 1},
		{X: 400, Y: 300},
		{X: 799, Y: 1},
		{X: 123.5, Y: 456.25},
	}
	for _, s := range surfaces {
		for _, p := range points {
			if p.X > s.Width || p.Y > s.Height {
				continue
			}
			n, ok := s.Normalize(p)
			require.True(t, ok)
			back := s.Denormalize(n)
			assert.InDelta(t, p.X, back.X, 1e-9)
			assert.InDelta(t, p.Y, back.Y, 1e-9)
		}
	}
}

func TestNormalizeInvertsVerticalAxis(t *testing.T) {
	s := Surface{Width: 100, Height: 100}

	// top of the screen is the important end: y -> 1
	n, ok := s.Normalize(Point{X: 50, Y: 0})
	require.True(t, ok)
	assert.InDelta(t, 0.5, n.X, 1e-9)
	assert.InDelta(t, 1.0, n.Y, 1e-9)

	n, ok = s.Normalize(Point{X: 0, Y: 100})
	require.True(t, ok)
	assert.InDelta(t, 0.0, n.X, 1e-9)
	assert.InDelta(t, 0.0, n.Y, 1e-9)
}

func TestNormalizeClampsOutOfRange(t *testing.T) {
	s := Surface{Width: 100, Height: 100}
	n, ok := s.Normalize(Point{X: -50, Y: 250})
	require.True(t, ok)
	assert.Equal(t, 0.0, n.X)
	assert.Equal(t, 0.0, n.Y)

	n, ok = s.Normalize(Point{X: 500, Y: -10})
	require.True(t, ok)
	assert.Equal(t, 1.0, n.X)
	assert.Equal(t, 1.0, n.Y)
}

func TestNormalizeZeroSurface(t *testing.T) {
	for _, s := range []Surface{{}, {Width: 100}, {Height: 100}, {Width: -1, Height: 50}} {
		_, ok := s.Normalize(Point{X: 10, Y: 10})
		assert.False(t, ok, "surface %+v should not normalize", s)
	}
}

func TestClampToSurface(t *testing.T) {
	s := Surface{Width: 200, Height: 100}
	assert.Equal(t, Point{X: 0, Y: 0}, s.ClampToSurface(Point{X: -5, Y: -5}))
	assert.Equal(t, Point{X: 200, Y: 100}, s.ClampToSurface(Point{X: 300, Y: 150}))
	assert.Equal(t, Point{X: 20, Y: 30}, s.ClampToSurface(Point{X: 20, Y: 30}))
}
