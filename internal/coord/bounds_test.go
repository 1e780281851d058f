package coord

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBounds_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		lx, ux float64
		ly, uy float64
		center Coordinate
	}{
		{"lowerX > upperX", 10, 0, 0, 10, nil},
		{"lowerY > upperY", 0, 10, 10, 0, nil},
		{"NaN limit", math.NaN(), 10, 0, 10, nil},
		{"3d center", 0, 10, 0, 10, Coordinate{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBoundsWithCenter(tt.lx, tt.ux, tt.ly, tt.uy, tt.center)
			assert.ErrorIs(t, err, ErrInvalidBounds)
		})
	}
}

func TestBounds_Corners(t *testing.T) {
	b, err := NewBounds(2_420_000, 2_900_000, 1_030_000, 1_350_000)
	require.NoError(t, err)

	assert.Equal(t, Coordinate{2_420_000, 1_030_000}, b.BottomLeft())
	assert.Equal(t, Coordinate{2_900_000, 1_030_000}, b.BottomRight())
	assert.Equal(t, Coordinate{2_420_000, 1_350_000}, b.TopLeft())
	assert.Equal(t, Coordinate{2_900_000, 1_350_000}, b.TopRight())
	assert.Equal(t, Coordinate{2_660_000, 1_190_000}, b.Center())
	assert.Equal(t, 480_000.0, b.Width())
	assert.Equal(t, 320_000.0, b.Height())
	assert.Equal(t, Extent{2_420_000, 1_030_000, 2_900_000, 1_350_000}, b.Flatten())

	_, ok := b.CustomCenter()
	assert.False(t, ok)
}

func TestBounds_CustomCenter(t *testing.T) {
	b, err := NewBoundsWithCenter(0, 10, 0, 10, Coordinate{2, 3})
	require.NoError(t, err)
	assert.Equal(t, Coordinate{2, 3}, b.Center())

	// The returned center is a copy.
	c, ok := b.CustomCenter()
	require.True(t, ok)
	c[0] = 99
	assert.Equal(t, Coordinate{2, 3}, b.Center())
}

func TestBounds_IsInBounds(t *testing.T) {
	b, err := NewBounds(2_420_000, 2_900_000, 1_030_000, 1_350_000)
	require.NoError(t, err)

	for _, c := range []Coordinate{b.Center(), b.BottomLeft(), b.TopRight(), b.TopLeft()} {
		assert.True(t, b.IsInBounds(c[0], c[1]), "%v", c)
	}
	far := b.Center()
	assert.False(t, b.IsInBounds(far[0]+2*b.Width(), far[1]))
	assert.False(t, b.IsInBounds(far[0], far[1]-2*b.Height()))
}

func TestBounds_Polygon(t *testing.T) {
	b, err := NewBounds(0, 10, 0, 5)
	require.NoError(t, err)
	poly := b.Polygon()
	require.Len(t, poly, 1)
	require.Len(t, poly[0], 5)
	assert.Equal(t, poly[0][0], poly[0][4])
	assert.Equal(t, b.Bound(), poly.Bound())
}
