package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placedAt(t *testing.T, x, y, z float64) Transform {
	t.Helper()
	tr, err := FromPose([]float64{x, y, z, 0, 0, 0, 1})
	require.NoError(t, err)
	return tr
}

func TestNewGeometry(t *testing.T) {
	g, err := NewGeometry("sphere", 0.5)
	require.NoError(t, err)
	assert.Equal(t, "sphere", g.Kind())
	assert.Equal(t, 0.5, g.BoundingRadius())

	_, err = NewGeometry("sphere", -1)
	assert.Error(t, err)

	_, err = NewGeometry("pyramid", 1)
	assert.Error(t, err)

	_, err = NewGeometry("box", 1, 2)
	assert.Error(t, err)
}

func TestSphereSphereCollision(t *testing.T) {
	a := Sphere{Radius: 1}
	b := Sphere{Radius: 1}

	assert.True(t, Collide(a, placedAt(t, 0, 0, 0), b, placedAt(t, 1.5, 0, 0)))
	assert.False(t, Collide(a, placedAt(t, 0, 0, 0), b, placedAt(t, 2.5, 0, 0)))
}

func TestSphereBoxCollision(t *testing.T) {
	s := Sphere{Radius: 0.5}
	b := Box{X: 2, Y: 2, Z: 2}

	// Sphere just touching the box face at x = 1
	assert.True(t, Collide(s, placedAt(t, 1.4, 0, 0), b, placedAt(t, 0, 0, 0)))
	assert.False(t, Collide(s, placedAt(t, 1.6, 0, 0), b, placedAt(t, 0, 0, 0)))

	// Corner case: sphere near the box corner
	assert.False(t, Collide(s, placedAt(t, 1.4, 1.4, 1.4), b, placedAt(t, 0, 0, 0)))

	// Argument order must not matter
	assert.True(t, Collide(b, placedAt(t, 0, 0, 0), s, placedAt(t, 1.4, 0, 0)))
}

func TestBoxBoxBoundingSphereFallback(t *testing.T) {
	a := Box{X: 1, Y: 1, Z: 1}
	b := Box{X: 1, Y: 1, Z: 1}

	// Bounding radius is sqrt(3)/2 = 0.866; conservative overlap
	assert.True(t, Collide(a, placedAt(t, 0, 0, 0), b, placedAt(t, 1.5, 0, 0)))
	assert.False(t, Collide(a, placedAt(t, 0, 0, 0), b, placedAt(t, 2, 0, 0)))
}

func TestCylinderBoundingRadius(t *testing.T) {
	c := Cylinder{Radius: 3, Length: 8}
	assert.InDelta(t, 5.0, c.BoundingRadius(), 1e-12)
}
