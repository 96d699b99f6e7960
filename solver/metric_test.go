package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/model"
)

var identityPose = []float64{0, 0, 0, 0, 0, 0, 1}

// newPlanarRobot builds a planar robot with a small spherical body
func newPlanarRobot(t *testing.T) *model.Device {
	t.Helper()

	d := model.NewDevice("test")
	root, err := d.AppendJoint("", "root_joint", model.JointPlanar, identityPose)
	require.NoError(t, err)
	require.NoError(t, root.SetBounds([][2]float64{{-2, 2}, {-2, 2}}))

	sphere, err := model.NewGeometry("sphere", 0.1)
	require.NoError(t, err)
	require.NoError(t, root.Body.AddObject(&model.Object{
		Name:     "body_sphere",
		Geometry: sphere,
		Position: model.Identity(),
	}))

	return d
}

func TestWeightedDistancePlanar(t *testing.T) {
	d := newPlanarRobot(t)
	dist := NewWeightedDistance(d)

	// Pure translation: euclidean distance in the plane
	v, err := dist.Value([]float64{0, 0, 1, 0}, []float64{3, 4, 1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 5, v, 1e-12)

	// Pure rotation: the angle between the orientations
	v, err = dist.Value([]float64{0, 0, 1, 0}, []float64{0, 0, 0, 1})
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, v, 1e-12)

	// Symmetric
	a := []float64{0.3, -0.2, 1, 0}
	b := []float64{-0.5, 0.7, 0, 1}
	ab, err := dist.Value(a, b)
	require.NoError(t, err)
	ba, err := dist.Value(b, a)
	require.NoError(t, err)
	assert.InDelta(t, ab, ba, 1e-12)
}

func TestWeightedDistanceWeights(t *testing.T) {
	d := newPlanarRobot(t)
	dist := NewWeightedDistance(d)
	dist.Weights["root_joint"] = 2

	v, err := dist.Value([]float64{0, 0, 1, 0}, []float64{3, 4, 1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 10, v, 1e-12)
}

func TestWeightedDistanceRevolute(t *testing.T) {
	d := model.NewDevice("arm")
	_, err := d.AppendJoint("", "shoulder", model.JointRevolute, identityPose)
	require.NoError(t, err)
	dist := NewWeightedDistance(d)

	v, err := dist.Value([]float64{0.1}, []float64{0.6})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, v, 1e-12)
}

func TestInterpolateNormalizesRotation(t *testing.T) {
	d := newPlanarRobot(t)

	// Halfway between 0 and 90 degrees the raw lerp of (cos, sin) is not
	// unit length; interpolation must renormalize it
	q, err := Interpolate(d, []float64{0, 0, 1, 0}, []float64{0, 0, 0, 1}, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, math.Hypot(q[2], q[3]), 1e-12)
	assert.InDelta(t, math.Sqrt2/2, q[2], 1e-12)
	assert.InDelta(t, math.Sqrt2/2, q[3], 1e-12)
}

func TestInterpolateEndpoints(t *testing.T) {
	d := newPlanarRobot(t)
	a := []float64{0, 0, 1, 0}
	b := []float64{1, 1, 0, 1}

	q, err := Interpolate(d, a, b, 0)
	require.NoError(t, err)
	assert.Equal(t, a, q)

	q, err = Interpolate(d, a, b, 1)
	require.NoError(t, err)
	assert.Equal(t, b, q)
}
