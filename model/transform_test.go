package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestFromPoseRoundTrip(t *testing.T) {
	pose := []float64{1, 2, 3, 0, 0, 0, 1}
	tr, err := FromPose(pose)
	require.NoError(t, err)

	got := tr.Pose()
	assert.InDeltaSlice(t, pose, got, 1e-12)
}

func TestFromPoseNormalizes(t *testing.T) {
	// Non-unit quaternion: 2x the identity
	tr, err := FromPose([]float64{0, 0, 0, 0, 0, 0, 2})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, tr.Rotation.Real, 1e-12)
}

func TestFromPoseRejectsBadInput(t *testing.T) {
	_, err := FromPose([]float64{1, 2, 3})
	assert.Error(t, err)

	_, err = FromPose([]float64{0, 0, 0, 0, 0, 0, 0})
	assert.Error(t, err)
}

func TestTransformCompose(t *testing.T) {
	// Rotate 90 degrees about z, then translate along the rotated x axis
	rot := Transform{Rotation: RotZ(math.Pi / 2)}
	trans, err := FromPose([]float64{1, 0, 0, 0, 0, 0, 1})
	require.NoError(t, err)

	combined := rot.Mul(trans)
	p := combined.TransformPoint(r3.Vec{})
	assert.InDelta(t, 0, p.X, 1e-12)
	assert.InDelta(t, 1, p.Y, 1e-12)
	assert.InDelta(t, 0, p.Z, 1e-12)
}

func TestTransformInverse(t *testing.T) {
	tr, err := FromPose([]float64{1, -2, 0.5, 0, 0, math.Sqrt2 / 2, math.Sqrt2 / 2})
	require.NoError(t, err)

	roundTrip := tr.Mul(tr.Inverse())
	p := roundTrip.TransformPoint(r3.Vec{X: 3, Y: 4, Z: 5})
	assert.InDelta(t, 3, p.X, 1e-12)
	assert.InDelta(t, 4, p.Y, 1e-12)
	assert.InDelta(t, 5, p.Z, 1e-12)
}

func TestAngleTo(t *testing.T) {
	a := Identity()
	b := Transform{Rotation: RotZ(math.Pi / 3)}
	assert.InDelta(t, math.Pi/3, a.AngleTo(b), 1e-12)
	assert.InDelta(t, 0, a.AngleTo(a), 1e-9)
}
