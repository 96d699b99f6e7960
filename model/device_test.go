package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var identityPose = []float64{0, 0, 0, 0, 0, 0, 1}

func TestAppendJoint(t *testing.T) {
	d := NewDevice("test")

	root, err := d.AppendJoint("", "root_joint", JointPlanar, identityPose)
	require.NoError(t, err)
	assert.Equal(t, root, d.RootJoint())
	assert.Equal(t, 4, d.ConfigSize())

	_, err = d.AppendJoint("root_joint", "arm", JointRevolute, []float64{0, 0, 1, 0, 0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, 5, d.ConfigSize())
	assert.Equal(t, []string{"root_joint", "arm"}, d.JointNames())

	arm, err := d.Joint("arm")
	require.NoError(t, err)
	assert.Equal(t, 4, arm.RankInConfig())
}

func TestAppendJointErrors(t *testing.T) {
	d := NewDevice("test")
	_, err := d.AppendJoint("", "root_joint", JointPlanar, identityPose)
	require.NoError(t, err)

	_, err = d.AppendJoint("", "second_root", JointAnchor, identityPose)
	assert.Error(t, err, "second root must be rejected")

	_, err = d.AppendJoint("root_joint", "root_joint", JointRevolute, identityPose)
	assert.Error(t, err, "duplicate joint name must be rejected")

	_, err = d.AppendJoint("nosuch", "arm", JointRevolute, identityPose)
	assert.Error(t, err, "unknown parent must be rejected")

	_, err = d.AppendJoint("root_joint", "bad_pose", JointRevolute, []float64{1, 2})
	assert.Error(t, err, "short pose must be rejected")
}

func TestNeutralAndCurrentConfig(t *testing.T) {
	d := NewDevice("test")
	_, err := d.AppendJoint("", "root_joint", JointPlanar, identityPose)
	require.NoError(t, err)
	_, err = d.AppendJoint("root_joint", "flyer", JointFreeflyer, identityPose)
	require.NoError(t, err)

	neutral := d.NeutralConfig()
	assert.Equal(t, []float64{0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 1}, neutral)
	assert.Equal(t, neutral, d.CurrentConfig())

	q := d.NeutralConfig()
	q[0] = 0.5
	require.NoError(t, d.SetCurrentConfig(q))
	assert.Equal(t, 0.5, d.CurrentConfig()[0])

	assert.Error(t, d.SetCurrentConfig([]float64{1, 2, 3}))
	bad := d.NeutralConfig()
	bad[1] = math.NaN()
	assert.Error(t, d.SetCurrentConfig(bad))
}

func TestNormalizeConfig(t *testing.T) {
	d := NewDevice("test")
	_, err := d.AppendJoint("", "root_joint", JointPlanar, identityPose)
	require.NoError(t, err)

	q := []float64{1, 2, 3, 4}
	require.NoError(t, d.NormalizeConfig(q))
	assert.InDelta(t, 1.0, math.Hypot(q[2], q[3]), 1e-12)

	degenerate := []float64{0, 0, 0, 0}
	assert.Error(t, d.NormalizeConfig(degenerate))
}

func TestForwardKinematics(t *testing.T) {
	d := NewDevice("test")
	_, err := d.AppendJoint("", "root_joint", JointPlanar, identityPose)
	require.NoError(t, err)
	// Arm joint one unit along x from the root frame
	_, err = d.AppendJoint("root_joint", "arm", JointRevolute, []float64{1, 0, 0, 0, 0, 0, 1})
	require.NoError(t, err)

	// Root at (2, 3) rotated 90 degrees: arm lands at (2, 4)
	q := []float64{2, 3, 0, 1, 0}
	placement, err := d.JointPosition("arm", q)
	require.NoError(t, err)
	assert.InDelta(t, 2, placement.Translation.X, 1e-12)
	assert.InDelta(t, 4, placement.Translation.Y, 1e-12)

	_, err = d.JointPosition("nosuch", q)
	assert.Error(t, err)
}

func TestCollisionObjects(t *testing.T) {
	d := NewDevice("test")
	root, err := d.AppendJoint("", "root_joint", JointPlanar, identityPose)
	require.NoError(t, err)

	sphere, err := NewGeometry("sphere", 0.1)
	require.NoError(t, err)
	offset, err := FromPose([]float64{0, 0, 0.5, 0, 0, 0, 1})
	require.NoError(t, err)
	require.NoError(t, root.Body.AddObject(&Object{
		Name:     "bumper",
		Geometry: sphere,
		Position: offset,
	}))

	placed, err := d.CollisionObjects([]float64{1, 2, 1, 0})
	require.NoError(t, err)
	require.Len(t, placed, 1)
	assert.InDelta(t, 1, placed[0].Position.Translation.X, 1e-12)
	assert.InDelta(t, 2, placed[0].Position.Translation.Y, 1e-12)
	assert.InDelta(t, 0.5, placed[0].Position.Translation.Z, 1e-12)

	require.Error(t, root.Body.AddObject(&Object{Name: "bumper"}))
}
