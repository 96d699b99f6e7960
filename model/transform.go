// Package model implements the robot kinematic model served by the
// corbaserver: devices, joint trees, bodies, collision geometries and rigid
// transforms.
package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// PoseLength is the number of scalars in a wire pose:
// [tx, ty, tz, qx, qy, qz, qw].
const PoseLength = 7

// Transform is a rigid transform: a rotation followed by a translation
type Transform struct {
	Translation r3.Vec
	Rotation    quat.Number
}

// Identity returns the identity transform
func Identity() Transform {
	return Transform{Rotation: quat.Number{Real: 1}}
}

// FromPose builds a transform from a 7-float pose [tx,ty,tz,qx,qy,qz,qw].
// The quaternion is normalized; a near-zero quaternion is an error.
func FromPose(pose []float64) (Transform, error) {
	if len(pose) != PoseLength {
		return Transform{}, fmt.Errorf("pose must have %d elements, got %d", PoseLength, len(pose))
	}

	q := quat.Number{Real: pose[6], Imag: pose[3], Jmag: pose[4], Kmag: pose[5]}
	norm := quat.Abs(q)
	if norm < 1e-10 {
		return Transform{}, fmt.Errorf("pose quaternion has near-zero norm")
	}
	q = quat.Scale(1/norm, q)

	return Transform{
		Translation: r3.Vec{X: pose[0], Y: pose[1], Z: pose[2]},
		Rotation:    q,
	}, nil
}

// Pose returns the 7-float pose representation [tx,ty,tz,qx,qy,qz,qw]
func (t Transform) Pose() []float64 {
	return []float64{
		t.Translation.X, t.Translation.Y, t.Translation.Z,
		t.Rotation.Imag, t.Rotation.Jmag, t.Rotation.Kmag, t.Rotation.Real,
	}
}

// Mul composes two transforms: (t * other) applies other first in t's frame
func (t Transform) Mul(other Transform) Transform {
	return Transform{
		Translation: r3.Add(t.Translation, t.RotateVec(other.Translation)),
		Rotation:    quat.Mul(t.Rotation, other.Rotation),
	}
}

// Inverse returns the inverse transform
func (t Transform) Inverse() Transform {
	inv := quat.Conj(t.Rotation)
	return Transform{
		Translation: r3.Scale(-1, rotateVec(inv, t.Translation)),
		Rotation:    inv,
	}
}

// RotateVec rotates a vector by the transform's rotation
func (t Transform) RotateVec(v r3.Vec) r3.Vec {
	return rotateVec(t.Rotation, v)
}

// TransformPoint applies the full transform to a point
func (t Transform) TransformPoint(p r3.Vec) r3.Vec {
	return r3.Add(t.Translation, t.RotateVec(p))
}

// AngleTo returns the rotation angle between two transforms, in [0, pi]
func (t Transform) AngleTo(other Transform) float64 {
	dot := t.Rotation.Real*other.Rotation.Real +
		t.Rotation.Imag*other.Rotation.Imag +
		t.Rotation.Jmag*other.Rotation.Jmag +
		t.Rotation.Kmag*other.Rotation.Kmag
	dot = math.Abs(dot)
	if dot > 1 {
		dot = 1
	}
	return 2 * math.Acos(dot)
}

// RotZ returns a rotation of angle radians about the z axis
func RotZ(angle float64) quat.Number {
	half := angle / 2
	return quat.Number{Real: math.Cos(half), Kmag: math.Sin(half)}
}

// rotateVec rotates v by unit quaternion q via q v q*
func rotateVec(q quat.Number, v r3.Vec) r3.Vec {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}
