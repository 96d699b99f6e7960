package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// JointType identifies the kind of a joint and determines its configuration
// space segment
type JointType string

// Supported joint types
const (
	JointAnchor    JointType = "anchor"
	JointRevolute  JointType = "revolute"
	JointPrismatic JointType = "prismatic"
	JointPlanar    JointType = "planar"
	JointFreeflyer JointType = "freeflyer"
)

// ParseJointType validates a joint type name
func ParseJointType(name string) (JointType, error) {
	switch JointType(name) {
	case JointAnchor, JointRevolute, JointPrismatic, JointPlanar, JointFreeflyer:
		return JointType(name), nil
	default:
		return "", fmt.Errorf("unknown joint type %q", name)
	}
}

// ConfigSize returns the number of configuration variables for the joint
// type. Planar joints use 4 (x, y, cos, sin), freeflyers 7 (translation plus
// unit quaternion).
func (jt JointType) ConfigSize() int {
	switch jt {
	case JointAnchor:
		return 0
	case JointRevolute, JointPrismatic:
		return 1
	case JointPlanar:
		return 4
	case JointFreeflyer:
		return 7
	default:
		return 0
	}
}

// Joint is a node in a device's kinematic tree
type Joint struct {
	Name             string
	Type             JointType
	Parent           *Joint
	Children         []*Joint
	PositionInParent Transform
	Body             *Body

	rank   int
	bounds [][2]float64
}

// newJoint creates a joint with default bounds and an empty body
func newJoint(name string, jointType JointType, position Transform) *Joint {
	j := &Joint{
		Name:             name,
		Type:             jointType,
		PositionInParent: position,
		Body:             &Body{Name: name + "_body"},
	}
	j.bounds = defaultBounds(jointType)
	return j
}

// defaultBounds returns sampling bounds for the translational variables of
// a joint type. Angular variables are sampled on their manifold and carry
// no bounds.
func defaultBounds(jointType JointType) [][2]float64 {
	switch jointType {
	case JointRevolute:
		return [][2]float64{{-math.Pi, math.Pi}}
	case JointPrismatic:
		return [][2]float64{{-1, 1}}
	case JointPlanar:
		return [][2]float64{{-1, 1}, {-1, 1}}
	case JointFreeflyer:
		return [][2]float64{{-1, 1}, {-1, 1}, {-1, 1}}
	default:
		return nil
	}
}

// ConfigSize returns the number of configuration variables of this joint
func (j *Joint) ConfigSize() int {
	return j.Type.ConfigSize()
}

// RankInConfig returns the index of the joint's first configuration variable
func (j *Joint) RankInConfig() int {
	return j.rank
}

// Bounds returns the sampling bounds for the joint's bounded variables
func (j *Joint) Bounds() [][2]float64 {
	return j.bounds
}

// SetBounds replaces the joint's bounds. The slice length must match the
// number of bounded variables (1 for revolute/prismatic, 2 for planar,
// 3 for freeflyer).
func (j *Joint) SetBounds(bounds [][2]float64) error {
	if len(bounds) != len(j.bounds) {
		return fmt.Errorf("joint %q takes %d bound pairs, got %d", j.Name, len(j.bounds), len(bounds))
	}
	for i, b := range bounds {
		if b[0] > b[1] {
			return fmt.Errorf("joint %q bound %d is empty: [%g, %g]", j.Name, i, b[0], b[1])
		}
	}
	j.bounds = bounds
	return nil
}

// NeutralConfig returns the joint's neutral configuration segment
func (j *Joint) NeutralConfig() []float64 {
	switch j.Type {
	case JointPlanar:
		return []float64{0, 0, 1, 0}
	case JointFreeflyer:
		return []float64{0, 0, 0, 0, 0, 0, 1}
	default:
		return make([]float64, j.ConfigSize())
	}
}

// Motion returns the transform produced by the joint for its configuration
// segment q (len q == ConfigSize). Revolute joints rotate about z, prismatic
// joints translate along z.
func (j *Joint) Motion(q []float64) (Transform, error) {
	if len(q) != j.ConfigSize() {
		return Transform{}, fmt.Errorf("joint %q takes %d config variables, got %d", j.Name, j.ConfigSize(), len(q))
	}

	switch j.Type {
	case JointAnchor:
		return Identity(), nil

	case JointRevolute:
		return Transform{Rotation: RotZ(q[0])}, nil

	case JointPrismatic:
		return Transform{
			Translation: r3.Vec{Z: q[0]},
			Rotation:    quat.Number{Real: 1},
		}, nil

	case JointPlanar:
		c, s := q[2], q[3]
		norm := math.Hypot(c, s)
		if norm < 1e-10 {
			return Transform{}, fmt.Errorf("joint %q has degenerate orientation", j.Name)
		}
		half := math.Atan2(s/norm, c/norm) / 2
		return Transform{
			Translation: r3.Vec{X: q[0], Y: q[1]},
			Rotation:    quat.Number{Real: math.Cos(half), Kmag: math.Sin(half)},
		}, nil

	case JointFreeflyer:
		return FromPose(q)

	default:
		return Transform{}, fmt.Errorf("unknown joint type %q", j.Type)
	}
}
