// Package solver implements the motion planning core: configuration space
// metrics, straight paths, discretized collision validation, a sampling
// planner and a random shortcut optimizer.
package solver

import (
	"fmt"
	"math"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/model"
)

// WeightedDistance measures distances in a device's configuration space.
// Translations contribute euclidean terms, rotations their angle, each
// scaled by the joint's weight (default 1).
type WeightedDistance struct {
	Device  *model.Device
	Weights map[string]float64
}

// NewWeightedDistance creates a distance with unit weights
func NewWeightedDistance(device *model.Device) *WeightedDistance {
	return &WeightedDistance{
		Device:  device,
		Weights: make(map[string]float64),
	}
}

// weight returns the weight for a joint
func (wd *WeightedDistance) weight(name string) float64 {
	if w, ok := wd.Weights[name]; ok {
		return w
	}
	return 1
}

// Value returns the weighted configuration distance between q1 and q2
func (wd *WeightedDistance) Value(q1, q2 []float64) (float64, error) {
	if err := wd.Device.CheckConfig(q1); err != nil {
		return 0, err
	}
	if err := wd.Device.CheckConfig(q2); err != nil {
		return 0, err
	}

	var sum float64
	for _, joint := range wd.Device.Joints() {
		w := wd.weight(joint.Name)
		r := joint.RankInConfig()

		switch joint.Type {
		case model.JointAnchor:
			continue

		case model.JointRevolute, model.JointPrismatic:
			d := q2[r] - q1[r]
			sum += w * w * d * d

		case model.JointPlanar:
			dx := q2[r] - q1[r]
			dy := q2[r+1] - q1[r+1]
			da := angleDiff(
				math.Atan2(q1[r+3], q1[r+2]),
				math.Atan2(q2[r+3], q2[r+2]),
			)
			sum += w * w * (dx*dx + dy*dy + da*da)

		case model.JointFreeflyer:
			dx := q2[r] - q1[r]
			dy := q2[r+1] - q1[r+1]
			dz := q2[r+2] - q1[r+2]
			da := quatAngle(q1[r+3:r+7], q2[r+3:r+7])
			sum += w * w * (dx*dx + dy*dy + dz*dz + da*da)

		default:
			return 0, fmt.Errorf("unknown joint type %q", joint.Type)
		}
	}

	return math.Sqrt(sum), nil
}

// Interpolate returns the configuration at fraction s in [0, 1] between q0
// and q1: linear interpolation with rotational blocks renormalized
func Interpolate(device *model.Device, q0, q1 []float64, s float64) ([]float64, error) {
	if err := device.CheckConfig(q0); err != nil {
		return nil, err
	}
	if err := device.CheckConfig(q1); err != nil {
		return nil, err
	}

	result := make([]float64, len(q0))
	for i := range q0 {
		result[i] = (1-s)*q0[i] + s*q1[i]
	}

	if err := device.NormalizeConfig(result); err != nil {
		return nil, err
	}
	return result, nil
}

// angleDiff returns the signed angular difference normalized to [-pi, pi]
func angleDiff(a, b float64) float64 {
	d := b - a
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// quatAngle returns the rotation angle between two quaternions given as
// [qx, qy, qz, qw] slices
func quatAngle(a, b []float64) float64 {
	var dot float64
	for i := 0; i < 4; i++ {
		dot += a[i] * b[i]
	}
	na := math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2] + a[3]*a[3])
	nb := math.Sqrt(b[0]*b[0] + b[1]*b[1] + b[2]*b[2] + b[3]*b[3])
	if na < 1e-10 || nb < 1e-10 {
		return 0
	}
	c := math.Abs(dot / (na * nb))
	if c > 1 {
		c = 1
	}
	return 2 * math.Acos(c)
}
