package solver

import (
	"math"
	"math/rand"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/model"
)

// ConfigSampler draws random configurations from a device's configuration
// space: bounded variables uniformly within their bounds, orientations
// uniformly on their manifold.
type ConfigSampler struct {
	device *model.Device
	rng    *rand.Rand
}

// NewConfigSampler creates a sampler with the given random source
func NewConfigSampler(device *model.Device, rng *rand.Rand) *ConfigSampler {
	return &ConfigSampler{device: device, rng: rng}
}

// uniform draws from [b[0], b[1]]
func (s *ConfigSampler) uniform(b [2]float64) float64 {
	return b[0] + s.rng.Float64()*(b[1]-b[0])
}

// Sample returns a random configuration
func (s *ConfigSampler) Sample() []float64 {
	config := make([]float64, 0, s.device.ConfigSize())

	for _, joint := range s.device.Joints() {
		bounds := joint.Bounds()

		switch joint.Type {
		case model.JointAnchor:

		case model.JointRevolute, model.JointPrismatic:
			config = append(config, s.uniform(bounds[0]))

		case model.JointPlanar:
			theta := s.rng.Float64()*2*math.Pi - math.Pi
			config = append(config,
				s.uniform(bounds[0]),
				s.uniform(bounds[1]),
				math.Cos(theta),
				math.Sin(theta),
			)

		case model.JointFreeflyer:
			q := s.randomQuaternion()
			config = append(config,
				s.uniform(bounds[0]),
				s.uniform(bounds[1]),
				s.uniform(bounds[2]),
				q[0], q[1], q[2], q[3],
			)
		}
	}

	return config
}

// randomQuaternion draws a uniformly distributed unit quaternion
// [qx, qy, qz, qw] using the subgroup algorithm
func (s *ConfigSampler) randomQuaternion() [4]float64 {
	u1 := s.rng.Float64()
	u2 := s.rng.Float64() * 2 * math.Pi
	u3 := s.rng.Float64() * 2 * math.Pi

	a := math.Sqrt(1 - u1)
	b := math.Sqrt(u1)

	return [4]float64{
		a * math.Sin(u2),
		a * math.Cos(u2),
		b * math.Sin(u3),
		b * math.Cos(u3),
	}
}
