package solver

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/model"
)

// ErrPlanningFailed is returned when no valid path is found within the
// iteration budget
var ErrPlanningFailed = errors.New("path planning failed")

// Planner default tuning
const (
	DefaultMaxIterations = 2000
	DefaultExtendStep    = 0.3
	DefaultGoalBias      = 0.1
)

// Planner grows a tree from the initial configuration toward randomly
// sampled configurations until the goal connects
type Planner struct {
	device    *model.Device
	distance  *WeightedDistance
	validator *Validator
	sampler   *ConfigSampler
	rng       *rand.Rand

	MaxIterations int
	ExtendStep    float64
	GoalBias      float64
}

// treeNode is one configuration in the search tree
type treeNode struct {
	config []float64
	parent int // index into the tree, -1 for the root
}

// NewPlanner creates a planner with default tuning
func NewPlanner(device *model.Device, distance *WeightedDistance, validator *Validator, rng *rand.Rand) *Planner {
	return &Planner{
		device:        device,
		distance:      distance,
		validator:     validator,
		sampler:       NewConfigSampler(device, rng),
		rng:           rng,
		MaxIterations: DefaultMaxIterations,
		ExtendStep:    DefaultExtendStep,
		GoalBias:      DefaultGoalBias,
	}
}

// Solve searches for a collision-free path from init to goal. The straight
// path is tried first; otherwise the tree grows until the goal connects or
// the iteration budget runs out.
func (p *Planner) Solve(init, goal []float64) (*PathVector, error) {
	if ok, err := p.validator.ValidateConfig(init); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("initial configuration is in collision")
	}
	if ok, err := p.validator.ValidateConfig(goal); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("goal configuration is in collision")
	}

	direct, err := NewStraightPath(p.device, p.distance, init, goal)
	if err != nil {
		return nil, err
	}
	if ok, _, err := p.validator.ValidatePath(direct); err != nil {
		return nil, err
	} else if ok {
		return NewPathVector(direct)
	}

	tree := []treeNode{{config: init, parent: -1}}

	for i := 0; i < p.MaxIterations; i++ {
		target := p.sampler.Sample()
		if p.rng.Float64() < p.GoalBias {
			target = goal
		}

		nearestIdx, err := p.nearest(tree, target)
		if err != nil {
			return nil, err
		}

		newConfig, err := p.extend(tree[nearestIdx].config, target)
		if err != nil || newConfig == nil {
			continue
		}

		segment, err := NewStraightPath(p.device, p.distance, tree[nearestIdx].config, newConfig)
		if err != nil {
			return nil, err
		}
		if ok, _, err := p.validator.ValidatePath(segment); err != nil {
			return nil, err
		} else if !ok {
			continue
		}

		tree = append(tree, treeNode{config: newConfig, parent: nearestIdx})
		newIdx := len(tree) - 1

		// Try to close the gap to the goal
		closing, err := NewStraightPath(p.device, p.distance, newConfig, goal)
		if err != nil {
			return nil, err
		}
		if ok, _, err := p.validator.ValidatePath(closing); err != nil {
			return nil, err
		} else if ok {
			return p.buildPath(tree, newIdx, goal)
		}
	}

	return nil, ErrPlanningFailed
}

// nearest returns the index of the tree node closest to the target
func (p *Planner) nearest(tree []treeNode, target []float64) (int, error) {
	best := 0
	bestDist, err := p.distance.Value(tree[0].config, target)
	if err != nil {
		return 0, err
	}

	for i := 1; i < len(tree); i++ {
		d, err := p.distance.Value(tree[i].config, target)
		if err != nil {
			return 0, err
		}
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, nil
}

// extend steps from a configuration toward a target, at most ExtendStep away
func (p *Planner) extend(from, target []float64) ([]float64, error) {
	d, err := p.distance.Value(from, target)
	if err != nil {
		return nil, err
	}
	if d < 1e-10 {
		return nil, nil
	}

	s := 1.0
	if d > p.ExtendStep {
		s = p.ExtendStep / d
	}
	return Interpolate(p.device, from, target, s)
}

// buildPath backtracks from a tree node to the root and appends the goal
func (p *Planner) buildPath(tree []treeNode, nodeIdx int, goal []float64) (*PathVector, error) {
	var configs [][]float64
	for idx := nodeIdx; idx != -1; idx = tree[idx].parent {
		configs = append(configs, tree[idx].config)
	}

	// Reverse into root-to-node order
	for i, j := 0, len(configs)-1; i < j; i, j = i+1, j-1 {
		configs[i], configs[j] = configs[j], configs[i]
	}
	configs = append(configs, goal)

	segments := make([]Path, 0, len(configs)-1)
	for i := 0; i+1 < len(configs); i++ {
		seg, err := NewStraightPath(p.device, p.distance, configs[i], configs[i+1])
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return NewPathVector(segments...)
}
