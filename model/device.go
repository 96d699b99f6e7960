package model

import (
	"fmt"
	"math"
)

// Device is a named robot: a kinematic tree of joints with an associated
// configuration space
type Device struct {
	name       string
	root       *Joint
	joints     map[string]*Joint
	order      []*Joint
	configSize int
	current    []float64
}

// NewDevice creates an empty robot
func NewDevice(name string) *Device {
	return &Device{
		name:   name,
		joints: make(map[string]*Joint),
	}
}

// Name returns the robot name
func (d *Device) Name() string {
	return d.name
}

// AppendJoint adds a joint to the kinematic tree. An empty parent name roots
// the tree; pose places the joint in its parent frame (or the world frame
// for the root).
func (d *Device) AppendJoint(parentName, jointName string, jointType JointType, pose []float64) (*Joint, error) {
	if jointName == "" {
		return nil, fmt.Errorf("joint name must not be empty")
	}
	if _, exists := d.joints[jointName]; exists {
		return nil, fmt.Errorf("robot %q already has a joint named %q", d.name, jointName)
	}

	position, err := FromPose(pose)
	if err != nil {
		return nil, fmt.Errorf("joint %q: %w", jointName, err)
	}

	joint := newJoint(jointName, jointType, position)

	if parentName == "" {
		if d.root != nil {
			return nil, fmt.Errorf("robot %q already has root joint %q", d.name, d.root.Name)
		}
		d.root = joint
	} else {
		parent, exists := d.joints[parentName]
		if !exists {
			return nil, fmt.Errorf("robot %q has no joint named %q", d.name, parentName)
		}
		joint.Parent = parent
		parent.Children = append(parent.Children, joint)
	}

	joint.rank = d.configSize
	d.joints[jointName] = joint
	d.order = append(d.order, joint)
	d.configSize += joint.ConfigSize()
	d.current = append(d.current, joint.NeutralConfig()...)

	return joint, nil
}

// Joint returns the joint with the given name
func (d *Device) Joint(name string) (*Joint, error) {
	joint, exists := d.joints[name]
	if !exists {
		return nil, fmt.Errorf("robot %q has no joint named %q", d.name, name)
	}
	return joint, nil
}

// RootJoint returns the root joint, or nil for an empty tree
func (d *Device) RootJoint() *Joint {
	return d.root
}

// Joints returns the joints in configuration order
func (d *Device) Joints() []*Joint {
	return d.order
}

// JointNames returns the joint names in configuration order
func (d *Device) JointNames() []string {
	names := make([]string, len(d.order))
	for i, joint := range d.order {
		names[i] = joint.Name
	}
	return names
}

// ConfigSize returns the robot's configuration space dimension
func (d *Device) ConfigSize() int {
	return d.configSize
}

// NeutralConfig returns the neutral configuration
func (d *Device) NeutralConfig() []float64 {
	config := make([]float64, 0, d.configSize)
	for _, joint := range d.order {
		config = append(config, joint.NeutralConfig()...)
	}
	return config
}

// CurrentConfig returns a copy of the current configuration
func (d *Device) CurrentConfig() []float64 {
	config := make([]float64, len(d.current))
	copy(config, d.current)
	return config
}

// SetCurrentConfig validates and stores a configuration
func (d *Device) SetCurrentConfig(config []float64) error {
	if err := d.CheckConfig(config); err != nil {
		return err
	}
	copy(d.current, config)
	return nil
}

// CheckConfig verifies the size and finiteness of a configuration
func (d *Device) CheckConfig(config []float64) error {
	if len(config) != d.configSize {
		return fmt.Errorf("robot %q expects %d config variables, got %d", d.name, d.configSize, len(config))
	}
	for i, v := range config {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("config variable %d is not finite", i)
		}
	}
	return nil
}

// NormalizeConfig renormalizes the rotational blocks of a configuration in
// place: the (cos, sin) pair of planar joints and the quaternion of
// freeflyers. Degenerate blocks are an error.
func (d *Device) NormalizeConfig(config []float64) error {
	if len(config) != d.configSize {
		return fmt.Errorf("robot %q expects %d config variables, got %d", d.name, d.configSize, len(config))
	}

	for _, joint := range d.order {
		switch joint.Type {
		case JointPlanar:
			c, s := config[joint.rank+2], config[joint.rank+3]
			norm := math.Hypot(c, s)
			if norm < 1e-10 {
				return fmt.Errorf("joint %q has degenerate orientation", joint.Name)
			}
			config[joint.rank+2] = c / norm
			config[joint.rank+3] = s / norm

		case JointFreeflyer:
			var sum float64
			for i := 3; i < 7; i++ {
				v := config[joint.rank+i]
				sum += v * v
			}
			norm := math.Sqrt(sum)
			if norm < 1e-10 {
				return fmt.Errorf("joint %q has degenerate orientation", joint.Name)
			}
			for i := 3; i < 7; i++ {
				config[joint.rank+i] /= norm
			}
		}
	}
	return nil
}

// JointPosition computes the placement of a joint in the world frame for
// the given configuration
func (d *Device) JointPosition(jointName string, config []float64) (Transform, error) {
	joint, err := d.Joint(jointName)
	if err != nil {
		return Transform{}, err
	}
	if err := d.CheckConfig(config); err != nil {
		return Transform{}, err
	}
	return d.jointPlacement(joint, config)
}

// jointPlacement walks the tree from the root to the joint
func (d *Device) jointPlacement(joint *Joint, config []float64) (Transform, error) {
	parentPlacement := Identity()
	if joint.Parent != nil {
		var err error
		parentPlacement, err = d.jointPlacement(joint.Parent, config)
		if err != nil {
			return Transform{}, err
		}
	}

	motion, err := joint.Motion(config[joint.rank : joint.rank+joint.ConfigSize()])
	if err != nil {
		return Transform{}, err
	}

	return parentPlacement.Mul(joint.PositionInParent).Mul(motion), nil
}

// PlacedObject is a collision object with its world placement
type PlacedObject struct {
	Object   *Object
	Position Transform
}

// CollisionObjects returns all body objects placed in the world frame for
// the given configuration
func (d *Device) CollisionObjects(config []float64) ([]PlacedObject, error) {
	if err := d.CheckConfig(config); err != nil {
		return nil, err
	}

	var placed []PlacedObject
	for _, joint := range d.order {
		if joint.Body == nil || len(joint.Body.Objects) == 0 {
			continue
		}

		placement, err := d.jointPlacement(joint, config)
		if err != nil {
			return nil, err
		}

		for _, obj := range joint.Body.Objects {
			placed = append(placed, PlacedObject{
				Object:   obj,
				Position: placement.Mul(obj.Position),
			})
		}
	}
	return placed, nil
}
