package hpp

import (
	"github.com/humanoid-path-planner/hpp-corbaserver-go/corba"
)

// Robot drives the robot servant: robot construction, joint queries and
// configuration access
type Robot struct {
	ref *corba.ObjectRef
}

// CreateRobot creates an empty robot on the server
func (r *Robot) CreateRobot(robotName string) error {
	_, err := r.ref.Invoke("createRobot", robotName)
	return err
}

// AppendJoint adds a joint to a robot. An empty parentName roots the kinematic
// tree; pose is the joint placement in the parent frame as
// [tx, ty, tz, qx, qy, qz, qw].
func (r *Robot) AppendJoint(robotName, parentName, jointName, jointType string, pose []float64) error {
	_, err := r.ref.Invoke("appendJoint", robotName, parentName, jointName, jointType, pose)
	return err
}

// CreateSphere registers a sphere geometry under a name
func (r *Robot) CreateSphere(name string, radius float64) error {
	_, err := r.ref.Invoke("createSphere", name, radius)
	return err
}

// CreateBox registers a box geometry; x, y, z are the full side lengths
func (r *Robot) CreateBox(name string, x, y, z float64) error {
	_, err := r.ref.Invoke("createBox", name, x, y, z)
	return err
}

// CreateCylinder registers a cylinder geometry
func (r *Robot) CreateCylinder(name string, radius, length float64) error {
	_, err := r.ref.Invoke("createCylinder", name, radius, length)
	return err
}

// AddObjectToJoint attaches a registered geometry to a joint's body at the
// given pose in the joint frame
func (r *Robot) AddObjectToJoint(robotName, jointName, objectName string, pose []float64) error {
	_, err := r.ref.Invoke("addObjectToJoint", robotName, jointName, objectName, pose)
	return err
}

// SetRobot selects the robot the problem solver plans for
func (r *Robot) SetRobot(robotName string) error {
	_, err := r.ref.Invoke("setRobot", robotName)
	return err
}

// GetRobotNames returns the names of the robots on the server
func (r *Robot) GetRobotNames() ([]string, error) {
	result, err := r.ref.Invoke("getRobotNames")
	if err != nil {
		return nil, err
	}
	return stringSeqResult(result)
}

// GetJointNames returns the joint names of the selected robot in config order
func (r *Robot) GetJointNames() ([]string, error) {
	result, err := r.ref.Invoke("getJointNames")
	if err != nil {
		return nil, err
	}
	return stringSeqResult(result)
}

// GetConfigSize returns the configuration dimension of the selected robot
func (r *Robot) GetConfigSize() (int, error) {
	result, err := r.ref.Invoke("getConfigSize")
	if err != nil {
		return 0, err
	}
	return longResult(result)
}

// GetCurrentConfig returns the selected robot's current configuration
func (r *Robot) GetCurrentConfig() ([]float64, error) {
	result, err := r.ref.Invoke("getCurrentConfig")
	if err != nil {
		return nil, err
	}
	return doubleSeqResult(result)
}

// SetCurrentConfig sets the selected robot's current configuration
func (r *Robot) SetCurrentConfig(q []float64) error {
	_, err := r.ref.Invoke("setCurrentConfig", q)
	return err
}

// GetJointPosition returns the placement of a joint at the current
// configuration as a 7-float pose
func (r *Robot) GetJointPosition(jointName string) ([]float64, error) {
	result, err := r.ref.Invoke("getJointPosition", jointName)
	if err != nil {
		return nil, err
	}
	return doubleSeqResult(result)
}

// SetJointBounds sets a joint's configuration bounds as flat lo/hi pairs, one
// pair per bounded degree of freedom. The robot does not need to be selected.
func (r *Robot) SetJointBounds(robotName, jointName string, bounds []float64) error {
	_, err := r.ref.Invoke("setJointBounds", robotName, jointName, bounds)
	return err
}
