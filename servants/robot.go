package servants

import (
	"fmt"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/model"
	"github.com/humanoid-path-planner/hpp-corbaserver-go/solver"
)

// RobotServant serves the hpp Robot interface: robot construction, joint
// queries and configuration access
type RobotServant struct {
	ps *solver.ProblemSolver
}

// NewRobotServant creates the robot servant over the shared problem solver
func NewRobotServant(ps *solver.ProblemSolver) *RobotServant {
	return &RobotServant{ps: ps}
}

// Dispatch handles incoming robot operations
func (s *RobotServant) Dispatch(methodName string, args []interface{}) (interface{}, error) {
	switch methodName {
	case "createRobot":
		if err := checkArity(methodName, args, 1); err != nil {
			return nil, err
		}
		name, err := stringArg(methodName, args, 0)
		if err != nil {
			return nil, err
		}
		_, err = s.ps.CreateRobot(name)
		return nil, err

	case "appendJoint":
		return nil, s.appendJoint(args)

	case "createSphere":
		if err := checkArity(methodName, args, 2); err != nil {
			return nil, err
		}
		return nil, s.createGeometry(methodName, args, "sphere", 1)

	case "createBox":
		if err := checkArity(methodName, args, 4); err != nil {
			return nil, err
		}
		return nil, s.createGeometry(methodName, args, "box", 3)

	case "createCylinder":
		if err := checkArity(methodName, args, 3); err != nil {
			return nil, err
		}
		return nil, s.createGeometry(methodName, args, "cylinder", 2)

	case "addObjectToJoint":
		return nil, s.addObjectToJoint(args)

	case "setRobot":
		if err := checkArity(methodName, args, 1); err != nil {
			return nil, err
		}
		name, err := stringArg(methodName, args, 0)
		if err != nil {
			return nil, err
		}
		return nil, s.ps.SetRobot(name)

	case "getRobotNames":
		return s.ps.RobotNames(), nil

	case "getJointNames":
		device, err := s.ps.SelectedRobot()
		if err != nil {
			return nil, err
		}
		return device.JointNames(), nil

	case "getConfigSize":
		device, err := s.ps.SelectedRobot()
		if err != nil {
			return nil, err
		}
		return int64(device.ConfigSize()), nil

	case "getCurrentConfig":
		device, err := s.ps.SelectedRobot()
		if err != nil {
			return nil, err
		}
		return device.CurrentConfig(), nil

	case "setCurrentConfig":
		if err := checkArity(methodName, args, 1); err != nil {
			return nil, err
		}
		q, err := doubleSeqArg(methodName, args, 0)
		if err != nil {
			return nil, err
		}
		device, err := s.ps.SelectedRobot()
		if err != nil {
			return nil, err
		}
		return nil, device.SetCurrentConfig(q)

	case "getJointPosition":
		if err := checkArity(methodName, args, 1); err != nil {
			return nil, err
		}
		jointName, err := stringArg(methodName, args, 0)
		if err != nil {
			return nil, err
		}
		device, err := s.ps.SelectedRobot()
		if err != nil {
			return nil, err
		}
		placement, err := device.JointPosition(jointName, device.CurrentConfig())
		if err != nil {
			return nil, err
		}
		return placement.Pose(), nil

	case "setJointBounds":
		return nil, s.setJointBounds(args)

	default:
		return nil, fmt.Errorf("method %s not supported by robot servant", methodName)
	}
}

// appendJoint implements
// appendJoint(robotName, parentName, jointName, jointType, pose)
func (s *RobotServant) appendJoint(args []interface{}) error {
	const op = "appendJoint"
	if err := checkArity(op, args, 5); err != nil {
		return err
	}

	robotName, err := stringArg(op, args, 0)
	if err != nil {
		return err
	}
	parentName, err := stringArg(op, args, 1)
	if err != nil {
		return err
	}
	jointName, err := stringArg(op, args, 2)
	if err != nil {
		return err
	}
	typeName, err := stringArg(op, args, 3)
	if err != nil {
		return err
	}
	pose, err := doubleSeqArg(op, args, 4)
	if err != nil {
		return err
	}

	device, err := s.ps.Robot(robotName)
	if err != nil {
		return err
	}
	jointType, err := model.ParseJointType(typeName)
	if err != nil {
		return err
	}

	_, err = device.AppendJoint(parentName, jointName, jointType, pose)
	return err
}

// createGeometry implements createSphere/createBox/createCylinder: a name
// followed by dims scalar dimensions
func (s *RobotServant) createGeometry(op string, args []interface{}, kind string, dims int) error {
	name, err := stringArg(op, args, 0)
	if err != nil {
		return err
	}

	sizes := make([]float64, dims)
	for i := 0; i < dims; i++ {
		sizes[i], err = doubleArg(op, args, i+1)
		if err != nil {
			return err
		}
	}

	geom, err := model.NewGeometry(kind, sizes...)
	if err != nil {
		return err
	}
	return s.ps.CreateGeometry(name, geom)
}

// addObjectToJoint implements
// addObjectToJoint(robotName, jointName, objectName, pose)
func (s *RobotServant) addObjectToJoint(args []interface{}) error {
	const op = "addObjectToJoint"
	if err := checkArity(op, args, 4); err != nil {
		return err
	}

	robotName, err := stringArg(op, args, 0)
	if err != nil {
		return err
	}
	jointName, err := stringArg(op, args, 1)
	if err != nil {
		return err
	}
	objectName, err := stringArg(op, args, 2)
	if err != nil {
		return err
	}
	pose, err := doubleSeqArg(op, args, 3)
	if err != nil {
		return err
	}

	device, err := s.ps.Robot(robotName)
	if err != nil {
		return err
	}
	joint, err := device.Joint(jointName)
	if err != nil {
		return err
	}
	geom, err := s.ps.Geometry(objectName)
	if err != nil {
		return err
	}
	position, err := model.FromPose(pose)
	if err != nil {
		return err
	}

	return joint.Body.AddObject(&model.Object{
		Name:     objectName,
		Geometry: geom,
		Position: position,
	})
}

// setJointBounds implements
// setJointBounds(robotName, jointName, flat lo/hi pairs). Like the other
// construction operations it names the robot explicitly, so bounds can be
// set before the robot is selected for planning.
func (s *RobotServant) setJointBounds(args []interface{}) error {
	const op = "setJointBounds"
	if err := checkArity(op, args, 3); err != nil {
		return err
	}

	robotName, err := stringArg(op, args, 0)
	if err != nil {
		return err
	}
	jointName, err := stringArg(op, args, 1)
	if err != nil {
		return err
	}
	flat, err := doubleSeqArg(op, args, 2)
	if err != nil {
		return err
	}
	if len(flat)%2 != 0 {
		return fmt.Errorf("%s: bounds must come in lo/hi pairs, got %d values", op, len(flat))
	}

	device, err := s.ps.Robot(robotName)
	if err != nil {
		return err
	}
	joint, err := device.Joint(jointName)
	if err != nil {
		return err
	}

	bounds := make([][2]float64, len(flat)/2)
	for i := range bounds {
		bounds[i] = [2]float64{flat[2*i], flat[2*i+1]}
	}
	return joint.SetBounds(bounds)
}
