package servants

import (
	"fmt"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/model"
	"github.com/humanoid-path-planner/hpp-corbaserver-go/solver"
)

// ObstacleServant serves the hpp Obstacle interface: environment objects the
// planner validates against
type ObstacleServant struct {
	ps *solver.ProblemSolver
}

// NewObstacleServant creates the obstacle servant over the shared problem
// solver
func NewObstacleServant(ps *solver.ProblemSolver) *ObstacleServant {
	return &ObstacleServant{ps: ps}
}

// Dispatch handles incoming obstacle operations
func (s *ObstacleServant) Dispatch(methodName string, args []interface{}) (interface{}, error) {
	switch methodName {
	case "addObstacle":
		return nil, s.addObstacle(args)

	case "moveObstacle":
		if err := checkArity(methodName, args, 2); err != nil {
			return nil, err
		}
		name, err := stringArg(methodName, args, 0)
		if err != nil {
			return nil, err
		}
		pose, err := doubleSeqArg(methodName, args, 1)
		if err != nil {
			return nil, err
		}
		position, err := model.FromPose(pose)
		if err != nil {
			return nil, err
		}
		return nil, s.ps.MoveObstacle(name, position)

	case "getObstaclePosition":
		if err := checkArity(methodName, args, 1); err != nil {
			return nil, err
		}
		name, err := stringArg(methodName, args, 0)
		if err != nil {
			return nil, err
		}
		position, err := s.ps.ObstaclePosition(name)
		if err != nil {
			return nil, err
		}
		return position.Pose(), nil

	case "getObstacleNames":
		return s.ps.ObstacleNames(), nil

	default:
		return nil, fmt.Errorf("method %s not supported by obstacle servant", methodName)
	}
}

// addObstacle implements addObstacle(objectName, pose); the geometry must
// have been registered on the robot servant first
func (s *ObstacleServant) addObstacle(args []interface{}) error {
	const op = "addObstacle"
	if err := checkArity(op, args, 2); err != nil {
		return err
	}

	name, err := stringArg(op, args, 0)
	if err != nil {
		return err
	}
	pose, err := doubleSeqArg(op, args, 1)
	if err != nil {
		return err
	}

	geom, err := s.ps.Geometry(name)
	if err != nil {
		return err
	}
	position, err := model.FromPose(pose)
	if err != nil {
		return err
	}
	return s.ps.AddObstacle(name, geom, position)
}
