package servants

import (
	"fmt"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/solver"
)

// ProblemServant serves the hpp Problem interface: boundary configurations,
// planning, path optimization and path queries
type ProblemServant struct {
	ps *solver.ProblemSolver
}

// NewProblemServant creates the problem servant over the shared problem solver
func NewProblemServant(ps *solver.ProblemSolver) *ProblemServant {
	return &ProblemServant{ps: ps}
}

// Dispatch handles incoming problem operations
func (s *ProblemServant) Dispatch(methodName string, args []interface{}) (interface{}, error) {
	switch methodName {
	case "setInitialConfig":
		if err := checkArity(methodName, args, 1); err != nil {
			return nil, err
		}
		q, err := doubleSeqArg(methodName, args, 0)
		if err != nil {
			return nil, err
		}
		return nil, s.ps.SetInitialConfig(q)

	case "addGoalConfig":
		if err := checkArity(methodName, args, 1); err != nil {
			return nil, err
		}
		q, err := doubleSeqArg(methodName, args, 0)
		if err != nil {
			return nil, err
		}
		return nil, s.ps.AddGoalConfig(q)

	case "resetGoalConfigs":
		s.ps.ResetGoalConfigs()
		return nil, nil

	case "solve":
		index, err := s.ps.Solve()
		if err != nil {
			return nil, err
		}
		return int64(index), nil

	case "optimizePath":
		if err := checkArity(methodName, args, 1); err != nil {
			return nil, err
		}
		index, err := longArg(methodName, args, 0)
		if err != nil {
			return nil, err
		}
		newIndex, err := s.ps.OptimizePath(int(index))
		if err != nil {
			return nil, err
		}
		return int64(newIndex), nil

	case "numberPaths":
		return int64(s.ps.NumberPaths()), nil

	case "pathLength":
		if err := checkArity(methodName, args, 1); err != nil {
			return nil, err
		}
		index, err := longArg(methodName, args, 0)
		if err != nil {
			return nil, err
		}
		length, err := s.ps.PathLength(int(index))
		if err != nil {
			return nil, err
		}
		return length, nil

	case "configAtParam":
		if err := checkArity(methodName, args, 2); err != nil {
			return nil, err
		}
		index, err := longArg(methodName, args, 0)
		if err != nil {
			return nil, err
		}
		param, err := doubleArg(methodName, args, 1)
		if err != nil {
			return nil, err
		}
		q, err := s.ps.ConfigAtParam(int(index), param)
		if err != nil {
			return nil, err
		}
		return q, nil

	case "setRandomSeed":
		if err := checkArity(methodName, args, 1); err != nil {
			return nil, err
		}
		seed, err := longArg(methodName, args, 0)
		if err != nil {
			return nil, err
		}
		s.ps.SetRandomSeed(seed)
		return nil, nil

	case "setMaxIterations":
		if err := checkArity(methodName, args, 1); err != nil {
			return nil, err
		}
		n, err := longArg(methodName, args, 0)
		if err != nil {
			return nil, err
		}
		return nil, s.ps.SetMaxIterations(int(n))

	case "setValidationStep":
		if err := checkArity(methodName, args, 1); err != nil {
			return nil, err
		}
		step, err := doubleArg(methodName, args, 0)
		if err != nil {
			return nil, err
		}
		return nil, s.ps.SetValidationStep(step)

	case "resetProblem":
		s.ps.ResetProblem()
		return nil, nil

	default:
		return nil, fmt.Errorf("method %s not supported by problem servant", methodName)
	}
}
