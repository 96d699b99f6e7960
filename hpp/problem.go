package hpp

import (
	"github.com/humanoid-path-planner/hpp-corbaserver-go/corba"
)

// ProblemSolver drives the problem servant: boundary configurations, planning
// and path queries
type ProblemSolver struct {
	ref *corba.ObjectRef
}

// SetInitialConfig sets the planning start configuration
func (p *ProblemSolver) SetInitialConfig(q []float64) error {
	_, err := p.ref.Invoke("setInitialConfig", q)
	return err
}

// AddGoalConfig adds a goal configuration
func (p *ProblemSolver) AddGoalConfig(q []float64) error {
	_, err := p.ref.Invoke("addGoalConfig", q)
	return err
}

// ResetGoalConfigs clears the goal configurations
func (p *ProblemSolver) ResetGoalConfigs() error {
	_, err := p.ref.Invoke("resetGoalConfigs")
	return err
}

// Solve plans a path between the boundary configurations and returns its
// index in the path registry
func (p *ProblemSolver) Solve() (int, error) {
	result, err := p.ref.Invoke("solve")
	if err != nil {
		return 0, err
	}
	return longResult(result)
}

// OptimizePath shortens a stored path and returns the index of the optimized
// copy
func (p *ProblemSolver) OptimizePath(index int) (int, error) {
	result, err := p.ref.Invoke("optimizePath", int64(index))
	if err != nil {
		return 0, err
	}
	return longResult(result)
}

// NumberPaths returns the number of stored paths
func (p *ProblemSolver) NumberPaths() (int, error) {
	result, err := p.ref.Invoke("numberPaths")
	if err != nil {
		return 0, err
	}
	return longResult(result)
}

// PathLength returns the length of a stored path
func (p *ProblemSolver) PathLength(index int) (float64, error) {
	result, err := p.ref.Invoke("pathLength", int64(index))
	if err != nil {
		return 0, err
	}
	return doubleResult(result)
}

// ConfigAtParam returns the configuration of a stored path at a parameter in
// [0, length]
func (p *ProblemSolver) ConfigAtParam(index int, param float64) ([]float64, error) {
	result, err := p.ref.Invoke("configAtParam", int64(index), param)
	if err != nil {
		return nil, err
	}
	return doubleSeqResult(result)
}

// SetRandomSeed seeds the planner's random source
func (p *ProblemSolver) SetRandomSeed(seed int64) error {
	_, err := p.ref.Invoke("setRandomSeed", seed)
	return err
}

// SetMaxIterations caps the planner's iteration count
func (p *ProblemSolver) SetMaxIterations(n int) error {
	_, err := p.ref.Invoke("setMaxIterations", int64(n))
	return err
}

// SetValidationStep sets the discretization step for path validation
func (p *ProblemSolver) SetValidationStep(step float64) error {
	_, err := p.ref.Invoke("setValidationStep", step)
	return err
}

// ResetProblem clears boundary configurations and stored paths. Robots,
// geometries and obstacles survive.
func (p *ProblemSolver) ResetProblem() error {
	_, err := p.ref.Invoke("resetProblem")
	return err
}

// Obstacle drives the obstacle servant
type Obstacle struct {
	ref *corba.ObjectRef
}

// AddObstacle places a registered geometry in the environment at the given
// pose
func (o *Obstacle) AddObstacle(name string, pose []float64) error {
	_, err := o.ref.Invoke("addObstacle", name, pose)
	return err
}

// MoveObstacle repositions an obstacle
func (o *Obstacle) MoveObstacle(name string, pose []float64) error {
	_, err := o.ref.Invoke("moveObstacle", name, pose)
	return err
}

// GetObstaclePosition returns an obstacle's pose
func (o *Obstacle) GetObstaclePosition(name string) ([]float64, error) {
	result, err := o.ref.Invoke("getObstaclePosition", name)
	if err != nil {
		return nil, err
	}
	return doubleSeqResult(result)
}

// GetObstacleNames returns the names of the placed obstacles
func (o *Obstacle) GetObstacleNames() ([]string, error) {
	result, err := o.ref.Invoke("getObstacleNames")
	if err != nil {
		return nil, err
	}
	return stringSeqResult(result)
}
