package solver

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/model"
)

// ProblemSolver holds the server-side planning state: registered robots,
// the selected robot, obstacles, shared geometries, boundary conditions and
// the paths produced by solve and optimize
type ProblemSolver struct {
	mu sync.Mutex

	robots   map[string]*model.Device
	selected *model.Device

	geometries map[string]model.Geometry
	obstacles  map[string]*model.PlacedObject

	initConfig []float64
	goalConfig []float64
	paths      []Path

	validationStep float64
	maxIterations  int
	seed           int64

	pool *ants.Pool
	log  zerolog.Logger
}

// NewProblemSolver creates an empty problem solver with a worker pool sized
// to the machine
func NewProblemSolver() (*ProblemSolver, error) {
	pool, err := ants.NewPool(runtime.NumCPU())
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	return &ProblemSolver{
		robots:         make(map[string]*model.Device),
		geometries:     make(map[string]model.Geometry),
		obstacles:      make(map[string]*model.PlacedObject),
		validationStep: DefaultValidationStep,
		maxIterations:  DefaultMaxIterations,
		seed:           1,
		pool:           pool,
		log:            zerolog.Nop(),
	}, nil
}

// SetLogger sets the logger used by the problem solver
func (ps *ProblemSolver) SetLogger(log zerolog.Logger) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.log = log
}

// Close releases the worker pool
func (ps *ProblemSolver) Close() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.pool != nil {
		ps.pool.Release()
		ps.pool = nil
	}
}

// CreateRobot registers a new empty robot
func (ps *ProblemSolver) CreateRobot(name string) (*model.Device, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if _, exists := ps.robots[name]; exists {
		return nil, fmt.Errorf("robot %q already exists", name)
	}

	device := model.NewDevice(name)
	ps.robots[name] = device
	ps.log.Debug().Str("robot", name).Msg("created robot")
	return device, nil
}

// Robot returns a registered robot by name
func (ps *ProblemSolver) Robot(name string) (*model.Device, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	device, exists := ps.robots[name]
	if !exists {
		return nil, fmt.Errorf("no robot named %q", name)
	}
	return device, nil
}

// RobotNames returns the registered robot names
func (ps *ProblemSolver) RobotNames() []string {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	names := make([]string, 0, len(ps.robots))
	for name := range ps.robots {
		names = append(names, name)
	}
	return names
}

// SetRobot selects the robot the problem plans for and resets boundary
// conditions and paths
func (ps *ProblemSolver) SetRobot(name string) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	device, exists := ps.robots[name]
	if !exists {
		return fmt.Errorf("no robot named %q", name)
	}

	ps.selected = device
	ps.initConfig = nil
	ps.goalConfig = nil
	ps.paths = nil
	ps.log.Debug().Str("robot", name).Msg("selected robot")
	return nil
}

// SelectedRobot returns the robot the problem plans for
func (ps *ProblemSolver) SelectedRobot() (*model.Device, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.selectedLocked()
}

func (ps *ProblemSolver) selectedLocked() (*model.Device, error) {
	if ps.selected == nil {
		return nil, fmt.Errorf("no robot selected, call setRobot first")
	}
	return ps.selected, nil
}

// CreateGeometry registers a shared geometry under a name
func (ps *ProblemSolver) CreateGeometry(name string, geom model.Geometry) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if _, exists := ps.geometries[name]; exists {
		return fmt.Errorf("geometry %q already exists", name)
	}
	ps.geometries[name] = geom
	return nil
}

// Geometry returns a registered geometry by name
func (ps *ProblemSolver) Geometry(name string) (model.Geometry, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	geom, exists := ps.geometries[name]
	if !exists {
		return nil, fmt.Errorf("no geometry named %q", name)
	}
	return geom, nil
}

// AddObstacle places a geometry in the world as a static obstacle
func (ps *ProblemSolver) AddObstacle(name string, geom model.Geometry, position model.Transform) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if _, exists := ps.obstacles[name]; exists {
		return fmt.Errorf("obstacle %q already exists", name)
	}

	ps.obstacles[name] = &model.PlacedObject{
		Object:   &model.Object{Name: name, Geometry: geom},
		Position: position,
	}
	return nil
}

// MoveObstacle changes an obstacle's placement
func (ps *ProblemSolver) MoveObstacle(name string, position model.Transform) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	obstacle, exists := ps.obstacles[name]
	if !exists {
		return fmt.Errorf("no obstacle named %q", name)
	}
	obstacle.Position = position
	return nil
}

// ObstacleNames returns the names of the registered obstacles
func (ps *ProblemSolver) ObstacleNames() []string {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	names := make([]string, 0, len(ps.obstacles))
	for name := range ps.obstacles {
		names = append(names, name)
	}
	return names
}

// ObstaclePosition returns an obstacle's placement
func (ps *ProblemSolver) ObstaclePosition(name string) (model.Transform, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	obstacle, exists := ps.obstacles[name]
	if !exists {
		return model.Transform{}, fmt.Errorf("no obstacle named %q", name)
	}
	return obstacle.Position, nil
}

// SetInitialConfig sets the planning start configuration
func (ps *ProblemSolver) SetInitialConfig(q []float64) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	device, err := ps.selectedLocked()
	if err != nil {
		return err
	}
	if err := device.CheckConfig(q); err != nil {
		return err
	}

	ps.initConfig = append([]float64(nil), q...)
	return nil
}

// AddGoalConfig sets the planning goal configuration
func (ps *ProblemSolver) AddGoalConfig(q []float64) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	device, err := ps.selectedLocked()
	if err != nil {
		return err
	}
	if err := device.CheckConfig(q); err != nil {
		return err
	}

	ps.goalConfig = append([]float64(nil), q...)
	return nil
}

// ResetGoalConfigs clears the goal configuration
func (ps *ProblemSolver) ResetGoalConfigs() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.goalConfig = nil
}

// SetValidationStep sets the path discretization step
func (ps *ProblemSolver) SetValidationStep(step float64) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if step <= 0 {
		return fmt.Errorf("validation step must be positive, got %g", step)
	}
	ps.validationStep = step
	return nil
}

// SetMaxIterations caps the planner's iteration count
func (ps *ProblemSolver) SetMaxIterations(n int) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if n <= 0 {
		return fmt.Errorf("iteration cap must be positive, got %d", n)
	}
	ps.maxIterations = n
	return nil
}

// SetRandomSeed seeds the planner's random source
func (ps *ProblemSolver) SetRandomSeed(seed int64) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.seed = seed
}

// obstacleList snapshots the obstacles for validation
func (ps *ProblemSolver) obstacleList() []model.PlacedObject {
	obstacles := make([]model.PlacedObject, 0, len(ps.obstacles))
	for _, obstacle := range ps.obstacles {
		obstacles = append(obstacles, *obstacle)
	}
	return obstacles
}

// Solve plans a path from the initial to the goal configuration and stores
// it in the path container, returning its index
func (ps *ProblemSolver) Solve() (int, error) {
	ps.mu.Lock()

	device, err := ps.selectedLocked()
	if err != nil {
		ps.mu.Unlock()
		return 0, err
	}
	if ps.initConfig == nil {
		ps.mu.Unlock()
		return 0, fmt.Errorf("no initial configuration set")
	}
	if ps.goalConfig == nil {
		ps.mu.Unlock()
		return 0, fmt.Errorf("no goal configuration set")
	}

	initConfig := append([]float64(nil), ps.initConfig...)
	goalConfig := append([]float64(nil), ps.goalConfig...)
	distance := NewWeightedDistance(device)
	validator := NewValidator(device, ps.obstacleList(), ps.validationStep, ps.pool)
	rng := rand.New(rand.NewSource(ps.seed))
	planner := NewPlanner(device, distance, validator, rng)
	planner.MaxIterations = ps.maxIterations
	log := ps.log
	ps.mu.Unlock()

	path, err := planner.Solve(initConfig, goalConfig)
	if err != nil {
		log.Debug().Err(err).Msg("solve failed")
		return 0, err
	}

	ps.mu.Lock()
	ps.paths = append(ps.paths, path)
	index := len(ps.paths) - 1
	ps.mu.Unlock()

	log.Info().Int("path", index).Float64("length", path.Length()).Msg("solved")
	return index, nil
}

// OptimizePath shortens a stored path and appends the result as a new path,
// returning the new index
func (ps *ProblemSolver) OptimizePath(index int) (int, error) {
	ps.mu.Lock()

	device, err := ps.selectedLocked()
	if err != nil {
		ps.mu.Unlock()
		return 0, err
	}
	path, err := ps.pathLocked(index)
	if err != nil {
		ps.mu.Unlock()
		return 0, err
	}

	distance := NewWeightedDistance(device)
	validator := NewValidator(device, ps.obstacleList(), ps.validationStep, ps.pool)
	rng := rand.New(rand.NewSource(ps.seed))
	optimizer := NewRandomShortcut(device, distance, validator, rng)
	ps.mu.Unlock()

	optimized, err := optimizer.Optimize(path)
	if err != nil {
		return 0, err
	}

	ps.mu.Lock()
	ps.paths = append(ps.paths, optimized)
	newIndex := len(ps.paths) - 1
	ps.mu.Unlock()
	return newIndex, nil
}

// NumberPaths returns the number of stored paths
func (ps *ProblemSolver) NumberPaths() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.paths)
}

// Path returns a stored path
func (ps *ProblemSolver) Path(index int) (Path, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.pathLocked(index)
}

func (ps *ProblemSolver) pathLocked(index int) (Path, error) {
	if index < 0 || index >= len(ps.paths) {
		return nil, fmt.Errorf("path index %d out of range [0, %d)", index, len(ps.paths))
	}
	return ps.paths[index], nil
}

// PathLength returns the length of a stored path
func (ps *ProblemSolver) PathLength(index int) (float64, error) {
	path, err := ps.Path(index)
	if err != nil {
		return 0, err
	}
	return path.Length(), nil
}

// ConfigAtParam returns the configuration along a stored path
func (ps *ProblemSolver) ConfigAtParam(index int, param float64) ([]float64, error) {
	path, err := ps.Path(index)
	if err != nil {
		return nil, err
	}
	return path.ConfigAt(param)
}

// ResetProblem clears boundary conditions and stored paths, keeping robots,
// geometries and obstacles
func (ps *ProblemSolver) ResetProblem() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.initConfig = nil
	ps.goalConfig = nil
	ps.paths = nil
}
