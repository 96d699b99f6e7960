package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/model"
)

// newTestProblem builds a problem solver with a planar robot selected
func newTestProblem(t *testing.T) *ProblemSolver {
	t.Helper()

	ps, err := NewProblemSolver()
	require.NoError(t, err)
	t.Cleanup(ps.Close)

	device, err := ps.CreateRobot("test")
	require.NoError(t, err)
	root, err := device.AppendJoint("", "root_joint", model.JointPlanar, []float64{0, 0, 0, 0, 0, 0, 1})
	require.NoError(t, err)
	require.NoError(t, root.SetBounds([][2]float64{{-2, 2}, {-2, 2}}))

	sphere, err := model.NewGeometry("sphere", 0.1)
	require.NoError(t, err)
	require.NoError(t, root.Body.AddObject(&model.Object{
		Name:     "body_sphere",
		Geometry: sphere,
		Position: model.Identity(),
	}))

	require.NoError(t, ps.SetRobot("test"))
	return ps
}

func TestCreateRobotDuplicate(t *testing.T) {
	ps, err := NewProblemSolver()
	require.NoError(t, err)
	defer ps.Close()

	_, err = ps.CreateRobot("test")
	require.NoError(t, err)
	_, err = ps.CreateRobot("test")
	assert.Error(t, err)

	assert.Equal(t, []string{"test"}, ps.RobotNames())
}

func TestSetRobotUnknown(t *testing.T) {
	ps, err := NewProblemSolver()
	require.NoError(t, err)
	defer ps.Close()

	assert.Error(t, ps.SetRobot("nosuch"))
}

func TestSolveRequiresSetup(t *testing.T) {
	ps, err := NewProblemSolver()
	require.NoError(t, err)
	defer ps.Close()

	// No robot selected
	_, err = ps.Solve()
	assert.Error(t, err)

	_, err = ps.CreateRobot("test")
	require.NoError(t, err)
	require.NoError(t, ps.SetRobot("test"))

	// No boundary configurations
	_, err = ps.Solve()
	assert.Error(t, err)
}

func TestSolveAndQueryPaths(t *testing.T) {
	ps := newTestProblem(t)

	require.NoError(t, ps.SetInitialConfig([]float64{-1, 0, 1, 0}))
	require.NoError(t, ps.AddGoalConfig([]float64{1, 0, 1, 0}))

	index, err := ps.Solve()
	require.NoError(t, err)
	assert.Equal(t, 0, index)
	assert.Equal(t, 1, ps.NumberPaths())

	length, err := ps.PathLength(0)
	require.NoError(t, err)
	assert.InDelta(t, 2, length, 1e-12)

	q, err := ps.ConfigAtParam(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0, q[0], 1e-12)
	assert.InDelta(t, 0, q[1], 1e-12)

	_, err = ps.PathLength(5)
	assert.Error(t, err)
	_, err = ps.ConfigAtParam(-1, 0)
	assert.Error(t, err)
}

func TestOptimizePathAppends(t *testing.T) {
	ps := newTestProblem(t)

	require.NoError(t, ps.SetInitialConfig([]float64{-1, 0, 1, 0}))
	require.NoError(t, ps.AddGoalConfig([]float64{1, 0, 1, 0}))

	index, err := ps.Solve()
	require.NoError(t, err)

	newIndex, err := ps.OptimizePath(index)
	require.NoError(t, err)
	assert.Equal(t, index+1, newIndex)
	assert.Equal(t, 2, ps.NumberPaths())

	original, err := ps.PathLength(index)
	require.NoError(t, err)
	optimized, err := ps.PathLength(newIndex)
	require.NoError(t, err)
	assert.LessOrEqual(t, optimized, original+1e-9)
}

func TestObstacleManagement(t *testing.T) {
	ps := newTestProblem(t)

	geom, err := model.NewGeometry("box", 1, 1, 1)
	require.NoError(t, err)
	position, err := model.FromPose([]float64{0, 0, 0, 0, 0, 0, 1})
	require.NoError(t, err)

	require.NoError(t, ps.AddObstacle("wall", geom, position))
	assert.Error(t, ps.AddObstacle("wall", geom, position))
	assert.Equal(t, []string{"wall"}, ps.ObstacleNames())

	moved, err := model.FromPose([]float64{5, 0, 0, 0, 0, 0, 1})
	require.NoError(t, err)
	require.NoError(t, ps.MoveObstacle("wall", moved))

	got, err := ps.ObstaclePosition("wall")
	require.NoError(t, err)
	assert.InDelta(t, 5, got.Translation.X, 1e-12)

	assert.Error(t, ps.MoveObstacle("nosuch", moved))
}

func TestObstacleBlocksSolve(t *testing.T) {
	ps := newTestProblem(t)
	ps.SetRandomSeed(42)

	geom, err := model.NewGeometry("sphere", 0.5)
	require.NoError(t, err)
	position, err := model.FromPose([]float64{0, 0, 0, 0, 0, 0, 1})
	require.NoError(t, err)
	require.NoError(t, ps.AddObstacle("ball", geom, position))

	require.NoError(t, ps.SetInitialConfig([]float64{-1.5, 0, 1, 0}))
	require.NoError(t, ps.AddGoalConfig([]float64{1.5, 0, 1, 0}))

	index, err := ps.Solve()
	require.NoError(t, err)

	length, err := ps.PathLength(index)
	require.NoError(t, err)
	assert.Greater(t, length, 3.0, "path must detour around the obstacle")
}

func TestResetProblem(t *testing.T) {
	ps := newTestProblem(t)

	require.NoError(t, ps.SetInitialConfig([]float64{-1, 0, 1, 0}))
	require.NoError(t, ps.AddGoalConfig([]float64{1, 0, 1, 0}))
	_, err := ps.Solve()
	require.NoError(t, err)

	ps.ResetProblem()
	assert.Equal(t, 0, ps.NumberPaths())
	_, err = ps.Solve()
	assert.Error(t, err, "boundary conditions are cleared")
}

func TestGeometryRegistry(t *testing.T) {
	ps := newTestProblem(t)

	sphere, err := model.NewGeometry("sphere", 0.001)
	require.NoError(t, err)
	require.NoError(t, ps.CreateGeometry("root_body", sphere))
	assert.Error(t, ps.CreateGeometry("root_body", sphere))

	got, err := ps.Geometry("root_body")
	require.NoError(t, err)
	assert.Equal(t, sphere, got)

	_, err = ps.Geometry("nosuch")
	assert.Error(t, err)
}

func TestValidationSettings(t *testing.T) {
	ps := newTestProblem(t)

	require.NoError(t, ps.SetValidationStep(0.01))
	assert.Error(t, ps.SetValidationStep(0))
	require.NoError(t, ps.SetMaxIterations(100))
	assert.Error(t, ps.SetMaxIterations(-1))
}
