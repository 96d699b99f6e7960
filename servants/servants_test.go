package servants

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/solver"
)

func newServants(t *testing.T) (*RobotServant, *ProblemServant, *ObstacleServant) {
	t.Helper()

	ps, err := solver.NewProblemSolver()
	require.NoError(t, err)
	t.Cleanup(ps.Close)

	return NewRobotServant(ps), NewProblemServant(ps), NewObstacleServant(ps)
}

// identityPose is the 7-float pose of the identity placement
var identityPose = []float64{0, 0, 0, 0, 0, 0, 1}

func call(t *testing.T, s interface {
	Dispatch(string, []interface{}) (interface{}, error)
}, op string, args ...interface{}) interface{} {
	t.Helper()
	result, err := s.Dispatch(op, args)
	require.NoError(t, err, op)
	return result
}

func TestRobotConstructionFlow(t *testing.T) {
	robot, _, _ := newServants(t)

	call(t, robot, "createRobot", "test")
	call(t, robot, "appendJoint", "test", "", "root_joint", "planar", identityPose)
	call(t, robot, "createSphere", "root_body_geom", 0.1)
	call(t, robot, "addObjectToJoint", "test", "root_joint", "root_body_geom", identityPose)
	call(t, robot, "setRobot", "test")

	names := call(t, robot, "getRobotNames")
	assert.Equal(t, []string{"test"}, names)

	joints := call(t, robot, "getJointNames")
	assert.Equal(t, []string{"root_joint"}, joints)

	size := call(t, robot, "getConfigSize")
	assert.Equal(t, int64(4), size)

	q := call(t, robot, "getCurrentConfig")
	assert.Equal(t, []float64{0, 0, 1, 0}, q)
}

func TestRobotConfigOperations(t *testing.T) {
	robot, _, _ := newServants(t)

	call(t, robot, "createRobot", "test")
	call(t, robot, "appendJoint", "test", "", "root_joint", "planar", identityPose)
	call(t, robot, "setRobot", "test")

	call(t, robot, "setJointBounds", "test", "root_joint", []float64{-2, 2, -2, 2})
	call(t, robot, "setCurrentConfig", []float64{1, 0.5, 0, 1})

	pose := call(t, robot, "getJointPosition", "root_joint")
	got, ok := pose.([]float64)
	require.True(t, ok)
	assert.InDelta(t, 1, got[0], 1e-12)
	assert.InDelta(t, 0.5, got[1], 1e-12)

	// Out-of-range config is rejected
	_, err := robot.Dispatch("setCurrentConfig", []interface{}{[]float64{1, 2}})
	assert.Error(t, err)
}

func TestSetJointBoundsBeforeSelection(t *testing.T) {
	robot, _, _ := newServants(t)

	call(t, robot, "createRobot", "test")
	call(t, robot, "appendJoint", "test", "", "root_joint", "planar", identityPose)

	// Bounds name the robot explicitly, so no setRobot is needed first
	call(t, robot, "setJointBounds", "test", "root_joint", []float64{-3, 3, -3, 3})
	call(t, robot, "setRobot", "test")

	_, err := robot.Dispatch("setJointBounds", []interface{}{
		"nosuch", "root_joint", []float64{-1, 1, -1, 1},
	})
	assert.Error(t, err, "unknown robot")

	_, err = robot.Dispatch("setJointBounds", []interface{}{
		"test", "root_joint", []float64{-1, 1, -1},
	})
	assert.Error(t, err, "bounds must come in pairs")
}

func TestRobotDispatchErrors(t *testing.T) {
	robot, _, _ := newServants(t)

	_, err := robot.Dispatch("nosuchMethod", nil)
	assert.Error(t, err)

	_, err = robot.Dispatch("createRobot", []interface{}{})
	assert.Error(t, err, "arity is checked")

	_, err = robot.Dispatch("createRobot", []interface{}{42})
	assert.Error(t, err, "argument types are checked")

	_, err = robot.Dispatch("getJointNames", nil)
	assert.Error(t, err, "no robot selected yet")

	_, err = robot.Dispatch("appendJoint", []interface{}{
		"nosuch", "", "root_joint", "planar", identityPose,
	})
	assert.Error(t, err, "unknown robot")
}

func TestProblemSolveFlow(t *testing.T) {
	robot, problem, _ := newServants(t)

	call(t, robot, "createRobot", "test")
	call(t, robot, "appendJoint", "test", "", "root_joint", "planar", identityPose)
	call(t, robot, "setJointBounds", "test", "root_joint", []float64{-2, 2, -2, 2})
	call(t, robot, "createSphere", "root_body_geom", 0.1)
	call(t, robot, "addObjectToJoint", "test", "root_joint", "root_body_geom", identityPose)
	call(t, robot, "setRobot", "test")

	call(t, problem, "setInitialConfig", []float64{-1, 0, 1, 0})
	call(t, problem, "addGoalConfig", []float64{1, 0, 1, 0})

	index := call(t, problem, "solve")
	assert.Equal(t, int64(0), index)
	assert.Equal(t, int64(1), call(t, problem, "numberPaths"))

	length := call(t, problem, "pathLength", int64(0))
	assert.InDelta(t, 2, length.(float64), 1e-12)

	q := call(t, problem, "configAtParam", int64(0), 1.0)
	mid, ok := q.([]float64)
	require.True(t, ok)
	assert.InDelta(t, 0, mid[0], 1e-12)

	newIndex := call(t, problem, "optimizePath", int64(0))
	assert.Equal(t, int64(1), newIndex)

	call(t, problem, "resetProblem")
	assert.Equal(t, int64(0), call(t, problem, "numberPaths"))
}

func TestProblemSettings(t *testing.T) {
	robot, problem, _ := newServants(t)

	call(t, robot, "createRobot", "test")
	call(t, robot, "appendJoint", "test", "", "root_joint", "planar", identityPose)
	call(t, robot, "setRobot", "test")

	call(t, problem, "setRandomSeed", int64(42))
	call(t, problem, "setMaxIterations", int64(500))
	call(t, problem, "setValidationStep", 0.02)

	_, err := problem.Dispatch("setValidationStep", []interface{}{0.0})
	assert.Error(t, err)

	call(t, problem, "resetGoalConfigs")
	_, err = problem.Dispatch("solve", nil)
	assert.Error(t, err, "no boundary configurations")
}

func TestObstacleFlow(t *testing.T) {
	robot, _, obstacle := newServants(t)

	call(t, robot, "createRobot", "test")
	call(t, robot, "appendJoint", "test", "", "root_joint", "planar", identityPose)
	call(t, robot, "setRobot", "test")
	call(t, robot, "createBox", "wall", 1.0, 1.0, 1.0)

	call(t, obstacle, "addObstacle", "wall", identityPose)
	assert.Equal(t, []string{"wall"}, call(t, obstacle, "getObstacleNames"))

	call(t, obstacle, "moveObstacle", "wall", []float64{5, 0, 0, 0, 0, 0, 1})
	pose := call(t, obstacle, "getObstaclePosition", "wall")
	got, ok := pose.([]float64)
	require.True(t, ok)
	assert.InDelta(t, 5, got[0], 1e-12)

	_, err := obstacle.Dispatch("addObstacle", []interface{}{"nosuch", identityPose})
	assert.Error(t, err, "geometry must be registered first")
}

func TestCorbaserverLifecycle(t *testing.T) {
	cs, err := NewCorbaserver("127.0.0.1", 0, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, cs.Start())
	defer cs.Stop()

	assert.Greater(t, cs.Port(), 0)
	assert.NotNil(t, cs.ProblemSolver())
}

func TestPluginRegistry(t *testing.T) {
	calls := 0
	RegisterPlugin("test-plugin", func(*Corbaserver) error {
		calls++
		return nil
	})

	cs, err := NewCorbaserver("127.0.0.1", 0, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, cs.Start())
	defer cs.Stop()

	require.NoError(t, cs.LoadPlugin("test-plugin"))
	require.NoError(t, cs.LoadPlugin("test-plugin"))
	assert.Equal(t, 1, calls, "loading twice is a no-op")
	assert.Equal(t, []string{"test-plugin"}, cs.LoadedPlugins())

	assert.Error(t, cs.LoadPlugin("nosuch"))

	tools := NewToolsServant(cs)
	loaded := call(t, tools, "getLoadedPlugins")
	assert.Equal(t, []string{"test-plugin"}, loaded)
}
