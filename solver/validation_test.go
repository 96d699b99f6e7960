package solver

import (
	"runtime"
	"testing"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/model"
)

// sphereObstacleAt places a sphere obstacle in the world
func sphereObstacleAt(t *testing.T, radius, x, y, z float64) model.PlacedObject {
	t.Helper()

	geom, err := model.NewGeometry("sphere", radius)
	require.NoError(t, err)
	position, err := model.FromPose([]float64{x, y, z, 0, 0, 0, 1})
	require.NoError(t, err)

	return model.PlacedObject{
		Object:   &model.Object{Name: "obstacle", Geometry: geom},
		Position: position,
	}
}

func TestValidateConfig(t *testing.T) {
	d := newPlanarRobot(t)
	obstacles := []model.PlacedObject{sphereObstacleAt(t, 0.5, 0, 0, 0)}
	v := NewValidator(d, obstacles, 0.05, nil)

	// Robot body sphere (r=0.1) far from the obstacle
	ok, err := v.ValidateConfig([]float64{1.5, 0, 1, 0})
	require.NoError(t, err)
	assert.True(t, ok)

	// Robot at the obstacle center
	ok, err = v.ValidateConfig([]float64{0, 0, 1, 0})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidatePathSerial(t *testing.T) {
	d := newPlanarRobot(t)
	obstacles := []model.PlacedObject{sphereObstacleAt(t, 0.5, 0, 0, 0)}
	v := NewValidator(d, obstacles, 0.05, nil)
	dist := NewWeightedDistance(d)

	// Straight through the obstacle
	blocked, err := NewStraightPath(d, dist, []float64{-1.5, 0, 1, 0}, []float64{1.5, 0, 1, 0})
	require.NoError(t, err)
	ok, failAt, err := v.ValidatePath(blocked)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, failAt, 0.0)
	assert.Less(t, failAt, blocked.Length())

	// Straight past the obstacle
	clear, err := NewStraightPath(d, dist, []float64{-1.5, 1.5, 1, 0}, []float64{1.5, 1.5, 1, 0})
	require.NoError(t, err)
	ok, _, err = v.ValidatePath(clear)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValidatePathParallel(t *testing.T) {
	pool, err := ants.NewPool(runtime.NumCPU())
	require.NoError(t, err)
	defer pool.Release()

	d := newPlanarRobot(t)
	obstacles := []model.PlacedObject{sphereObstacleAt(t, 0.5, 0, 0, 0)}
	v := NewValidator(d, obstacles, 0.01, pool)
	dist := NewWeightedDistance(d)

	blocked, err := NewStraightPath(d, dist, []float64{-1.5, 0, 1, 0}, []float64{1.5, 0, 1, 0})
	require.NoError(t, err)
	ok, failAt, err := v.ValidatePath(blocked)
	require.NoError(t, err)
	assert.False(t, ok)

	// The parallel validator must agree with the serial one on the first
	// colliding parameter
	serial := NewValidator(d, obstacles, 0.01, nil)
	okSerial, serialFailAt, err := serial.ValidatePath(blocked)
	require.NoError(t, err)
	assert.False(t, okSerial)
	assert.InDelta(t, serialFailAt, failAt, 1e-9)

	clear, err := NewStraightPath(d, dist, []float64{-1.5, 1.5, 1, 0}, []float64{1.5, 1.5, 1, 0})
	require.NoError(t, err)
	ok, _, err = v.ValidatePath(clear)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValidatorWithoutObstacles(t *testing.T) {
	d := newPlanarRobot(t)
	v := NewValidator(d, nil, 0, nil)

	ok, err := v.ValidateConfig([]float64{0, 0, 1, 0})
	require.NoError(t, err)
	assert.True(t, ok)
}
