package solver

import (
	"fmt"
	"math"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/model"
)

// DefaultValidationStep is the discretization step used when none is
// configured
const DefaultValidationStep = 0.05

// Validator checks configurations and paths against a set of world
// obstacles. Path validation samples at a fixed parameter step and checks
// the samples concurrently on a worker pool.
type Validator struct {
	device    *model.Device
	obstacles []model.PlacedObject
	step      float64
	pool      *ants.Pool
}

// NewValidator creates a validator. The pool may be nil, in which case
// samples are checked serially.
func NewValidator(device *model.Device, obstacles []model.PlacedObject, step float64, pool *ants.Pool) *Validator {
	if step <= 0 {
		step = DefaultValidationStep
	}
	return &Validator{
		device:    device,
		obstacles: obstacles,
		step:      step,
		pool:      pool,
	}
}

// ValidateConfig reports whether a configuration is collision free
func (v *Validator) ValidateConfig(q []float64) (bool, error) {
	placed, err := v.device.CollisionObjects(q)
	if err != nil {
		return false, err
	}

	for _, robotObj := range placed {
		for _, obstacle := range v.obstacles {
			if model.Collide(robotObj.Object.Geometry, robotObj.Position,
				obstacle.Object.Geometry, obstacle.Position) {
				return false, nil
			}
		}
	}
	return true, nil
}

// ValidatePath reports whether every sample along the path is collision
// free. On failure the parameter of the first colliding sample is returned.
func (v *Validator) ValidatePath(path Path) (bool, float64, error) {
	params := v.sampleParams(path)

	if v.pool == nil {
		return v.validateSerial(path, params)
	}
	return v.validateParallel(path, params)
}

// sampleParams returns the parameters to check, always including both ends
func (v *Validator) sampleParams(path Path) []float64 {
	length := path.Length()
	n := int(math.Ceil(length/v.step)) + 1
	if n < 2 {
		n = 2
	}

	params := make([]float64, n)
	for i := 0; i < n-1; i++ {
		params[i] = float64(i) * length / float64(n-1)
	}
	params[n-1] = length
	return params
}

// validateSerial checks samples one by one, stopping at the first collision
func (v *Validator) validateSerial(path Path, params []float64) (bool, float64, error) {
	for _, param := range params {
		q, err := path.ConfigAt(param)
		if err != nil {
			return false, param, err
		}
		ok, err := v.ValidateConfig(q)
		if err != nil {
			return false, param, err
		}
		if !ok {
			return false, param, nil
		}
	}
	return true, 0, nil
}

// validateParallel fans the samples out over the worker pool and reports
// the smallest colliding parameter
func (v *Validator) validateParallel(path Path, params []float64) (bool, float64, error) {
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		firstFailure = math.Inf(1)
		firstErr     error
	)

	for _, param := range params {
		param := param
		wg.Add(1)
		submitErr := v.pool.Submit(func() {
			defer wg.Done()

			q, err := path.ConfigAt(param)
			if err == nil {
				var ok bool
				ok, err = v.ValidateConfig(q)
				if err == nil && ok {
					return
				}
			}

			mu.Lock()
			if err != nil && firstErr == nil {
				firstErr = err
			}
			if param < firstFailure {
				firstFailure = param
			}
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return false, 0, fmt.Errorf("failed to submit validation task: %w", submitErr)
		}
	}

	wg.Wait()

	if firstErr != nil {
		return false, firstFailure, firstErr
	}
	if !math.IsInf(firstFailure, 1) {
		return false, firstFailure, nil
	}
	return true, 0, nil
}
