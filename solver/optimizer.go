package solver

import (
	"math/rand"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/model"
)

// DefaultShortcutRounds is the number of shortcut attempts per optimization
const DefaultShortcutRounds = 50

// RandomShortcut shortens a path by repeatedly picking two random waypoints
// and, when the straight segment between them validates, dropping every
// waypoint in between
type RandomShortcut struct {
	device    *model.Device
	distance  *WeightedDistance
	validator *Validator
	rng       *rand.Rand
	Rounds    int
}

// NewRandomShortcut creates an optimizer with the default number of rounds
func NewRandomShortcut(device *model.Device, distance *WeightedDistance, validator *Validator, rng *rand.Rand) *RandomShortcut {
	return &RandomShortcut{
		device:    device,
		distance:  distance,
		validator: validator,
		rng:       rng,
		Rounds:    DefaultShortcutRounds,
	}
}

// Optimize returns a path no longer than the input. Single-segment paths
// are already optimal under this strategy and pass through unchanged.
func (o *RandomShortcut) Optimize(path Path) (Path, error) {
	waypoints := o.waypoints(path)
	if len(waypoints) <= 2 {
		return path, nil
	}

	for round := 0; round < o.Rounds && len(waypoints) > 2; round++ {
		i := o.rng.Intn(len(waypoints) - 1)
		j := i + 1 + o.rng.Intn(len(waypoints)-i-1)
		if j-i < 2 {
			continue
		}

		shortcut, err := NewStraightPath(o.device, o.distance, waypoints[i], waypoints[j])
		if err != nil {
			return nil, err
		}
		if ok, _, err := o.validator.ValidatePath(shortcut); err != nil {
			return nil, err
		} else if !ok {
			continue
		}

		waypoints = append(waypoints[:i+1], waypoints[j:]...)
	}

	segments := make([]Path, 0, len(waypoints)-1)
	for i := 0; i+1 < len(waypoints); i++ {
		seg, err := NewStraightPath(o.device, o.distance, waypoints[i], waypoints[i+1])
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return NewPathVector(segments...)
}

// waypoints extracts the segment endpoints of a path
func (o *RandomShortcut) waypoints(path Path) [][]float64 {
	pv, ok := path.(*PathVector)
	if !ok {
		return [][]float64{path.Initial(), path.End()}
	}

	points := [][]float64{pv.Initial()}
	for _, seg := range pv.Segments() {
		points = append(points, seg.End())
	}
	return points
}
