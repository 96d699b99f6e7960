package solver

import (
	"fmt"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/model"
)

// Path is a parameterized curve in configuration space. Parameters run from
// 0 to Length(), measured with the problem's distance.
type Path interface {
	Initial() []float64
	End() []float64
	Length() float64
	// ConfigAt returns the configuration at the given parameter, clamped
	// to [0, Length()]
	ConfigAt(param float64) ([]float64, error)
}

// StraightPath linearly interpolates between two configurations,
// renormalizing rotational blocks
type StraightPath struct {
	device *model.Device
	init   []float64
	end    []float64
	length float64
}

// NewStraightPath builds a straight path; its length is the weighted
// configuration distance between the ends
func NewStraightPath(device *model.Device, distance *WeightedDistance, init, end []float64) (*StraightPath, error) {
	length, err := distance.Value(init, end)
	if err != nil {
		return nil, err
	}

	p := &StraightPath{
		device: device,
		init:   make([]float64, len(init)),
		end:    make([]float64, len(end)),
		length: length,
	}
	copy(p.init, init)
	copy(p.end, end)
	return p, nil
}

// Initial returns the start configuration
func (p *StraightPath) Initial() []float64 { return p.init }

// End returns the end configuration
func (p *StraightPath) End() []float64 { return p.end }

// Length returns the path length
func (p *StraightPath) Length() float64 { return p.length }

// ConfigAt returns the configuration at the given parameter
func (p *StraightPath) ConfigAt(param float64) ([]float64, error) {
	if p.length == 0 {
		result := make([]float64, len(p.init))
		copy(result, p.init)
		return result, nil
	}

	s := param / p.length
	if s < 0 {
		s = 0
	}
	if s > 1 {
		s = 1
	}
	return Interpolate(p.device, p.init, p.end, s)
}

// PathVector concatenates paths end to end
type PathVector struct {
	segments []Path
	length   float64
}

// NewPathVector builds a path vector from consecutive segments
func NewPathVector(segments ...Path) (*PathVector, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("path vector requires at least one segment")
	}

	pv := &PathVector{segments: segments}
	for _, seg := range segments {
		pv.length += seg.Length()
	}
	return pv, nil
}

// Segments returns the concatenated paths
func (pv *PathVector) Segments() []Path { return pv.segments }

// Initial returns the start configuration of the first segment
func (pv *PathVector) Initial() []float64 { return pv.segments[0].Initial() }

// End returns the end configuration of the last segment
func (pv *PathVector) End() []float64 { return pv.segments[len(pv.segments)-1].End() }

// Length returns the total length
func (pv *PathVector) Length() float64 { return pv.length }

// ConfigAt returns the configuration at the given parameter
func (pv *PathVector) ConfigAt(param float64) ([]float64, error) {
	if param <= 0 {
		return pv.segments[0].ConfigAt(0)
	}

	remaining := param
	for _, seg := range pv.segments {
		if remaining <= seg.Length() {
			return seg.ConfigAt(remaining)
		}
		remaining -= seg.Length()
	}

	last := pv.segments[len(pv.segments)-1]
	return last.ConfigAt(last.Length())
}
