package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Geometry is a collision shape attached to a body or obstacle
type Geometry interface {
	// Kind returns the shape name: "sphere", "box" or "cylinder"
	Kind() string
	// BoundingRadius returns the radius of the smallest enclosing sphere
	// centered at the shape origin
	BoundingRadius() float64
}

// Sphere is a sphere centered at its origin
type Sphere struct {
	Radius float64
}

// Kind returns "sphere"
func (s Sphere) Kind() string { return "sphere" }

// BoundingRadius returns the sphere radius
func (s Sphere) BoundingRadius() float64 { return s.Radius }

// Box is an axis-aligned box centered at its origin, with full side lengths
type Box struct {
	X, Y, Z float64
}

// Kind returns "box"
func (b Box) Kind() string { return "box" }

// BoundingRadius returns the half-diagonal of the box
func (b Box) BoundingRadius() float64 {
	return 0.5 * math.Sqrt(b.X*b.X+b.Y*b.Y+b.Z*b.Z)
}

// Cylinder is a cylinder along its z axis, centered at its origin
type Cylinder struct {
	Radius float64
	Length float64
}

// Kind returns "cylinder"
func (c Cylinder) Kind() string { return "cylinder" }

// BoundingRadius encloses the rim of the cylinder
func (c Cylinder) BoundingRadius() float64 {
	half := c.Length / 2
	return math.Sqrt(c.Radius*c.Radius + half*half)
}

// NewGeometry validates and constructs a shape by kind
func NewGeometry(kind string, dims ...float64) (Geometry, error) {
	switch kind {
	case "sphere":
		if len(dims) != 1 || dims[0] <= 0 {
			return nil, fmt.Errorf("sphere requires one positive radius")
		}
		return Sphere{Radius: dims[0]}, nil
	case "box":
		if len(dims) != 3 || dims[0] <= 0 || dims[1] <= 0 || dims[2] <= 0 {
			return nil, fmt.Errorf("box requires three positive side lengths")
		}
		return Box{X: dims[0], Y: dims[1], Z: dims[2]}, nil
	case "cylinder":
		if len(dims) != 2 || dims[0] <= 0 || dims[1] <= 0 {
			return nil, fmt.Errorf("cylinder requires positive radius and length")
		}
		return Cylinder{Radius: dims[0], Length: dims[1]}, nil
	default:
		return nil, fmt.Errorf("unknown geometry kind %q", kind)
	}
}

// Object is a placed instance of a geometry: on a robot body it is placed
// relative to the joint frame, as an obstacle relative to the world frame
type Object struct {
	Name     string
	Geometry Geometry
	Position Transform
}

// Collide reports whether two placed geometries overlap. Sphere pairs and
// sphere-box pairs are exact; anything involving a box-box or cylinder pair
// falls back to bounding spheres.
func Collide(g1 Geometry, p1 Transform, g2 Geometry, p2 Transform) bool {
	s1, ok1 := g1.(Sphere)
	s2, ok2 := g2.(Sphere)

	switch {
	case ok1 && ok2:
		d := r3.Norm(r3.Sub(p1.Translation, p2.Translation))
		return d <= s1.Radius+s2.Radius

	case ok1:
		if b, ok := g2.(Box); ok {
			return sphereBoxCollide(s1, p1, b, p2)
		}

	case ok2:
		if b, ok := g1.(Box); ok {
			return sphereBoxCollide(s2, p2, b, p1)
		}
	}

	d := r3.Norm(r3.Sub(p1.Translation, p2.Translation))
	return d <= g1.BoundingRadius()+g2.BoundingRadius()
}

// sphereBoxCollide tests a sphere against a box by clamping the sphere
// center, expressed in the box frame, to the box extents
func sphereBoxCollide(s Sphere, sPos Transform, b Box, bPos Transform) bool {
	center := bPos.Inverse().TransformPoint(sPos.Translation)

	closest := r3.Vec{
		X: clamp(center.X, -b.X/2, b.X/2),
		Y: clamp(center.Y, -b.Y/2, b.Y/2),
		Z: clamp(center.Z, -b.Z/2, b.Z/2),
	}

	return r3.Norm(r3.Sub(center, closest)) <= s.Radius
}

// clamp restricts v to [lo, hi]
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
