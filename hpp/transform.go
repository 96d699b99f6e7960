package hpp

import (
	"github.com/humanoid-path-planner/hpp-corbaserver-go/model"
)

// Transform is a rigid-body placement, re-exported so client code can
// compose poses without importing the model package
type Transform = model.Transform

// NewTransform builds a Transform from a 7-float pose
// [tx, ty, tz, qx, qy, qz, qw]
func NewTransform(pose []float64) (Transform, error) {
	return model.FromPose(pose)
}

// IdentityTransform returns the identity placement
func IdentityTransform() Transform {
	return model.Identity()
}

// NewProblem resets the server-side problem: boundary configurations and
// stored paths are dropped, robots and obstacles survive
func NewProblem(c *Client) error {
	return c.Problem().ResetProblem()
}
