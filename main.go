// Package corbaserver is the root package of the hpp corbaserver bindings.
// It re-exports the client-side surface so callers need a single import:
// the Client, the Robot and ProblemSolver facades, the Transform type and
// the Benchmark driver.
package corbaserver

import (
	"io"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/bench"
	"github.com/humanoid-path-planner/hpp-corbaserver-go/hpp"
)

// DefaultPort is the IIOP port the corbaserver listens on by default
const DefaultPort = hpp.DefaultPort

// Re-export the client binding types
type (
	// Client holds references to the corbaserver's servants
	Client = hpp.Client

	// Robot drives the robot servant
	Robot = hpp.Robot

	// ProblemSolver drives the problem servant
	ProblemSolver = hpp.ProblemSolver

	// Obstacle drives the obstacle servant
	Obstacle = hpp.Obstacle

	// Transform is a rigid-body placement
	Transform = hpp.Transform

	// Benchmark runs benchmark campaigns against a connected corbaserver
	Benchmark = hpp.Benchmark

	// Campaign is a named batch of benchmark trials
	Campaign = bench.Campaign
)

// NewClient connects to a corbaserver and resolves its servant references
func NewClient(host string, port int) (*Client, error) {
	return hpp.NewClient(host, port)
}

// NewProblem resets the server-side problem: boundary configurations and
// stored paths are dropped, robots and obstacles survive
func NewProblem(c *Client) error {
	return hpp.NewProblem(c)
}

// LoadServerPlugin asks the server to load a named plugin
func LoadServerPlugin(c *Client, name string) error {
	return c.LoadServerPlugin(name)
}

// NewBenchmark creates a benchmark driver for a client
func NewBenchmark(c *Client) *Benchmark {
	return hpp.NewBenchmark(c)
}

// NewTransform builds a Transform from a 7-float pose
// [tx, ty, tz, qx, qy, qz, qw]
func NewTransform(pose []float64) (Transform, error) {
	return hpp.NewTransform(pose)
}

// WriteBenchmarkReport renders a campaign's HTML report
func WriteBenchmarkReport(w io.Writer, c *Campaign) error {
	return bench.WriteReport(w, c)
}
