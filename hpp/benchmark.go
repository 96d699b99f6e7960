package hpp

import (
	"io"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/bench"
)

// Benchmark runs benchmark campaigns against a connected corbaserver. It
// wraps the bench runner over the client's problem facade; the robot, the
// boundary configurations and the obstacles are set up through the client
// beforehand.
type Benchmark struct {
	runner *bench.Runner
}

// NewBenchmark creates a benchmark driver for a client
func NewBenchmark(c *Client) *Benchmark {
	return &Benchmark{runner: bench.NewRunner(c.Problem())}
}

// SetOptimize also runs the shortcut optimizer after each solve
func (b *Benchmark) SetOptimize(optimize bool) {
	b.runner.Optimize = optimize
}

// Do runs one trial per seed and returns the campaign
func (b *Benchmark) Do(name string, seeds []int64) *bench.Campaign {
	return b.runner.Run(name, seeds)
}

// Save persists a campaign in a SQLite database at path
func (b *Benchmark) Save(path string, c *bench.Campaign) error {
	store, err := bench.OpenStore(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Save(c)
}

// WriteReport renders the campaign's HTML report
func (b *Benchmark) WriteReport(w io.Writer, c *bench.Campaign) error {
	return bench.WriteReport(w, c)
}
