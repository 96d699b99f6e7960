// Package bench runs planning benchmark campaigns: repeated solves with
// varying random seeds, collected into trials with summary statistics,
// persistent storage and an HTML report.
package bench

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Planner is the planning surface a campaign exercises. The client-side
// problem facade satisfies it, as does the in-process solver behind a thin
// adapter.
type Planner interface {
	SetRandomSeed(seed int64) error
	Solve() (int, error)
	OptimizePath(index int) (int, error)
	PathLength(index int) (float64, error)
}

// Trial is the outcome of one seeded solve
type Trial struct {
	Seed      int64
	Duration  time.Duration
	Length    float64
	Optimized float64
	Success   bool
	Error     string
}

// Campaign is a named batch of trials
type Campaign struct {
	ID      string
	Name    string
	Created time.Time
	Trials  []Trial
}

// Runner drives benchmark campaigns against a planner
type Runner struct {
	planner Planner
	log     zerolog.Logger

	// Optimize runs the shortcut optimizer after each successful solve and
	// records the optimized length
	Optimize bool
}

// NewRunner creates a campaign runner. The logger defaults to a no-op;
// replace it with SetLogger.
func NewRunner(planner Planner) *Runner {
	return &Runner{planner: planner, log: zerolog.Nop()}
}

// SetLogger sets the logger used during campaign runs
func (r *Runner) SetLogger(log zerolog.Logger) {
	r.log = log
}

// Run executes one trial per seed. Failed solves are recorded as
// unsuccessful trials; only transport-level breakage aborts the campaign.
func (r *Runner) Run(name string, seeds []int64) *Campaign {
	campaign := &Campaign{
		ID:      uuid.NewString(),
		Name:    name,
		Created: time.Now(),
		Trials:  make([]Trial, 0, len(seeds)),
	}

	for _, seed := range seeds {
		campaign.Trials = append(campaign.Trials, r.runTrial(seed))
	}

	summary := Summarize(campaign)
	r.log.Info().
		Str("campaign", name).
		Int("trials", len(campaign.Trials)).
		Float64("success_rate", summary.SuccessRate).
		Dur("mean_time", summary.TimeMean).
		Msg("benchmark campaign finished")
	return campaign
}

// runTrial performs one seeded solve and measures it
func (r *Runner) runTrial(seed int64) Trial {
	trial := Trial{Seed: seed}

	if err := r.planner.SetRandomSeed(seed); err != nil {
		trial.Error = err.Error()
		return trial
	}

	start := time.Now()
	index, err := r.planner.Solve()
	trial.Duration = time.Since(start)
	if err != nil {
		trial.Error = err.Error()
		r.log.Debug().Int64("seed", seed).Err(err).Msg("trial failed")
		return trial
	}

	trial.Length, err = r.planner.PathLength(index)
	if err != nil {
		trial.Error = err.Error()
		return trial
	}
	trial.Success = true
	trial.Optimized = trial.Length

	if r.Optimize {
		optIndex, err := r.planner.OptimizePath(index)
		if err != nil {
			trial.Error = err.Error()
			return trial
		}
		trial.Optimized, err = r.planner.PathLength(optIndex)
		if err != nil {
			trial.Error = err.Error()
			return trial
		}
	}

	r.log.Debug().
		Int64("seed", seed).
		Dur("time", trial.Duration).
		Float64("length", trial.Length).
		Msg("trial done")
	return trial
}
