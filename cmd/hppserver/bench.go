package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/bench"
	"github.com/humanoid-path-planner/hpp-corbaserver-go/hpp"
)

func newBenchCmd(opts *cliOptions) *cobra.Command {
	var (
		trials   int
		name     string
		report   string
		optimize bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark the planner on the demo scene",
		Long: `bench starts an in-process corbaserver, builds the demo scene and runs a
benchmark campaign over it: one seeded solve per trial. The campaign is
stored in the configured SQLite database and can be rendered as an HTML
report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			cfg.Port = 0

			cs, err := startServer(cfg)
			if err != nil {
				return err
			}
			defer cs.Stop()

			client, err := hpp.NewClient(cfg.Host, cs.Port())
			if err != nil {
				return err
			}
			defer client.Close()

			if err := buildDemoScene(client); err != nil {
				return err
			}
			problem := client.Problem()
			if err := problem.SetInitialConfig([]float64{-1.5, 0, 1, 0}); err != nil {
				return err
			}
			if err := problem.AddGoalConfig([]float64{1.5, 0, 1, 0}); err != nil {
				return err
			}

			seeds := make([]int64, trials)
			for i := range seeds {
				seeds[i] = int64(i + 1)
			}

			b := hpp.NewBenchmark(client)
			b.SetOptimize(optimize)
			campaign := b.Do(name, seeds)

			summary := bench.Summarize(campaign)
			log.Info().
				Str("campaign", campaign.ID).
				Float64("success_rate", summary.SuccessRate).
				Dur("mean_time", summary.TimeMean).
				Float64("mean_length", summary.LengthMean).
				Msg("campaign summary")

			if err := b.Save(cfg.Bench.Database, campaign); err != nil {
				return err
			}
			log.Info().Str("db", cfg.Bench.Database).Msg("campaign saved")

			if report != "" {
				f, err := os.Create(report)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := b.WriteReport(f, campaign); err != nil {
					return err
				}
				log.Info().Str("file", report).Msg("report written")
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&trials, "trials", "n", 20, "number of seeded trials")
	cmd.Flags().StringVar(&name, "name", "demo", "campaign name")
	cmd.Flags().StringVar(&report, "report", "", "write an HTML report to this file")
	cmd.Flags().BoolVar(&optimize, "optimize", true, "run the shortcut optimizer after each solve")
	return cmd
}
