package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/hpp"
)

// buildDemoScene constructs the planar demo robot and a blocking obstacle
// through the client, the way an external client would
func buildDemoScene(c *hpp.Client) error {
	robot := c.Robot()
	identity := []float64{0, 0, 0, 0, 0, 0, 1}

	if err := robot.CreateRobot("demo"); err != nil {
		return err
	}
	if err := robot.AppendJoint("demo", "", "root_joint", "planar", identity); err != nil {
		return err
	}
	if err := robot.SetJointBounds("demo", "root_joint", []float64{-2, 2, -2, 2}); err != nil {
		return err
	}
	if err := robot.CreateSphere("demo_body", 0.1); err != nil {
		return err
	}
	if err := robot.AddObjectToJoint("demo", "root_joint", "demo_body", identity); err != nil {
		return err
	}
	if err := robot.SetRobot("demo"); err != nil {
		return err
	}

	if err := robot.CreateSphere("ball", 0.4); err != nil {
		return err
	}
	return c.Obstacle().AddObstacle("ball", identity)
}

func newDemoCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run an in-process planning demo",
		Long: `demo starts a corbaserver on an ephemeral port, connects a client to it,
builds a planar robot with a spherical obstacle in its way and plans a
collision-free path around it.`,
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

			index, err := problem.Solve()
			if err != nil {
				return err
			}
			length, err := problem.PathLength(index)
			if err != nil {
				return err
			}
			log.Info().Int("path", index).Float64("length", length).Msg("solved")

			optIndex, err := problem.OptimizePath(index)
			if err != nil {
				return err
			}
			optLength, err := problem.PathLength(optIndex)
			if err != nil {
				return err
			}
			log.Info().Int("path", optIndex).Float64("length", optLength).Msg("optimized")
			return nil
		},
	}
}
