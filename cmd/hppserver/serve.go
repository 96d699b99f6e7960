package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/config"
	"github.com/humanoid-path-planner/hpp-corbaserver-go/servants"
)

// loadConfig reads the configuration and applies its log settings; the
// --log and --pretty flags take precedence
func loadConfig(opts *cliOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.logLevel == "" {
		if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
			zerolog.SetGlobalLevel(level)
		}
	}
	if cfg.Log.Pretty && !opts.pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return cfg, nil
}

// startServer builds a corbaserver from the configuration and starts it
func startServer(cfg *config.Config) (*servants.Corbaserver, error) {
	cs, err := servants.NewCorbaserver(cfg.Host, cfg.Port, log.Logger)
	if err != nil {
		return nil, err
	}

	ps := cs.ProblemSolver()
	if err := ps.SetMaxIterations(cfg.Planner.MaxIterations); err != nil {
		ps.Close()
		return nil, err
	}
	if err := ps.SetValidationStep(cfg.Planner.ValidationStep); err != nil {
		ps.Close()
		return nil, err
	}
	ps.SetRandomSeed(cfg.Planner.Seed)

	if err := cs.Start(); err != nil {
		ps.Close()
		return nil, err
	}

	for _, plugin := range cfg.Plugins {
		if err := cs.LoadPlugin(plugin); err != nil {
			cs.Stop()
			return nil, err
		}
	}
	return cs, nil
}

func newServeCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the corbaserver until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			cs, err := startServer(cfg)
			if err != nil {
				return err
			}
			defer cs.Stop()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			received := <-sig
			log.Info().Stringer("signal", received).Msg("shutting down")
			return nil
		},
	}
}
