// hppserver runs the hpp corbaserver: the CORBA server exposing the robot
// model and the path planning problem solver over IIOP.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags
var version = "dev"

// cliOptions are the persistent flags shared by the subcommands
type cliOptions struct {
	configPath string
	logLevel   string
	pretty     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "hppserver",
		Short: "Humanoid path planner CORBA server",
		Long: `hppserver exposes a robot model and a path planning problem solver as
CORBA servants over IIOP. Clients build robots, place obstacles and plan
collision-free paths through the Robot, Problem and Obstacle interfaces.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.pretty {
				log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
			}
			if opts.logLevel != "" {
				if level, err := zerolog.ParseLevel(opts.logLevel); err == nil {
					zerolog.SetGlobalLevel(level)
				} else {
					log.Warn().Str("level", opts.logLevel).Msg("unknown log level, keeping default")
				}
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "configuration file (default: $XDG_CONFIG_HOME/hpp/corbaserver.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log", "", "log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "human-readable log output")

	cmd.AddCommand(
		newServeCmd(opts),
		newDemoCmd(opts),
		newBenchCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the hppserver version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("hppserver", version)
		},
	}
}
