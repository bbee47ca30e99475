package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/calvinmclean/servospeed/sim"
)

func simCmd() *cobra.Command {
	var secondsPer60, jitter float64
	var startTicks uint32

	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run the console against a simulated servo",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("seconds-per-60") {
				cfg.Sim.SecondsPer60 = secondsPer60
			}
			if cmd.Flags().Changed("jitter") {
				cfg.Sim.Jitter = jitter
			}
			if cmd.Flags().Changed("start-ticks") {
				cfg.Sim.StartTicks = startTicks
			}

			stack, err := sim.NewStack(cfg.Sim, cfg.Trial, cfg.Profile, os.Stdout)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			return stack.Session.Run(ctx, os.Stdin)
		},
	}

	cmd.Flags().Float64Var(&secondsPer60, "seconds-per-60", 0, "Simulated travel time for a 600us pulse width change")
	cmd.Flags().Float64Var(&jitter, "jitter", 0, "Random variation as a fraction of travel time")
	cmd.Flags().Uint32Var(&startTicks, "start-ticks", 0, "Initial counter value")

	return cmd
}
