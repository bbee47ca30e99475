package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/calvinmclean/servospeed/bench"
	"github.com/calvinmclean/servospeed/board"
)

func boardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Run the console on this Linux board's GPIO",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			b, err := board.Open(cfg.Board)
			if err != nil {
				return err
			}
			defer func() {
				if err := b.Close(); err != nil {
					log.Printf("board: error closing: %v", err)
				}
			}()

			stack, err := bench.Build(b.Hardware(), cfg.Trial, cfg.Profile, os.Stdout)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			return stack.Session.Run(ctx, os.Stdin)
		},
	}
}
