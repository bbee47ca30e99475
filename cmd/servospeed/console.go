package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/calvinmclean/servospeed/controller"
)

func consoleCmd() *cobra.Command {
	var port string
	var baud int

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Relay the terminal to the device console over serial",
		Long: `Relay the terminal to the device console over serial. Results are reported to
the configured servers and summarized on exit. Use port "none" for the simulator.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newConsoleController(cmd, port, baud)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := signalContext()
			defer cancel()

			err = c.Run(ctx, os.Stdin, os.Stdout)
			if err != nil {
				return err
			}

			log.Printf("console: %s", c.Summary())
			return nil
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Serial port, empty for the first USB port")
	cmd.Flags().IntVarP(&baud, "baud", "b", 115200, "Baud rate")

	return cmd
}

// newConsoleController uses the environment alone when no config file or flags are given
func newConsoleController(cmd *cobra.Command, port string, baud int) (*controller.Controller, error) {
	if configPath == "" && !cmd.Flags().Changed("port") && !cmd.Flags().Changed("baud") {
		return controller.NewFromEnv()
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("port") {
		cfg.Serial.Port = port
	}
	if cmd.Flags().Changed("baud") {
		cfg.Serial.BaudRate = baud
	}

	return controller.New(cfg)
}
