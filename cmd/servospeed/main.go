package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/calvinmclean/servospeed/config"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "servospeed",
		Short: "Measure servo transition speed",
		Long: `servospeed drives a servo between two positions and times how long it takes to
reach the target using the servo's completion signal. The console runs on a
microcontroller, a Linux board or a simulator.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")

	rootCmd.AddCommand(simCmd())
	rootCmd.AddCommand(consoleCmd())
	rootCmd.AddCommand(boardCmd())
	rootCmd.AddCommand(portsCmd())
	rootCmd.AddCommand(uiCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
