package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calvinmclean/servospeed/controller"
)

func portsCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "ports",
		Short: "List serial ports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			list := controller.GetSerialPorts
			if all {
				list = controller.GetAllSerialPorts
			}

			ports, err := list()
			if errors.Is(err, controller.ErrNoUSBSerial) {
				fmt.Fprintln(cmd.OutOrStdout(), "No USB serial ports found")
				return nil
			}
			if err != nil {
				return err
			}

			for _, p := range ports {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include ports that are not USB")

	return cmd
}
