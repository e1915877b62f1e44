package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Wipe every row from the graph store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := connect()
			if err != nil {
				return err
			}
			if err := d.store.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("store reset")
			return nil
		},
	}
}
