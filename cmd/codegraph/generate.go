package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <container-id>",
		Short: "Regenerate one container's source text from its graph blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := connect()
			if err != nil {
				return err
			}

			result, err := d.generator.GenerateHierarchical(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.GeneratedCode)
			fmt.Fprintf(cmd.ErrOrStderr(), "status=%s blocks=%d quality=%.2f\n", result.Status, result.TotalBlocks, result.QualityScore)
			return nil
		},
	}
}
