package main

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/oxhq/codegraph/validate"
)

func newRoundTripCmd() *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "round-trip <container-id>",
		Short: "Regenerate a container and report its accuracy against the stored original",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := connect()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			container, err := d.store.GetContainer(ctx, args[0])
			if err != nil {
				return err
			}

			result, err := d.generator.GenerateHierarchical(ctx, args[0])
			if err != nil {
				return err
			}

			if !container.HasSourceCode() {
				fmt.Printf("container %s has no original source to compare (already eliminated)\n", args[0])
				fmt.Println(result.GeneratedCode)
				return nil
			}

			accuracy := validate.Accuracy(container.SourceCode, result.GeneratedCode)
			fmt.Printf("accuracy=%.4f formatting_variance=%.4f\n", accuracy, validate.FormattingVariance(container.SourceCode, result.GeneratedCode))

			if showDiff {
				diff := difflib.UnifiedDiff{
					A:        difflib.SplitLines(container.SourceCode),
					B:        difflib.SplitLines(result.GeneratedCode),
					FromFile: container.OriginalPath,
					ToFile:   container.OriginalPath + " (regenerated)",
					Context:  3,
				}
				text, err := difflib.GetUnifiedDiffString(diff)
				if err != nil {
					return err
				}
				fmt.Print(text)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a unified diff between the original and regenerated text")
	return cmd
}
