package main

import (
	"fmt"

	"github.com/prevostcorentin/ppm-steg/pkg/steg"
	"github.com/spf13/cobra"
)

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <image.ppm>",
		Short: "Check that an image carries a revealable payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := steg.Verify(args[0], a.logger.Named("verify"))
			if report != nil {
				for _, c := range report.Checks {
					if c.Passed() {
						fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %s\n", c.Name, c.Detail)
					} else {
						fmt.Fprintf(cmd.OutOrStdout(), "✗ %s: %v\n", c.Name, c.Err)
					}
				}
			}
			if err != nil {
				return fmt.Errorf("verification of %s failed: %w", args[0], err)
			}
			return nil
		},
	}
}
