package main

import (
	"fmt"

	"github.com/prevostcorentin/ppm-steg/pkg/steg"
	"github.com/prevostcorentin/ppm-steg/pkg/utils/permissions"
	"github.com/spf13/cobra"
)

func newRevealCmd(a *app) *cobra.Command {
	mode := permissions.NewMode()
	var force bool
	var expectChecksum string

	cmd := &cobra.Command{
		Use:   "reveal <carrier.ppm> <output>",
		Short: "Recover a file hidden by hide",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := steg.Reveal(steg.RevealOptions{
				CarrierPath:    args[0],
				OutputPath:     args[1],
				Mode:           mode.FileMode(),
				Overwrite:      force,
				ExpectChecksum: expectChecksum,
			}, a.logger.Named("reveal"))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Revealed %d bytes to %s (%s)\n",
				result.PayloadBytes, args[1], result.Checksum)
			return nil
		},
	}

	cmd.Flags().Var(mode, "mode", "Permissions of the output file")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing output file")
	cmd.Flags().StringVar(&expectChecksum, "expect-checksum", "", "Discard the output unless the payload matches (algorithm:hex)")
	return cmd
}
