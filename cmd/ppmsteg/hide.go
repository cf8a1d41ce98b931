package main

import (
	"fmt"

	"github.com/prevostcorentin/ppm-steg/pkg/steg"
	"github.com/prevostcorentin/ppm-steg/pkg/utils/permissions"
	"github.com/spf13/cobra"
)

func newHideCmd(a *app) *cobra.Command {
	mode := permissions.NewMode()
	var force bool
	var checksum string

	cmd := &cobra.Command{
		Use:   "hide <carrier.ppm> <payload> <output.ppm>",
		Short: "Hide a file inside a binary PPM image",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			algo, err := steg.ParseChecksumAlgorithm(checksum)
			if err != nil {
				return err
			}

			result, err := steg.Hide(steg.HideOptions{
				CarrierPath: args[0],
				PayloadPath: args[1],
				OutputPath:  args[2],
				Mode:        mode.FileMode(),
				Overwrite:   force,
				Checksum:    algo,
			}, a.logger.Named("hide"))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Hid %d bytes in %s (%s)\n",
				result.PayloadBytes, args[2], result.Checksum)
			return nil
		},
	}

	cmd.Flags().Var(mode, "mode", "Permissions of the output file")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing output file")
	cmd.Flags().StringVar(&checksum, "checksum", "sha256", "Payload checksum algorithm (sha256, sha512, adler32, blake2b)")
	return cmd
}
