package main

import (
	"fmt"

	"github.com/prevostcorentin/ppm-steg/pkg/ppm/stream"
	"github.com/prevostcorentin/ppm-steg/pkg/steg"
	"github.com/prevostcorentin/ppm-steg/pkg/utils/permissions"
	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	mode := permissions.NewMode()
	var force bool
	var width, height uint
	var scaleFor string

	cmd := &cobra.Command{
		Use:   "convert <image> <output.ppm>",
		Short: "Turn a PNG, JPEG, GIF, BMP or TIFF image into a binary PPM carrier",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := steg.ConvertOptions{
				SourcePath: args[0],
				OutputPath: args[1],
				Width:      width,
				Height:     height,
				Mode:       mode.FileMode(),
				Overwrite:  force,
			}

			if scaleFor != "" {
				payload, err := stream.OpenPayload(scaleFor)
				if err != nil {
					return err
				}
				size, err := payload.Size()
				payload.Close()
				if err != nil {
					return err
				}
				opts.FitPayloadBytes = size
			}

			result, err := steg.ConvertToCarrier(opts, a.logger.Named("convert"))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d from %s), room for %d bytes\n",
				args[1], result.Info.Width, result.Info.Height, result.SourceFormat, result.Info.MaxPayload)
			return nil
		},
	}

	cmd.Flags().Var(mode, "mode", "Permissions of the output file")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing output file")
	cmd.Flags().UintVar(&width, "width", 0, "Resize to this width (0 keeps the aspect ratio)")
	cmd.Flags().UintVar(&height, "height", 0, "Resize to this height (0 keeps the aspect ratio)")
	cmd.Flags().StringVar(&scaleFor, "scale-for", "", "Upscale the image until it can hold this file")
	return cmd
}
