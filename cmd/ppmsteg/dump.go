package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/prevostcorentin/ppm-steg/pkg/steg"
	"github.com/spf13/cobra"
)

func newDumpCmd(a *app) *cobra.Command {
	var asJSON, noColor bool

	cmd := &cobra.Command{
		Use:   "dump <image.ppm>",
		Short: "Print the parsed header of a PPM image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := steg.Describe(args[0], a.logger.Named("dump"))
			if err != nil {
				return err
			}

			out, colored := terminalOutput(cmd.OutOrStdout())
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			printHeaderInfo(out, info, colored && !noColor)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the header as JSON")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	return cmd
}

// terminalOutput wraps stdout for ANSI colors when it is a terminal
func terminalOutput(w io.Writer) (io.Writer, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return w, false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return w, false
	}
	return colorable.NewColorable(f), true
}

func printHeaderInfo(w io.Writer, info *steg.HeaderInfo, colored bool) {
	label := color.New(color.FgCyan, color.Bold)
	value := color.New(color.FgWhite)
	good := color.New(color.FgGreen)
	muted := color.New(color.FgYellow)
	for _, c := range []*color.Color{label, value, good, muted} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	row := func(name string, c *color.Color, format string, args ...any) {
		label.Fprintf(w, "%-18s", name+":")
		c.Fprintf(w, format, args...)
		fmt.Fprintln(w)
	}

	row("Colors", value, "%s (%s)", info.Type, info.Tag)
	row("width x height", value, "%dx%d", info.Width, info.Height)
	row("max color value", value, "%d", info.MaxValue)
	row("header bytes", value, "%d", info.HeaderBytes)
	row("pixel bytes", value, "%d (%d present)", info.PixelBytes, info.AvailableBytes)
	row("max payload", value, "%d bytes", info.MaxPayload)
	if info.EmbeddedPayload != nil {
		row("embedded payload", good, "%d bytes", *info.EmbeddedPayload)
	} else {
		row("embedded payload", muted, "none")
	}
}
