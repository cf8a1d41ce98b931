package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/prevostcorentin/ppm-steg/pkg/logging"
	"github.com/spf13/cobra"
)

const version = "0.2.0"

func getBuildTimestamp() string {
	// Try to get vcs.time from build info
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	// Fallback to binary modification time
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "ppmsteg %s\n", version)
	fmt.Fprintf(w, "Built: %s\n", getBuildTimestamp())
}

// app carries state shared by every subcommand
type app struct {
	logLevel    string
	versionFlag bool
	logger      hclog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: hclog.NewNullLogger()}

	rootCmd := &cobra.Command{
		Use:   "ppmsteg",
		Short: "Hide files inside PPM images",
		Long: `Hide a file in the two low-order bits of a PPM image's pixel bytes,
and reveal it again. The hidden length is stored in a header comment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level, source := logging.ResolveLevel(a.logLevel)
			a.logger = logging.NewLogger("ppmsteg", level, cmd.ErrOrStderr())
			a.logger.Debug("Log level", "level", level, "source", source)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.versionFlag {
				printVersion(cmd.OutOrStdout())
				return nil
			}
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.Flags().BoolVarP(&a.versionFlag, "version", "V", false, "Show version information")

	rootCmd.AddCommand(
		newHideCmd(a),
		newRevealCmd(a),
		newDumpCmd(a),
		newVerifyCmd(a),
		newConvertCmd(a),
	)
	return rootCmd
}

func main() {
	// Handle --version or -V before cobra parses other flags
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		printVersion(os.Stdout)
		os.Exit(0)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
