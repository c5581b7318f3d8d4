package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"idlwrap/pkg/cli"
)

var (
	// Global flags
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "idlwrap",
	Short: "idlwrap - interface file front end for wrapper generation",
	Long: `idlwrap parses the interface files of a wrapper generator, builds their
namespace tree and checks that every type reference names exactly one declaration.

Qualified names such as gtsam::noiseModel::Base are looked up from the top-level
namespace. Unqualified names are looked up from the enclosing namespace outwards.
Types the generator maps natively (builtins, std::*, Eigen::*) are configured in
resolution.external_types.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit status.
func Execute() int {
	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return cli.ExitCode(err)
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "idlwrap.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override log format (json, text, console)")
}
