// Command gopdr checks safety properties of small linear-integer-arithmetic
// transition systems using the IC3/Property-Directed Reachability engine in
// pkg/pdr.
package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var (
	verbose   bool
	maxFrames int
	logger    hclog.Logger
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "gopdr",
	Short: "gopdr checks safety properties over linear integer arithmetic with PDR",
	Long: `gopdr is a model checker for safety properties of transition systems
described over linear integer arithmetic. It implements Property-Directed
Reachability (IC3/PDR): frame-based forward over-approximation paired with
backward proof-obligation refinement.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := hclog.Info
		if verbose {
			level = hclog.Debug
		}
		logger = hclog.New(&hclog.LoggerOptions{
			Name:  "gopdr",
			Level: level,
		})
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level trace logging")
	rootCmd.PersistentFlags().IntVar(&maxFrames, "max-frames", 1000, "maximum number of PDR frames before giving up as Inconclusive")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
