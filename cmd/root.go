package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global output flags only
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "blockscope",
	Short: "Block-level forensic evidence analyzer",
	Long: `blockscope is a read-only command-line tool for decoding block-addressable
storage evidence into forensically meaningful facts: per-block content
classification, filesystem MACB timestamps (NTFS, ext4, FAT32), and
cross-block correlation for fragmented-file reconstruction.

Works directly with raw images or device nodes without mounting. Timestamp
attribution is proximity-based and advisory; it is not a filesystem driver.

Commands:
  detect     Detect the evidence image's filesystem
  analyze    Analyze blocks and extract metadata
  correlate  Score block pairs for fragmentation reconstruction
  inspect    Show one block's features, timestamps and anomaly flags
  timeline   List recovered timestamp events in order
  report     Export the session findings as JSON`,
	Version: "0.1.0-dev",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
}
