package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [image-path]",
	Short: "Analyze blocks and extract metadata",
	Long: `Run the metadata pre-scan and the per-block analysis pass: classify every
block's content (entropy, magic signature, printable ratio) and attach the
nearest indexed MACB timestamps.

Examples:
  blockscope analyze evidence.img
  blockscope analyze /dev/sdb --quiet`,

	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runAnalyze(args[0]); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(imagePath string) error {
	session, cleanup, err := openSession(imagePath)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Printf("Filesystem: %s\n", session.DetectFilesystem())

	count, err := analyzeWithProgress(session)
	if err != nil {
		return err
	}

	counters := session.ScanCounters()
	fmt.Printf("Blocks analyzed:    %d\n", count)
	fmt.Printf("Structures decoded: %d (%d skipped of %d attempted)\n",
		counters.RecordsDecoded, counters.RecordsSkipped, counters.RecordsAttempted)
	return nil
}
