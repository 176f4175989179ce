package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report [image-path]",
	Short: "Export the session findings as JSON",
	Long: `Run the full analysis (pre-scan, block analysis, correlation) and export
the findings as a JSON document: block totals, scan counters, anomaly counts,
duplicate groups and a bounded block sample.

Examples:
  blockscope report evidence.img
  blockscope report evidence.img --out findings.json`,

	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runReport(args[0]); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportOutput, "out", "", "write the report to a file instead of stdout")
}

func runReport(imagePath string) error {
	session, cleanup, err := openSession(imagePath)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := analyzeWithProgress(session); err != nil {
		return err
	}
	if _, err := correlateWithProgress(session); err != nil {
		return err
	}

	report, err := session.BuildReport()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if reportOutput == "" {
		fmt.Println(string(data))
	} else {
		if err := os.WriteFile(reportOutput, data, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	fmt.Fprintln(os.Stderr, report.Summary())
	return nil
}
