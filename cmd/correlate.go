package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var correlateChains bool

var correlateCmd = &cobra.Command{
	Use:   "correlate [image-path]",
	Short: "Score block pairs for fragmentation reconstruction",
	Long: `Run block analysis followed by the correlation pass, scoring each block
against its look-ahead window and reporting pairs above the policy threshold.

Examples:
  blockscope correlate evidence.img
  blockscope correlate evidence.img --chains`,

	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCorrelate(args[0]); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(correlateCmd)
	correlateCmd.Flags().BoolVar(&correlateChains, "chains", false, "assemble fragment chains from the correlations")
}

func runCorrelate(imagePath string) error {
	session, cleanup, err := openSession(imagePath)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := analyzeWithProgress(session); err != nil {
		return err
	}

	count, err := correlateWithProgress(session)
	if err != nil {
		return err
	}
	fmt.Printf("Correlations found: %d\n", count)

	for i, result := range session.ListCorrelations() {
		if i >= 50 {
			fmt.Printf("... and %d more\n", count-50)
			break
		}
		fmt.Printf("  block %6d -> %6d  score %.3f\n", result.Block1ID, result.Block2ID, result.Score)
	}

	if correlateChains {
		chains, err := session.AssembleChains()
		if err != nil {
			return err
		}
		fmt.Printf("Fragment chains: %d\n", len(chains))
		for _, chain := range chains {
			fmt.Printf("  %v  mean score %.3f\n", chain.BlockIDs, chain.MeanScore)
		}
	}
	return nil
}
