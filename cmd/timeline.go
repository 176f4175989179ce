package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var timelineLimit int

var timelineCmd = &cobra.Command{
	Use:   "timeline [image-path]",
	Short: "List recovered timestamp events in order",
	Long: `Analyze the image and print the recovered MACB instants as an ascending
timeline. Only instants actually decoded from filesystem structures appear;
nothing is fabricated for blocks without metadata.

Examples:
  blockscope timeline evidence.img
  blockscope timeline evidence.img --limit 200`,

	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTimeline(args[0]); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(timelineCmd)
	timelineCmd.Flags().IntVar(&timelineLimit, "limit", 100, "maximum events to print")
}

func runTimeline(imagePath string) error {
	session, cleanup, err := openSession(imagePath)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := analyzeWithProgress(session); err != nil {
		return err
	}

	events, err := session.BuildTimeline()
	if err != nil {
		return err
	}

	fmt.Printf("Timeline events: %d\n", len(events))
	for i, event := range events {
		if timelineLimit > 0 && i >= timelineLimit {
			fmt.Printf("... and %d more\n", len(events)-timelineLimit)
			break
		}
		magic := ""
		if event.Magic != "" {
			magic = "  [" + string(event.Magic) + "]"
		}
		fmt.Printf("  %s  block %6d  %-8s%s\n",
			event.Time.Format(time.RFC3339), event.BlockID, event.Kind, magic)
	}
	return nil
}
