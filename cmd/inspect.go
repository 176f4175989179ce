package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var inspectBlockID uint64

var inspectCmd = &cobra.Command{
	Use:   "inspect [image-path]",
	Short: "Show one block's features, timestamps and anomaly flags",
	Long: `Analyze the image and print the details of a single block: content
features, recovered MACB timestamps and any advisory anomaly flags.

Examples:
  blockscope inspect evidence.img --block 42`,

	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInspect(args[0]); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Uint64Var(&inspectBlockID, "block", 0, "block id to inspect")
}

func runInspect(imagePath string) error {
	session, cleanup, err := openSession(imagePath)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := analyzeWithProgress(session); err != nil {
		return err
	}

	block := session.GetBlockInfo(inspectBlockID)
	if block == nil {
		return fmt.Errorf("block %d was not analyzed", inspectBlockID)
	}

	fmt.Printf("Block %d\n", block.ID)
	fmt.Printf("  Offset:          0x%08x\n", block.Offset)
	fmt.Printf("  Size:            %d bytes\n", block.Size)
	fmt.Printf("  Entropy:         %.3f\n", block.Features.Entropy)
	fmt.Printf("  Printable ratio: %.3f\n", block.Features.PrintableRatio)
	fmt.Printf("  Zero block:      %v\n", block.Features.IsZero)
	if block.Features.Magic != "" {
		fmt.Printf("  Magic:           %s\n", block.Features.Magic)
	}

	fmt.Println("  MACB timestamps:")
	printInstant := func(label string, t *time.Time) {
		if t == nil {
			fmt.Printf("    %s not recoverable\n", label)
			return
		}
		fmt.Printf("    %s %s\n", label, t.Format(time.RFC3339))
	}
	if block.Timestamps == nil {
		fmt.Println("    no nearby structure indexed")
	} else {
		printInstant("M (modified):", block.Timestamps.MTime)
		printInstant("A (accessed):", block.Timestamps.ATime)
		printInstant("C (changed): ", block.Timestamps.CTime)
		printInstant("B (born):    ", block.Timestamps.BTime)
	}

	if block.Inode != nil {
		fmt.Printf("  Inode detail: size=%d uid=%d gid=%d mode=%04o links=%d\n",
			block.Inode.Size, block.Inode.UID, block.Inode.GID, block.Inode.Mode, block.Inode.LinksCount)
	}

	for _, flag := range session.BlockAnomalies(block.ID) {
		fmt.Printf("  ANOMALY [%s]: %s\n", flag, flag.Description())
	}
	return nil
}
