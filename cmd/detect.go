package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect [image-path]",
	Short: "Detect the evidence image's filesystem",
	Long: `Classify the evidence image's filesystem from boot sector and superblock
signatures. Detection never fails; an unrecognized filesystem reports Unknown
and only means structure timestamps will be unavailable.

Examples:
  blockscope detect evidence.img
  blockscope detect /dev/sdb`,

	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDetect(args[0]); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(imagePath string) error {
	session, cleanup, err := openSession(imagePath)
	if err != nil {
		return err
	}
	defer cleanup()

	kind := session.DetectFilesystem()
	fmt.Println(kind)
	if !kind.HasStructureParser() {
		fmt.Println("no structure parser for this filesystem: timestamps unavailable")
	}
	return nil
}
