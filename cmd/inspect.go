package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shelfmetrics/skuratio-cli/internal/dataset"
)

var inspectOutputPath string

var inspectCmd = &cobra.Command{
	Use:   "inspect <input.csv>",
	Short: "Validate a detection export and print a dataset survey",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := dataset.Load(args[0])
		if err != nil {
			return err
		}
		md := dataset.Summarize(tbl).Markdown()
		if inspectOutputPath != "" {
			if err := os.WriteFile(inspectOutputPath, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote survey to %s\n", inspectOutputPath)
			return nil
		}
		fmt.Println(md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&inspectOutputPath, "output", "o", "", "optional path to write the survey (Markdown)")
}
