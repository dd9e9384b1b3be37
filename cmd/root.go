package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/shelfmetrics/skuratio-cli/internal/config"
)

var (
	// Global flags (wired later to config/viper)
	cfgFile string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "skuratio",
	Short: "SKU ratio analyzer: derive size-ratio thresholds from shelf detections",
	Long: `skuratio cleans noisy bounding-box detections from retail shelf photos,
computes area ratios between problem and reference SKUs, and aggregates
them into per-combination threshold statistics written as an XLSX report.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.skuratio/config.yaml)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}
