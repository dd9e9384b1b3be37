package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/shelfmetrics/skuratio-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set skuratio configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("intra_deviation_pct: %g\n", cfg.IntraDeviationPct)
		fmt.Printf("global_z_threshold: %g\n", cfg.GlobalZThreshold)
		fmt.Printf("min_class_count: %d\n", cfg.MinClassCount)
		fmt.Printf("image_z_filter: %t\n", cfg.ImageZFilter)
		fmt.Printf("image_z_threshold: %g\n", cfg.ImageZThreshold)
		fmt.Printf("round_digits: %d\n", cfg.RoundDigits)
		if cfg.OutputDir != "" {
			fmt.Printf("output_dir: %s\n", cfg.OutputDir)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "intra_deviation_pct":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid intra_deviation_pct: %s", val)
			}
			cfg.IntraDeviationPct = f
		case "global_z_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid global_z_threshold: %s", val)
			}
			cfg.GlobalZThreshold = f
		case "min_class_count":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid min_class_count: %s", val)
			}
			cfg.MinClassCount = n
		case "image_z_filter":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid image_z_filter: %s", val)
			}
			cfg.ImageZFilter = b
		case "image_z_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid image_z_threshold: %s", val)
			}
			cfg.ImageZThreshold = f
		case "round_digits":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 || n > 10 {
				return fmt.Errorf("invalid round_digits: %s", val)
			}
			cfg.RoundDigits = n
		case "output_dir":
			cfg.OutputDir = val
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Saved %s\n", key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
