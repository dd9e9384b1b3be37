package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shelfmetrics/skuratio-cli/internal/dataset"
	"github.com/shelfmetrics/skuratio-cli/internal/pipeline"
	"github.com/shelfmetrics/skuratio-cli/internal/report"
	"github.com/shelfmetrics/skuratio-cli/internal/utils"
)

var (
	runOutputPath    string
	runIntraPct      float64
	runZThreshold    float64
	runMinClassCount int
	runImageZ        float64
	runZoomFilter    bool
	runRoundDigits   int
)

var runCommand = &cobra.Command{
	Use:   "run <input.csv>",
	Short: "Clean a detection export and write the ratio threshold report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		opt := runOptions(cmd)

		runID := uuid.NewString()
		fmt.Printf("✓ Run %s\n", runID)

		tbl, err := dataset.Load(input)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Loaded %d rows (%d problem, %d reference, %d categories, %d images)\n",
			tbl.Counters.RowsRead, tbl.Counters.ProblemRows, tbl.Counters.ReferenceRows,
			tbl.Counters.Categories, tbl.Counters.Images)
		if tbl.Counters.InvalidRole > 0 {
			fmt.Printf("⚠ Discarded %d rows with invalid Prob/Ref values\n", tbl.Counters.InvalidRole)
		}
		if tbl.Counters.InvalidArea > 0 {
			fmt.Printf("⚠ Found %d rows with unparsable or non-positive Area\n", tbl.Counters.InvalidArea)
		}

		res := pipeline.Run(tbl, opt)
		fmt.Printf("✓ Cleaning removed %d intra-image, %d zoom, %d global outliers; dropped %d one-sided images\n",
			res.Counters.IntraOutliers, res.Counters.ZoomOutliers, res.Counters.GlobalOutliers, res.Counters.ImagesDropped)
		fmt.Printf("✓ Calculated %d ratios across %d images, %d threshold combinations\n",
			len(res.Ratios), res.Counters.ImagesKept, len(res.Thresholds))
		for _, w := range res.Warnings {
			fmt.Printf("⚠ %s\n", w)
		}

		out := runOutputPath
		if out == "" {
			out = defaultOutputPath(input)
		}
		if dir := filepath.Dir(out); dir != "." {
			if err := utils.EnsureDir(dir); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := report.Write(out, &report.Workbook{Table: tbl, Result: res}); err != nil {
			return err
		}
		fmt.Printf("✓ Report written to %s\n", out)
		return nil
	},
}

// runOptions merges config with flags; a flag wins only when explicitly set.
func runOptions(cmd *cobra.Command) pipeline.Options {
	opt := pipeline.DefaultOptions()
	if cfg != nil {
		opt.IntraDeviationPct = cfg.IntraDeviationPct
		opt.GlobalZThreshold = cfg.GlobalZThreshold
		opt.MinClassCount = cfg.MinClassCount
		opt.ImageZFilter = cfg.ImageZFilter
		opt.ImageZThreshold = cfg.ImageZThreshold
		opt.RoundDigits = cfg.RoundDigits
	}
	f := cmd.Flags()
	if f.Changed("intra-pct") {
		opt.IntraDeviationPct = runIntraPct
	}
	if f.Changed("z-threshold") {
		opt.GlobalZThreshold = runZThreshold
	}
	if f.Changed("min-class-count") {
		opt.MinClassCount = runMinClassCount
	}
	if f.Changed("image-z") {
		opt.ImageZThreshold = runImageZ
	}
	if f.Changed("zoom-filter") {
		opt.ImageZFilter = runZoomFilter
	}
	if f.Changed("round-digits") {
		opt.RoundDigits = runRoundDigits
	}
	return opt
}

func defaultOutputPath(input string) string {
	dir := filepath.Dir(input)
	if cfg != nil && cfg.OutputDir != "" {
		dir = cfg.OutputDir
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	stamp := time.Now().Format("20060102_150405")
	return filepath.Join(dir, fmt.Sprintf("%s_ratio_report_%s.xlsx", base, stamp))
}

func init() {
	rootCmd.AddCommand(runCommand)
	runCommand.Flags().StringVarP(&runOutputPath, "output", "o", "", "path for the XLSX report (default: alongside the input)")
	runCommand.Flags().Float64Var(&runIntraPct, "intra-pct", 30, "max % deviation from the (image, class) median area")
	runCommand.Flags().Float64Var(&runZThreshold, "z-threshold", 3, "per-class z-score cutoff across all images")
	runCommand.Flags().IntVar(&runMinClassCount, "min-class-count", 3, "classes with fewer detections skip the global filter")
	runCommand.Flags().BoolVar(&runZoomFilter, "zoom-filter", false, "enable the per-image zoom/tilt z-score filter")
	runCommand.Flags().Float64Var(&runImageZ, "image-z", 4, "per-image z-score cutoff when --zoom-filter is on")
	runCommand.Flags().IntVar(&runRoundDigits, "round-digits", 4, "decimal places kept on ratios")
}
