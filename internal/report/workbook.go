// Package report renders a pipeline run as a five-sheet XLSX workbook.
package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/shelfmetrics/skuratio-cli/internal/dataset"
	"github.com/shelfmetrics/skuratio-cli/internal/pipeline"
	"github.com/shelfmetrics/skuratio-cli/internal/utils"
)

// Sheet names, in workbook order.
const (
	SheetRaw        = "01_Raw_Data"
	SheetCleaned    = "02_Cleaned_Data"
	SheetRatios     = "03_All_Ratios"
	SheetThresholds = "04_Final_Thresholds"
	SheetSummary    = "05_Summary_Stats"
)

// Workbook bundles everything one report needs.
type Workbook struct {
	Table  *dataset.Table
	Result *pipeline.Result
}

// Write serializes the workbook and writes it atomically. The file either
// appears whole or not at all.
func Write(path string, wb *Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := buildSheets(f, wb); err != nil {
		return err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return fmt.Errorf("serialize workbook: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func buildSheets(f *excelize.File, wb *Workbook) error {
	// The default sheet becomes the first one.
	if err := f.SetSheetName("Sheet1", SheetRaw); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetCleaned, SheetRatios, SheetThresholds, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	if err := writeRaw(f, wb.Table.RawRows); err != nil {
		return err
	}
	if err := writeCleaned(f, wb.Result.Cleaned); err != nil {
		return err
	}
	if err := writeRatios(f, wb.Result.Ratios); err != nil {
		return err
	}
	if err := writeThresholds(f, wb.Result.Thresholds); err != nil {
		return err
	}
	return writeSummary(f, wb)
}

func writeRaw(f *excelize.File, rows []dataset.RawRow) error {
	header := []interface{}{"test_image_id", "category_name", "group_name", "class_name", "Area", "Prob/Ref"}
	if err := setRow(f, SheetRaw, 1, header); err != nil {
		return err
	}
	for i, r := range rows {
		var area interface{} = r.AreaText
		if r.AreaOK {
			area = r.Area
		}
		row := []interface{}{r.ImageID, r.Category, r.Group, r.Class, area, string(r.Role)}
		if err := setRow(f, SheetRaw, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeCleaned(f *excelize.File, dets []dataset.Detection) error {
	header := []interface{}{"test_image_id", "category_name", "group_name", "class_name", "Area", "Prob/Ref"}
	if err := setRow(f, SheetCleaned, 1, header); err != nil {
		return err
	}
	for i, d := range dets {
		row := []interface{}{d.ImageID, d.Category, d.Group, d.Class, d.Area, string(d.Role)}
		if err := setRow(f, SheetCleaned, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRatios(f *excelize.File, ratios []pipeline.RatioRecord) error {
	header := []interface{}{
		"test_image_id", "category_name",
		"problematic_group_name", "problematic_class_name", "Area_prob",
		"reference_group_name", "reference_class_name", "Area_ref",
		"ratio",
	}
	if err := setRow(f, SheetRatios, 1, header); err != nil {
		return err
	}
	for i, r := range ratios {
		row := []interface{}{
			r.ImageID, r.Category,
			r.ProblemGroup, r.ProblemClass, r.ProblemArea,
			r.ReferenceGroup, r.ReferenceClass, r.ReferenceArea,
			r.Ratio,
		}
		if err := setRow(f, SheetRatios, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeThresholds(f *excelize.File, recs []pipeline.ThresholdRecord) error {
	header := []interface{}{
		"category_name",
		"problematic_group_name", "problematic_class_name",
		"reference_group_name", "reference_class_name",
		"ratio_list", "ratio_threshold",
		"ratio_count", "ratio_mean", "ratio_std", "ratio_min", "ratio_max",
	}
	if err := setRow(f, SheetThresholds, 1, header); err != nil {
		return err
	}
	for i, t := range recs {
		row := []interface{}{
			t.Category,
			t.ProblemGroup, t.ProblemClass,
			t.ReferenceGroup, t.ReferenceClass,
			formatRatioList(t.Ratios), t.Median,
			t.Count, t.Mean, t.Std, t.Min, t.Max,
		}
		if err := setRow(f, SheetThresholds, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, wb *Workbook) error {
	lc := wb.Table.Counters
	pc := wb.Result.Counters
	metrics := []struct {
		name  string
		value int
	}{
		{"Original Data Rows", lc.RowsRead},
		{"Cleaned Data Rows", len(wb.Result.Cleaned)},
		{"Rows With Invalid Prob/Ref", lc.InvalidRole},
		{"Rows With Invalid Area", lc.InvalidArea},
		{"Outliers Removed (Intra-Image)", pc.IntraOutliers},
		{"Outliers Removed (Zoom/Tilt)", pc.ZoomOutliers},
		{"Outliers Removed (Global)", pc.GlobalOutliers},
		{"Images Without Both SKU Types", pc.ImagesDropped},
		{"Total Images Processed", pc.ImagesKept},
		{"Total Ratios Calculated", len(wb.Result.Ratios)},
		{"Unique Problematic SKUs", uniqueClasses(wb.Result.Ratios, true)},
		{"Unique Reference SKUs", uniqueClasses(wb.Result.Ratios, false)},
		{"Categories Processed", lc.Categories},
		{"Final Threshold Combinations", len(wb.Result.Thresholds)},
	}
	if err := setRow(f, SheetSummary, 1, []interface{}{"Metric", "Value"}); err != nil {
		return err
	}
	for i, m := range metrics {
		if err := setRow(f, SheetSummary, i+2, []interface{}{m.name, m.value}); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, vals []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func formatRatioList(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ", ")
}

func uniqueClasses(ratios []pipeline.RatioRecord, problem bool) int {
	seen := map[string]struct{}{}
	for _, r := range ratios {
		if problem {
			seen[r.ProblemClass] = struct{}{}
		} else {
			seen[r.ReferenceClass] = struct{}{}
		}
	}
	return len(seen)
}
