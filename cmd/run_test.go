package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func writeSampleCSV(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "detections.csv")
	content := "test_image_id,category_name,group_name,class_name,Area,Prob/Ref\n" +
		"img1,soap,bars,lux,10,problem\n" +
		"img1,soap,bars,sunlight,20,reference\n" +
		"img2,soap,bars,lux,10,problem\n" +
		"img2,soap,bars,sunlight,20,reference\n" +
		"img3,soap,bars,lux,abc,problem\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return p
}

func TestRunCommand_WritesReport(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	in := writeSampleCSV(t, dir)
	out := filepath.Join(dir, "report.xlsx")

	if err := runCLI(t, "run", in, "-o", out); err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) != 5 || sheets[0] != "01_Raw_Data" || sheets[4] != "05_Summary_Stats" {
		t.Fatalf("unexpected sheets: %v", sheets)
	}
	rows, err := f.GetRows("04_Final_Thresholds")
	if err != nil {
		t.Fatalf("threshold rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected one threshold combination, got %d rows", len(rows)-1)
	}
}

func TestRunCommand_MissingColumnFails(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	p := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(p, []byte("test_image_id,Area\nimg1,10\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	err := runCLI(t, "run", p, "-o", filepath.Join(dir, "out.xlsx"))
	if err == nil || !strings.Contains(err.Error(), "missing required columns") {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestInspectCommand_WritesSurvey(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	in := writeSampleCSV(t, dir)
	out := filepath.Join(dir, "survey.md")

	if err := runCLI(t, "inspect", in, "-o", out); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	body, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read survey: %v", err)
	}
	if !strings.Contains(string(body), "[DATASET SUMMARY]") {
		t.Fatalf("expected dataset summary, got: %q", string(body))
	}
	if !strings.Contains(string(body), "Problem SKUs: 2") {
		t.Fatalf("expected problem count, got: %q", string(body))
	}
}
