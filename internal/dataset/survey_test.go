package dataset_test

import (
	"strings"
	"testing"

	"github.com/shelfmetrics/skuratio-cli/internal/dataset"
)

func TestSurveyMarkdown(t *testing.T) {
	p := writeCSV(t, header+
		"img1,soap,bars,lux_100g,10,problem\n"+
		"img1,soap,bars,sunlight_200g,20,reference\n"+
		"img2,detergent,powders,omo_500g,abc,reference\n"+
		"img2,detergent,powders,omo_500g,31,banana\n")
	tbl, err := dataset.Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	out := dataset.Summarize(tbl).Markdown()
	if !strings.Contains(out, "[DATASET SUMMARY]") {
		t.Fatalf("expected summary header, got: %q", out)
	}
	if !strings.Contains(out, "- soap: 1 problem, 1 reference") {
		t.Errorf("expected per-category breakdown, got: %q", out)
	}
	if !strings.Contains(out, "[NOTES]") {
		t.Errorf("expected notes about discarded rows, got: %q", out)
	}
	if !strings.Contains(out, "1 rows discarded") {
		t.Errorf("expected invalid-role note, got: %q", out)
	}
}
