package dataset_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shelfmetrics/skuratio-cli/internal/dataset"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "detections.csv")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

const header = "test_image_id,category_name,group_name,class_name,Area,Prob/Ref\n"

func TestLoad_MissingColumnsIsSchemaError(t *testing.T) {
	p := writeCSV(t, "test_image_id,category_name,Area\nimg1,soap,10\n")
	_, err := dataset.Load(p)
	var se *dataset.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	for _, col := range []string{"group_name", "class_name", "Prob/Ref"} {
		if !strings.Contains(se.Error(), col) {
			t.Errorf("SchemaError should name %s, got: %v", col, se)
		}
	}
}

func TestLoad_RoleNormalizationAndDiscard(t *testing.T) {
	p := writeCSV(t, header+
		"img1,soap,bars,lux_100g,10,  Problem \n"+
		"img1,soap,bars,sunlight_200g,20,REFERENCE\n"+
		"img1,soap,bars,sunlight_200g,21,maybe\n")
	tbl, err := dataset.Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.Counters.InvalidRole != 1 {
		t.Errorf("expected 1 invalid role, got %d", tbl.Counters.InvalidRole)
	}
	if len(tbl.Detections) != 2 {
		t.Fatalf("expected 2 detections, got %d", len(tbl.Detections))
	}
	if tbl.Detections[0].Role != dataset.RoleProblem || tbl.Detections[1].Role != dataset.RoleReference {
		t.Errorf("roles not normalized: %+v", tbl.Detections)
	}
	// Invalid-role rows are discarded entirely, not kept in the raw set.
	if len(tbl.RawRows) != 2 {
		t.Errorf("expected 2 raw rows, got %d", len(tbl.RawRows))
	}
}

func TestLoad_BadAreaKeptRawOnly(t *testing.T) {
	p := writeCSV(t, header+
		"img1,soap,bars,lux_100g,abc,problem\n"+
		"img1,soap,bars,lux_100g,-5,problem\n"+
		"img1,soap,bars,sunlight_200g,20,reference\n")
	tbl, err := dataset.Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.Counters.InvalidArea != 2 {
		t.Errorf("expected 2 invalid areas, got %d", tbl.Counters.InvalidArea)
	}
	if len(tbl.RawRows) != 3 {
		t.Errorf("raw rows should keep bad-area rows, got %d", len(tbl.RawRows))
	}
	if len(tbl.Detections) != 1 {
		t.Fatalf("expected 1 working detection, got %d", len(tbl.Detections))
	}
	for _, d := range tbl.Detections {
		if d.Area <= 0 {
			t.Errorf("working set must have positive areas, got %v", d.Area)
		}
	}
}

func TestLoad_HeaderMatchIsCaseInsensitive(t *testing.T) {
	p := writeCSV(t, "TEST_IMAGE_ID,Category_Name,group_name,class_name,area,prob/ref\n"+
		"img1,soap,bars,lux_100g,10,problem\n")
	tbl, err := dataset.Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(tbl.Detections) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(tbl.Detections))
	}
}

func TestLoad_CountersTrackCategoriesAndImages(t *testing.T) {
	p := writeCSV(t, header+
		"img1,soap,bars,lux_100g,10,problem\n"+
		"img2,detergent,powders,omo_500g,30,reference\n")
	tbl, err := dataset.Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c := tbl.Counters
	if c.Categories != 2 || c.Images != 2 || c.ProblemRows != 1 || c.ReferenceRows != 1 {
		t.Errorf("unexpected counters: %+v", c)
	}
}
