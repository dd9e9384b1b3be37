package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shelfmetrics/skuratio-cli/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.IntraDeviationPct != 30 {
		t.Errorf("expected intra_deviation_pct default 30, got %v", c.IntraDeviationPct)
	}
	if c.GlobalZThreshold != 3 {
		t.Errorf("expected global_z_threshold default 3, got %v", c.GlobalZThreshold)
	}
	if c.MinClassCount != 3 || c.ImageZFilter || c.ImageZThreshold != 4 || c.RoundDigits != 4 {
		t.Errorf("unexpected defaults: %+v", c)
	}
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	in := &config.Global{
		IntraDeviationPct: 50,
		GlobalZThreshold:  4,
		MinClassCount:     5,
		ImageZFilter:      true,
		ImageZThreshold:   3.5,
		RoundDigits:       6,
		OutputDir:         "/tmp/reports",
	}
	if err := config.Save(in, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.IntraDeviationPct != 50 || out.GlobalZThreshold != 4 || out.MinClassCount != 5 {
		t.Errorf("thresholds did not round-trip: %+v", out)
	}
	if !out.ImageZFilter || out.ImageZThreshold != 3.5 || out.RoundDigits != 6 || out.OutputDir != "/tmp/reports" {
		t.Errorf("options did not round-trip: %+v", out)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SKURATIO_GLOBAL_Z_THRESHOLD", "4")
	c, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.GlobalZThreshold != 4 {
		t.Errorf("env override ignored, got %v", c.GlobalZThreshold)
	}
	_ = os.Unsetenv("SKURATIO_GLOBAL_Z_THRESHOLD")
}
