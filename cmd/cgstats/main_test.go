package main

import (
	"path/filepath"
	"testing"
)

func TestNegotiateWidth(t *testing.T) {
	tests := []struct {
		name                                  string
		minWidth, requested, progress, termW int
		want                                  int
	}{
		{"progress width minus indent", 20, 0, 80, 0, 78},
		{"explicit width", 20, 50, 80, 0, 50},
		{"never below minimum", 40, 30, 80, 0, 40},
		{"terminal caps width", 20, 0, 80, 60, 60},
		{"narrow terminal ignored", 40, 0, 80, 30, 78},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := negotiateWidth(tt.minWidth, tt.requested, tt.progress, tt.termW); got != tt.want {
				t.Fatalf("negotiateWidth = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseConfigFlagsOverride(t *testing.T) {
	t.Setenv("CGSTATS_THRESHOLD", "0.3")
	state := filepath.Join(t.TempDir(), "state.yaml")

	rc, err := parseConfig([]string{"-state-file", state, "-threshold", "0.05", "-width", "70", "-no-color"})
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if rc.cfg.StateFile != state {
		t.Fatalf("state file = %q, want %q", rc.cfg.StateFile, state)
	}
	if rc.cfg.Threshold != 0.05 {
		t.Fatalf("threshold = %v, want flag value 0.05", rc.cfg.Threshold)
	}
	if rc.width != 70 || !rc.noColor {
		t.Fatalf("unexpected run config %+v", rc)
	}
}

func TestParseConfigKeepsEnvWithoutFlag(t *testing.T) {
	t.Setenv("CGSTATS_THRESHOLD", "0.3")
	rc, err := parseConfig(nil)
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if rc.cfg.Threshold != 0.3 {
		t.Fatalf("threshold = %v, want 0.3", rc.cfg.Threshold)
	}
}

func TestParseConfigRejectsInvalid(t *testing.T) {
	if _, err := parseConfig([]string{"-threshold", "1.5"}); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := parseConfig([]string{"-bogus"}); err == nil {
		t.Fatal("expected flag error")
	}
}
