package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const testConfig = "../../test/test_config.yaml"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEstimateFromFlags(t *testing.T) {
	out, err := run(t, "estimate", "--value", "1000000", "--length", "15", "--crew", "2", "-o", "csv")
	if err != nil {
		t.Fatalf("estimate error = %v", err)
	}
	if !strings.Contains(out, "Yacht,basic,1000000.00,15,2,,10000.00,30000.00,15000.00,90000.00,20000.00,165000.00,16.5") {
		t.Errorf("unexpected CSV output %q", out)
	}
}

func TestEstimateCrewAwareFromFlags(t *testing.T) {
	out, err := run(t, "estimate", "--schedule", "crew-aware", "--value", "1000000", "--length", "12", "--crew", "5")
	if err != nil {
		t.Fatalf("estimate error = %v", err)
	}
	for _, want := range []string{"95,000.00", "9.5% de la valeur du yacht", "1 membre d'équipage"} {
		if !strings.Contains(out, want) {
			t.Errorf("pretty output missing %q", want)
		}
	}
}

func TestEstimateAnyYachtFlagSkipsConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	out, err := run(t, "--config", missing, "estimate", "--schedule", "crew-aware", "-o", "csv")
	if err != nil {
		t.Fatalf("estimate error = %v", err)
	}
	want := "Yacht,crew-aware,1000000.00,15,,1 membre d'équipage,5000.00,30000.00,15000.00,45000.00,3000.00,98000.00,9.8"
	if !strings.Contains(out, want) {
		t.Errorf("expected crew-aware row %q, got %q", want, out)
	}

	tests := [][]string{
		{"--schedule", "crew-aware", "--crew", "5"},
		{"--name", "Aurora"},
		{"--crew", "3"},
	}
	for _, flags := range tests {
		args := append([]string{"--config", missing, "estimate", "-o", "json"}, flags...)
		out, err := run(t, args...)
		if err != nil {
			t.Errorf("estimate %v error = %v", flags, err)
			continue
		}
		var results []map[string]interface{}
		if err := json.Unmarshal([]byte(out), &results); err != nil {
			t.Errorf("estimate %v: invalid JSON output: %v", flags, err)
			continue
		}
		if len(results) != 1 {
			t.Errorf("estimate %v: expected a single estimate, got %d", flags, len(results))
		}
	}
}

func TestEstimateMissingConfigHint(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "estimate")
	if err == nil {
		t.Fatal("expected error for a missing configuration file")
	}
	if !strings.Contains(err.Error(), "config.yaml.example") || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected a hint towards the example configuration, got %v", err)
	}
}

func TestEstimateFromConfig(t *testing.T) {
	out, err := run(t, "--config", testConfig, "estimate", "-o", "json")
	if err != nil {
		t.Fatalf("estimate error = %v", err)
	}

	var results []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 active yachts, got %d", len(results))
	}
	if results[0]["name"] != "family cruiser" || results[1]["name"] != "charter motor yacht" {
		t.Errorf("unexpected yachts %v, %v", results[0]["name"], results[1]["name"])
	}
}

func TestEstimateRejectsOutOfRangeFlags(t *testing.T) {
	if _, err := run(t, "estimate", "--value", "10"); err == nil {
		t.Fatal("expected error for a value below the schedule limits")
	}
	if _, err := run(t, "estimate", "--schedule", "crew-aware", "--length", "70"); err == nil {
		t.Fatal("expected error for a length above the crew-aware limits")
	}
	if _, err := run(t, "estimate", "--schedule", "luxury", "--value", "1000000"); err == nil {
		t.Fatal("expected error for an unknown schedule")
	}
}

func TestEstimateOutputErrors(t *testing.T) {
	if _, err := run(t, "estimate", "--value", "1000000", "-o", "html"); err == nil {
		t.Fatal("expected error for unsupported output format")
	}
	if _, err := run(t, "estimate", "--value", "1000000", "-o", "xlsx"); err == nil {
		t.Fatal("expected error for xlsx without an output file")
	}
	if _, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "estimate"); err == nil {
		t.Fatal("expected error for a missing configuration file")
	}
}

func TestEstimateWritesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "estimate.xlsx")
	out, err := run(t, "--config", testConfig, "estimate", "-o", "xlsx", "--output-file", path)
	if err != nil {
		t.Fatalf("estimate error = %v", err)
	}
	if out != "" {
		t.Errorf("expected nothing on stdout, got %q", out)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected workbook to be written: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()
	if len(f.GetSheetList()) != 2 {
		t.Errorf("expected one sheet per active yacht, got %v", f.GetSheetList())
	}
}

func TestCrewCommand(t *testing.T) {
	out, err := run(t, "crew")
	if err != nil {
		t.Fatalf("crew error = %v", err)
	}
	if !strings.Contains(out, "12-15 m") || !strings.Contains(out, "51-60 m") || !strings.Contains(out, "570,000.00 €") {
		t.Errorf("unexpected crew table %q", out)
	}

	out, err = run(t, "crew", "--length", "30")
	if err != nil {
		t.Fatalf("crew error = %v", err)
	}
	if !strings.Contains(out, "4 à 5 membres d'équipage") || strings.Contains(out, "hors du barème") {
		t.Errorf("unexpected recommendation %q", out)
	}

	out, err = run(t, "crew", "-l", "70")
	if err != nil {
		t.Fatalf("crew error = %v", err)
	}
	if !strings.Contains(out, "1 membre d'équipage") || !strings.Contains(out, "hors du barème 12-60 m") {
		t.Errorf("expected fallback notice, got %q", out)
	}

	if _, err := run(t, "crew", "--length", "-1"); err == nil {
		t.Fatal("expected error for a negative length")
	}
}

func TestSchedulesCommand(t *testing.T) {
	out, err := run(t, "schedules")
	if err != nil {
		t.Fatalf("schedules error = %v", err)
	}
	for _, want := range []string{"basic:", "crew-aware:", "45,000.00 € par membre", "selon la longueur"} {
		if !strings.Contains(out, want) {
			t.Errorf("schedules output missing %q", want)
		}
	}

	out, err = run(t, "schedules", "-o", "json")
	if err != nil {
		t.Fatalf("schedules error = %v", err)
	}
	var schedules []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &schedules); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(schedules) != 2 {
		t.Errorf("expected 2 schedules, got %d", len(schedules))
	}

	if _, err := run(t, "schedules", "-o", "csv"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if strings.TrimSpace(out) != "yacht-calculate dev" {
		t.Errorf("unexpected version output %q", out)
	}
}
