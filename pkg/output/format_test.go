package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/guillaumekey/yacht-calculate/internal/budget"
	"github.com/guillaumekey/yacht-calculate/internal/estimator"
	"github.com/xuri/excelize/v2"
)

func sampleResults() []budget.Budget {
	return []budget.Budget{
		budget.Single("family cruiser", estimator.BasicSchedule(),
			estimator.Profile{Value: 1000000, Length: 15, CrewMembers: 2}),
		budget.Single("charter motor yacht", estimator.CrewAwareSchedule(),
			estimator.Profile{Value: 1000000, Length: 12}),
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, sampleResults()); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	wants := []string{
		"--- Estimation des coûts annuels : family cruiser (basic) ---",
		"--- Estimation des coûts annuels : charter motor yacht (crew-aware) ---",
		"Catégorie",
		"Assurance",
		"10,000.00 €",
		"90,000.00 €",
		"165,000.00 €",
		"16.5% de la valeur du yacht",
		"9.5% de la valeur du yacht",
		"Équipage recommandé : 1 membre d'équipage",
		"Répartition des coûts",
		"█",
		estimator.Disclaimer,
	}
	for _, want := range wants {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q", want)
		}
	}

	if strings.Count(output, estimator.Disclaimer) != 1 {
		t.Error("expected the disclaimer to be printed once")
	}
}

func TestPrettyFormatEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, nil); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output for no results, got %q", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPrettyFormatWriteError(t *testing.T) {
	if err := PrettyFormat(failingWriter{}, sampleResults()); err == nil {
		t.Fatal("expected write error to be returned")
	}
}

func TestBarChartScaling(t *testing.T) {
	breakdown := estimator.Breakdown{
		{Category: estimator.Insurance, Label: "big", Amount: 1000},
		{Category: estimator.Maintenance, Label: "tiny", Amount: 1},
		{Category: estimator.Crew, Label: "none", Amount: 0},
	}

	var buf bytes.Buffer
	if err := BarChart(&buf, breakdown, 10); err != nil {
		t.Fatalf("BarChart() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(lines))
	}

	tests := []struct {
		line   string
		blocks int
	}{
		{lines[0], 10},
		{lines[1], 1},
		{lines[2], 0},
	}
	for _, tt := range tests {
		if got := strings.Count(tt.line, "█"); got != tt.blocks {
			t.Errorf("line %q has %d blocks, expected %d", tt.line, got, tt.blocks)
		}
	}
}

func TestCsvFormat(t *testing.T) {
	output := CsvString(sampleResults())
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
	}

	expectedHeader := "yacht,schedule,value,length,crewMembers,crewRecommendation,Insurance,Maintenance,Docking Fees,Crew,Fuel/Consumables,total,percentOfValue"
	if lines[0] != expectedHeader {
		t.Errorf("unexpected header %q", lines[0])
	}

	expectedBasic := "family cruiser,basic,1000000.00,15,2,,10000.00,30000.00,15000.00,90000.00,20000.00,165000.00,16.5"
	if lines[1] != expectedBasic {
		t.Errorf("unexpected basic row %q", lines[1])
	}

	if !strings.HasPrefix(lines[2], "charter motor yacht,crew-aware,1000000.00,12,,1 membre d'équipage,") {
		t.Errorf("unexpected crew-aware row %q", lines[2])
	}
	if !strings.HasSuffix(lines[2], ",95000.00,9.5") {
		t.Errorf("unexpected crew-aware totals %q", lines[2])
	}
}

func TestCsvFormatQuotesNames(t *testing.T) {
	results := []budget.Budget{
		budget.Single(`Lady "M", 2019`, estimator.BasicSchedule(),
			estimator.Profile{Value: 1000000, Length: 15, CrewMembers: 2}),
	}
	output := CsvString(results)
	if !strings.Contains(output, `"Lady ""M"", 2019"`) {
		t.Errorf("expected quoted name, got %q", output)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, sampleResults()); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(decoded))
	}
	if decoded[0]["name"] != "family cruiser" {
		t.Errorf("expected name to be flattened into the entry, got %v", decoded[0]["name"])
	}
	if decoded[0]["total"] != 165000.0 {
		t.Errorf("expected total 165000, got %v", decoded[0]["total"])
	}

	buf.Reset()
	if err := JSONFormat(&buf, nil); err != nil {
		t.Fatalf("JSONFormat(nil) error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected empty array, got %q", buf.String())
	}
}

func TestWriteUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "html", sampleResults()); err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if err := Write(&buf, "csv", sampleResults()); err != nil {
		t.Fatalf("Write(csv) error = %v", err)
	}
}

func TestXLSXFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := XLSXFormat(&buf, sampleResults()); err != nil {
		t.Fatalf("XLSXFormat() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "family cruiser" || sheets[1] != "charter motor yacht" {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	label, err := f.GetCellValue("family cruiser", "A2")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if label != "Assurance" {
		t.Errorf("expected first category label Assurance, got %q", label)
	}

	raw, err := f.GetCellValue("family cruiser", "B7", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	total, err := strconv.ParseFloat(raw, 64)
	if err != nil || total != 165000 {
		t.Errorf("expected total 165000 in B7, got %q", raw)
	}

	crew, err := f.GetCellValue("charter motor yacht", "E5")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if crew != "1 membre d'équipage" {
		t.Errorf("expected crew recommendation, got %q", crew)
	}
}

func TestSheetName(t *testing.T) {
	used := make(map[string]bool)
	tests := []struct {
		name string
		want string
	}{
		{"Lady M", "Lady M"},
		{"lady m", "lady m (2)"},
		{"a/b:c?", "abc"},
		{"   ", "Yacht 4"},
		{strings.Repeat("x", 40), strings.Repeat("x", 31)},
		{strings.Repeat("x", 40), strings.Repeat("x", 27) + " (2)"},
	}
	for i, tt := range tests {
		if got := SheetName(i, tt.name, used); got != tt.want {
			t.Errorf("SheetName(%q) = %q, expected %q", tt.name, got, tt.want)
		}
	}
}
