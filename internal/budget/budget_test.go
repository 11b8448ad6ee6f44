package budget

import (
	"math"
	"testing"

	"github.com/guillaumekey/yacht-calculate/internal/config"
	"github.com/guillaumekey/yacht-calculate/internal/estimator"
	"go.uber.org/zap"
)

func TestGetBudgetsFromTestConfig(t *testing.T) {
	conf, err := config.LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	results, err := GetBudgets(zap.NewNop(), *conf)
	if err != nil {
		t.Fatalf("GetBudgets() error = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 active yachts, got %d", len(results))
	}

	expected := map[string]struct {
		total   float64
		percent float64
	}{
		"family cruiser":      {165000, 16.5},
		"charter motor yacht": {95000, 9.5},
	}

	for _, result := range results {
		want, ok := expected[result.Name]
		if !ok {
			t.Errorf("unexpected yacht %s", result.Name)
			continue
		}
		if math.Abs(result.Total-want.total) > 0.01 {
			t.Errorf("%s: total %.2f, expected %.2f", result.Name, result.Total, want.total)
		}
		if math.Abs(result.PercentOfValue-want.percent) > 1e-9 {
			t.Errorf("%s: percent %.4f, expected %.4f", result.Name, result.PercentOfValue, want.percent)
		}
	}

	if results[1].Crew == nil || results[1].Crew.Label != "1 membre d'équipage" {
		t.Errorf("expected crew recommendation on crew-aware yacht, got %+v", results[1].Crew)
	}
}

func TestGetBudgetsUnknownSchedule(t *testing.T) {
	conf := config.Configuration{Yachts: []config.Yacht{
		{Name: "ok", Active: true, Value: 1000000, Length: 15},
		{Name: "broken", Active: true, Schedule: "mega", Value: 1000000, Length: 15},
	}}

	results, err := GetBudgets(nil, conf)
	if err == nil {
		t.Fatal("expected error for unknown schedule")
	}
	if len(results) != 1 {
		t.Errorf("expected the yachts before the failure to be returned, got %d", len(results))
	}
}

func TestGetBudgetsSkipsInactive(t *testing.T) {
	conf := config.Configuration{Yachts: []config.Yacht{
		{Name: "inactive", Active: false, Value: 1000000, Length: 15},
	}}

	results, err := GetBudgets(zap.NewNop(), conf)
	if err != nil {
		t.Fatalf("GetBudgets() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestSingle(t *testing.T) {
	result := Single("flags", estimator.BasicSchedule(), estimator.Profile{Value: 1000000, Length: 15, CrewMembers: 2})
	if result.Name != "flags" || result.Schedule != "basic" {
		t.Errorf("unexpected budget %+v", result)
	}
	if math.Abs(result.Total-165000) > 0.01 {
		t.Errorf("expected total 165000, got %.2f", result.Total)
	}
}
