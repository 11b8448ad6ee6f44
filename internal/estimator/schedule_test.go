package estimator

import (
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-6)

func TestComputeCostsExample(t *testing.T) {
	t.Parallel()
	got := ComputeCosts(1_000_000, 15, 2)

	want := Breakdown{
		{Category: Insurance, Label: "Assurance", Amount: 10_000},
		{Category: Maintenance, Label: "Maintenance", Amount: 30_000},
		{Category: DockingFees, Label: "Frais d'amarrage", Amount: 15_000},
		{Category: Crew, Label: "Équipage", Amount: 90_000},
		{Category: FuelConsumables, Label: "Carburant et consommables", Amount: 20_000},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Fatalf("ComputeCosts() mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(165_000.0, got.Total(), approx); diff != "" {
		t.Errorf("Total() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(16.5, got.PercentOfValue(1_000_000), approx); diff != "" {
		t.Errorf("PercentOfValue() mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeCrewAwareCostsExample(t *testing.T) {
	t.Parallel()
	got := ComputeCrewAwareCosts(1_000_000, 12)

	want := Breakdown{
		{Category: Insurance, Label: "Assurance", Amount: 5_000},
		{Category: Maintenance, Label: "Maintenance", Amount: 30_000},
		{Category: DockingFees, Label: "Frais d'amarrage", Amount: 12_000},
		{Category: Crew, Label: "Équipage", Amount: 45_000},
		{Category: FuelConsumables, Label: "Consommables", Amount: 3_000},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Fatalf("ComputeCrewAwareCosts() mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(95_000.0, got.Total(), approx); diff != "" {
		t.Errorf("Total() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(9.5, got.PercentOfValue(1_000_000), approx); diff != "" {
		t.Errorf("PercentOfValue() mismatch (-want +got):\n%s", diff)
	}
}

func TestCrewAwareIgnoresSuppliedCrew(t *testing.T) {
	t.Parallel()
	schedule := CrewAwareSchedule()

	withCrew, _ := schedule.Compute(Profile{Value: 2_000_000, Length: 30, CrewMembers: 1})
	withoutCrew, _ := schedule.Compute(Profile{Value: 2_000_000, Length: 30})

	if diff := cmp.Diff(withoutCrew, withCrew); diff != "" {
		t.Errorf("crew-aware breakdown depends on CrewMembers (-without +with):\n%s", diff)
	}
	if got := withCrew.Amount(Crew); got != 250_000 {
		t.Errorf("expected 4 à 5 member crew cost 250000, got %v", got)
	}
}

func TestBreakdownInvariants(t *testing.T) {
	t.Parallel()
	profiles := []Profile{
		{Value: 100_000, Length: 5, CrewMembers: 0},
		{Value: 750_000, Length: 13.5, CrewMembers: 1},
		{Value: 4_200_000, Length: 27.3, CrewMembers: 5},
		{Value: 20_000_000, Length: 60, CrewMembers: 12},
		{Value: 100_000_000, Length: 100, CrewMembers: 20},
	}

	for _, schedule := range Schedules() {
		for _, p := range profiles {
			breakdown, _ := schedule.Compute(p)

			if len(breakdown) != len(Categories()) {
				t.Fatalf("%s: expected %d lines, got %d", schedule.Name, len(Categories()), len(breakdown))
			}

			var sum float64
			for i, line := range breakdown {
				if line.Category != Categories()[i] {
					t.Errorf("%s: line %d is %s, expected %s", schedule.Name, i, line.Category, Categories()[i])
				}
				if line.Amount < 0 {
					t.Errorf("%s: %s is negative for %+v", schedule.Name, line.Category, p)
				}
				sum += line.Amount
			}
			if math.Abs(sum-breakdown.Total()) > 1e-6 {
				t.Errorf("%s: total %v differs from sum %v", schedule.Name, breakdown.Total(), sum)
			}

			if got, want := breakdown.Amount(Insurance), p.Value*schedule.Ratios.Insurance; got != want {
				t.Errorf("%s: insurance %v, expected %v", schedule.Name, got, want)
			}
			if got, want := breakdown.Amount(DockingFees), p.Length*schedule.Ratios.DockingPerMeter; got != want {
				t.Errorf("%s: docking %v, expected %v", schedule.Name, got, want)
			}
		}
	}
}

func TestMonotonicity(t *testing.T) {
	t.Parallel()
	for _, schedule := range Schedules() {
		schedule := schedule
		t.Run(schedule.Name, func(t *testing.T) {
			t.Parallel()

			low, _ := schedule.Compute(Profile{Value: 1_000_000, Length: 20, CrewMembers: 3})
			high, _ := schedule.Compute(Profile{Value: 1_000_001, Length: 20, CrewMembers: 3})
			for _, c := range []Category{Insurance, Maintenance, FuelConsumables} {
				if high.Amount(c) <= low.Amount(c) {
					t.Errorf("%s did not increase with value: %v -> %v", c, low.Amount(c), high.Amount(c))
				}
			}

			previous, _ := schedule.Compute(Profile{Value: 1_000_000, Length: 12, CrewMembers: 3})
			for length := 12.5; length <= 60; length += 0.5 {
				current, _ := schedule.Compute(Profile{Value: 1_000_000, Length: length, CrewMembers: 3})
				if current.Amount(DockingFees) <= previous.Amount(DockingFees) {
					t.Fatalf("docking did not increase at %.1f m", length)
				}
				if current.Amount(Crew) < previous.Amount(Crew) {
					t.Fatalf("crew decreased at %.1f m: %v -> %v", length, previous.Amount(Crew), current.Amount(Crew))
				}
				previous = current
			}
		})
	}
}

func TestEstimateIsIdempotent(t *testing.T) {
	t.Parallel()
	schedule := CrewAwareSchedule()
	p := Profile{Value: 3_500_000, Length: 42}

	first := schedule.Estimate(p)

	var wg sync.WaitGroup
	results := make([]Estimate, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = schedule.Estimate(p)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if diff := cmp.Diff(first, got); diff != "" {
			t.Fatalf("call %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestEstimate(t *testing.T) {
	t.Parallel()
	est := CrewAwareSchedule().Estimate(Profile{Value: 1_000_000, Length: 12})

	if est.Schedule != "crew-aware" {
		t.Errorf("expected schedule crew-aware, got %s", est.Schedule)
	}
	if est.Crew == nil || est.Crew.Label != "1 membre d'équipage" {
		t.Fatalf("expected crew recommendation, got %+v", est.Crew)
	}
	if diff := cmp.Diff(95_000.0, est.Total, approx); diff != "" {
		t.Errorf("Total mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(9.5, est.PercentOfValue, approx); diff != "" {
		t.Errorf("PercentOfValue mismatch (-want +got):\n%s", diff)
	}

	basic := BasicSchedule().Estimate(Profile{Value: 1_000_000, Length: 15, CrewMembers: 2})
	if basic.Crew != nil {
		t.Errorf("basic schedule should not recommend a crew, got %+v", basic.Crew)
	}
}

func TestPercentOfZeroValue(t *testing.T) {
	t.Parallel()
	breakdown := ComputeCosts(0, 10, 1)
	if got := breakdown.PercentOfValue(0); got != 0 {
		t.Errorf("expected 0%% for zero value, got %v", got)
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"", "basic", false},
		{"basic", "basic", false},
		{" Crew-Aware ", "crew-aware", false},
		{"luxury", "", true},
	}

	for _, tt := range tests {
		got, err := Lookup(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Lookup(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("Lookup(%q) error = %v", tt.input, err)
			continue
		}
		if got.Name != tt.want {
			t.Errorf("Lookup(%q) = %s, expected %s", tt.input, got.Name, tt.want)
		}
	}
}

func TestSchedulesAreIndependentCopies(t *testing.T) {
	t.Parallel()
	s := CrewAwareSchedule()
	s.Brackets[0].AnnualCost = 1

	if got := RecommendCrew(12).AnnualCost; got != 45_000 {
		t.Errorf("mutating a schedule leaked into the default table: %v", got)
	}
	if got := CrewAwareSchedule().Brackets[0].AnnualCost; got != 45_000 {
		t.Errorf("mutating a schedule leaked into later schedules: %v", got)
	}
}
