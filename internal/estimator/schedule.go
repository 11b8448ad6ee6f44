package estimator

import (
	"fmt"
	"strings"

	"github.com/guillaumekey/yacht-calculate/pkg/constants"
)

// Ratios holds the heuristic rates of a schedule. Insurance, Maintenance and
// Consumables are fractions of the yacht value.
type Ratios struct {
	Insurance       float64 `json:"insurance"`
	Maintenance     float64 `json:"maintenance"`
	Consumables     float64 `json:"consumables"`
	DockingPerMeter float64 `json:"dockingPerMeter"`
	CrewPerMember   float64 `json:"crewPerMember,omitempty"`
}

// Labels are the display labels of each category.
type Labels struct {
	Insurance   string `json:"insurance"`
	Maintenance string `json:"maintenance"`
	Docking     string `json:"docking"`
	Crew        string `json:"crew"`
	Consumables string `json:"consumables"`
}

// Limits are the input bounds collaborators enforce before calling a
// schedule. The schedule itself accepts any input.
type Limits struct {
	MinValue  float64 `json:"minValue"`
	MaxValue  float64 `json:"maxValue"`
	MinLength float64 `json:"minLength"`
	MaxLength float64 `json:"maxLength"`
	// CrewInput reports whether the crew size is supplied by the caller.
	CrewInput bool `json:"crewInput"`
	MinCrew   int  `json:"minCrew"`
	MaxCrew   int  `json:"maxCrew"`
}

// Schedule is one named set of cost heuristics. When Brackets is non-empty
// the crew cost is derived from the vessel length and Ratios.CrewPerMember
// is unused.
type Schedule struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Ratios      Ratios       `json:"ratios"`
	Brackets    BracketTable `json:"brackets,omitempty"`
	Labels      Labels       `json:"labels"`
	Limits      Limits       `json:"limits"`
}

// BasicSchedule takes the crew size as an input and charges a flat amount
// per crew member.
func BasicSchedule() Schedule {
	return Schedule{
		Name:        constants.ScheduleBasic,
		Description: "Crew size supplied by the owner, 45,000 per member",
		Ratios: Ratios{
			Insurance:       0.01,
			Maintenance:     0.03,
			Consumables:     0.02,
			DockingPerMeter: 1000,
			CrewPerMember:   45_000,
		},
		Labels: Labels{
			Insurance:   "Assurance",
			Maintenance: "Maintenance",
			Docking:     "Frais d'amarrage",
			Crew:        "Équipage",
			Consumables: "Carburant et consommables",
		},
		Limits: Limits{
			MinValue:  100_000,
			MaxValue:  100_000_000,
			MinLength: 5,
			MaxLength: 100,
			CrewInput: true,
			MinCrew:   0,
			MaxCrew:   20,
		},
	}
}

// CrewAwareSchedule derives the crew from the vessel length.
func CrewAwareSchedule() Schedule {
	return Schedule{
		Name:        constants.ScheduleCrewAware,
		Description: "Crew recommended from the vessel length",
		Ratios: Ratios{
			Insurance:       0.005,
			Maintenance:     0.03,
			Consumables:     0.003,
			DockingPerMeter: 1000,
		},
		Brackets: DefaultCrewBrackets(),
		Labels: Labels{
			Insurance:   "Assurance",
			Maintenance: "Maintenance",
			Docking:     "Frais d'amarrage",
			Crew:        "Équipage",
			Consumables: "Consommables",
		},
		Limits: Limits{
			MinValue:  500_000,
			MaxValue:  20_000_000,
			MinLength: 12,
			MaxLength: 60,
		},
	}
}

// Schedules returns every known schedule, default first.
func Schedules() []Schedule {
	return []Schedule{BasicSchedule(), CrewAwareSchedule()}
}

// ScheduleNames returns the names accepted by Lookup.
func ScheduleNames() []string {
	return []string{constants.ScheduleBasic, constants.ScheduleCrewAware}
}

// Lookup resolves a schedule by name. An empty name selects the default.
func Lookup(name string) (Schedule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", constants.ScheduleBasic:
		return BasicSchedule(), nil
	case constants.ScheduleCrewAware:
		return CrewAwareSchedule(), nil
	default:
		return Schedule{}, fmt.Errorf("unknown schedule %q, expected one of %s",
			name, strings.Join(ScheduleNames(), ", "))
	}
}

// CrewFromLength reports whether the crew cost is looked up by length.
func (s Schedule) CrewFromLength() bool {
	return len(s.Brackets) > 0
}

// Compute returns the breakdown for p and, when the crew is derived from the
// length, the recommendation that priced it.
func (s Schedule) Compute(p Profile) (Breakdown, *Recommendation) {
	var crewCost float64
	var crew *Recommendation
	if s.CrewFromLength() {
		rec := s.Brackets.Lookup(p.Length)
		crew = &rec
		crewCost = rec.AnnualCost
	} else {
		crewCost = float64(p.CrewMembers) * s.Ratios.CrewPerMember
	}

	return Breakdown{
		{Category: Insurance, Label: s.Labels.Insurance, Amount: p.Value * s.Ratios.Insurance},
		{Category: Maintenance, Label: s.Labels.Maintenance, Amount: p.Value * s.Ratios.Maintenance},
		{Category: DockingFees, Label: s.Labels.Docking, Amount: p.Length * s.Ratios.DockingPerMeter},
		{Category: Crew, Label: s.Labels.Crew, Amount: crewCost},
		{Category: FuelConsumables, Label: s.Labels.Consumables, Amount: p.Value * s.Ratios.Consumables},
	}, crew
}

// Estimate evaluates the schedule for p.
func (s Schedule) Estimate(p Profile) Estimate {
	breakdown, crew := s.Compute(p)
	return Estimate{
		Schedule:       s.Name,
		Profile:        p,
		Breakdown:      breakdown,
		Crew:           crew,
		Total:          breakdown.Total(),
		PercentOfValue: breakdown.PercentOfValue(p.Value),
	}
}

// ComputeCosts prices a yacht with the basic schedule.
func ComputeCosts(value, length float64, crewMembers int) Breakdown {
	breakdown, _ := BasicSchedule().Compute(Profile{Value: value, Length: length, CrewMembers: crewMembers})
	return breakdown
}

// ComputeCrewAwareCosts prices a yacht with the crew-aware schedule.
func ComputeCrewAwareCosts(value, length float64) Breakdown {
	breakdown, _ := CrewAwareSchedule().Compute(Profile{Value: value, Length: length})
	return breakdown
}
