package estimator

// CrewBracket maps a contiguous length band to a crew recommendation.
type CrewBracket struct {
	MinLength  float64 `json:"minLength"`
	MaxLength  float64 `json:"maxLength"`
	MinMembers int     `json:"minMembers"`
	MaxMembers int     `json:"maxMembers"`
	Label      string  `json:"label"`
	AnnualCost float64 `json:"annualCost"`
}

// Recommendation is the crew suggested for a given length.
type Recommendation struct {
	Label      string  `json:"label"`
	MinMembers int     `json:"minMembers"`
	MaxMembers int     `json:"maxMembers"`
	AnnualCost float64 `json:"annualCost"`
	// Fallback is set when the length fell outside the table and the first
	// bracket was applied.
	Fallback bool `json:"fallback,omitempty"`
}

// BracketTable is an ordered list of non-overlapping brackets. Bands are
// treated as contiguous: a length between the MaxLength of one bracket and
// the MinLength of the next belongs to the lower bracket.
type BracketTable []CrewBracket

// DefaultCrewBrackets returns the crew table covering 12 to 60 metres.
func DefaultCrewBrackets() BracketTable {
	return BracketTable{
		{MinLength: 12, MaxLength: 15, MinMembers: 1, MaxMembers: 1, Label: "1 membre d'équipage", AnnualCost: 45_000},
		{MinLength: 16, MaxLength: 22, MinMembers: 2, MaxMembers: 2, Label: "2 membres d'équipage", AnnualCost: 75_000},
		{MinLength: 23, MaxLength: 27, MinMembers: 3, MaxMembers: 3, Label: "3 membres d'équipage", AnnualCost: 110_000},
		{MinLength: 28, MaxLength: 33, MinMembers: 4, MaxMembers: 5, Label: "4 à 5 membres d'équipage", AnnualCost: 250_000},
		{MinLength: 34, MaxLength: 40, MinMembers: 6, MaxMembers: 7, Label: "6 à 7 membres d'équipage", AnnualCost: 325_000},
		{MinLength: 41, MaxLength: 50, MinMembers: 7, MaxMembers: 8, Label: "7 à 8 membres d'équipage", AnnualCost: 430_000},
		{MinLength: 51, MaxLength: 60, MinMembers: 9, MaxMembers: 12, Label: "9 à 12 membres d'équipage", AnnualCost: 570_000},
	}
}

var crewBrackets = DefaultCrewBrackets()

// RecommendCrew looks up the default crew table. Lengths outside 12-60 m
// get the first bracket.
func RecommendCrew(length float64) Recommendation {
	return crewBrackets.Lookup(length)
}

// Lookup returns the recommendation for length. Out-of-range lengths (and
// NaN) fall back to the first bracket rather than failing.
func (t BracketTable) Lookup(length float64) Recommendation {
	if len(t) == 0 {
		return Recommendation{Fallback: true}
	}

	if length >= t[0].MinLength && length <= t[len(t)-1].MaxLength {
		for i := len(t) - 1; i >= 0; i-- {
			if length >= t[i].MinLength {
				return t[i].recommendation(false)
			}
		}
	}

	return t[0].recommendation(true)
}

func (b CrewBracket) recommendation(fallback bool) Recommendation {
	return Recommendation{
		Label:      b.Label,
		MinMembers: b.MinMembers,
		MaxMembers: b.MaxMembers,
		AnnualCost: b.AnnualCost,
		Fallback:   fallback,
	}
}
