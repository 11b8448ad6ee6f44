package estimator

import "github.com/guillaumekey/yacht-calculate/pkg/mathutil"

// Category identifies one cost line of a breakdown.
type Category string

const (
	Insurance       Category = "Insurance"
	Maintenance     Category = "Maintenance"
	DockingFees     Category = "Docking Fees"
	Crew            Category = "Crew"
	FuelConsumables Category = "Fuel/Consumables"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{Insurance, Maintenance, DockingFees, Crew, FuelConsumables}
}

// Profile holds the inputs describing one yacht.
type Profile struct {
	Value       float64 `json:"value" yaml:"value"`             // currency
	Length      float64 `json:"length" yaml:"length"`           // metres
	CrewMembers int     `json:"crewMembers" yaml:"crewMembers"` // ignored when crew is derived from length
}

// Line is one labelled amount of a breakdown.
type Line struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Amount   float64  `json:"amount"`
}

// Breakdown is the ordered list of cost lines for one estimation. The order
// is the display order.
type Breakdown []Line

// Total returns the sum of every line.
func (b Breakdown) Total() float64 {
	return mathutil.Sum(b.Amounts())
}

// PercentOfValue expresses the total as a percentage of the yacht value.
func (b Breakdown) PercentOfValue(value float64) float64 {
	return mathutil.CalculatePercentage(b.Total(), value)
}

// Amount returns the amount recorded for a category, or 0 if it is absent.
func (b Breakdown) Amount(category Category) float64 {
	for _, line := range b {
		if line.Category == category {
			return line.Amount
		}
	}
	return 0
}

// Labels returns the display labels in order.
func (b Breakdown) Labels() []string {
	labels := make([]string, len(b))
	for i, line := range b {
		labels[i] = line.Label
	}
	return labels
}

// Amounts returns the amounts in order, e.g. as a chart series.
func (b Breakdown) Amounts() []float64 {
	amounts := make([]float64, len(b))
	for i, line := range b {
		amounts[i] = line.Amount
	}
	return amounts
}

// Estimate is the outcome of evaluating a Schedule for a Profile.
type Estimate struct {
	Schedule       string          `json:"schedule"`
	Profile        Profile         `json:"profile"`
	Breakdown      Breakdown       `json:"breakdown"`
	Crew           *Recommendation `json:"crew,omitempty"`
	Total          float64         `json:"total"`
	PercentOfValue float64         `json:"percentOfValue"`
}
