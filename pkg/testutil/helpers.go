// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/guillaumekey/yacht-calculate/internal/budget"
	"github.com/guillaumekey/yacht-calculate/internal/estimator"
)

// FindBudget returns the budget of the named yacht, or nil.
func FindBudget(results []budget.Budget, name string) *budget.Budget {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// LineAmount returns the amount of a category in b, and whether the line exists.
func LineAmount(b estimator.Breakdown, category estimator.Category) (float64, bool) {
	for _, line := range b {
		if line.Category == category {
			return line.Amount, true
		}
	}
	return 0, false
}
