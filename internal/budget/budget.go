// Package budget computes the annual cost estimates for every active yacht
// of a configuration.
package budget

import (
	"fmt"

	"github.com/guillaumekey/yacht-calculate/internal/config"
	"github.com/guillaumekey/yacht-calculate/internal/estimator"
	"go.uber.org/zap"
)

// Budget holds the estimate for one named yacht.
type Budget struct {
	Name string `json:"name"`
	estimator.Estimate
}

// GetBudgets estimates every active yacht, in configuration order.
func GetBudgets(logger *zap.Logger, conf config.Configuration) ([]Budget, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var results []Budget
	for _, yacht := range conf.Yachts {
		if !yacht.Active {
			logger.Debug(fmt.Sprintf("skipping yacht %s because it is inactive", yacht.Name),
				zap.String("op", "budget.GetBudgets"),
			)
			continue
		}

		schedule, err := estimator.Lookup(yacht.Schedule)
		if err != nil {
			return results, fmt.Errorf("yacht %q: %w", yacht.Name, err)
		}

		estimate := schedule.Estimate(yacht.Profile())
		logger.Debug("estimated yacht",
			zap.String("op", "budget.GetBudgets"),
			zap.String("yacht", yacht.Name),
			zap.String("schedule", schedule.Name),
			zap.Float64("total", estimate.Total),
		)

		results = append(results, Budget{Name: yacht.Name, Estimate: estimate})
	}

	return results, nil
}

// Single wraps an ad-hoc estimate, e.g. one built from command-line flags.
func Single(name string, schedule estimator.Schedule, profile estimator.Profile) Budget {
	return Budget{Name: name, Estimate: schedule.Estimate(profile)}
}
