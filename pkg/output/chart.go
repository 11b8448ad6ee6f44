package output

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/guillaumekey/yacht-calculate/internal/estimator"
	"github.com/guillaumekey/yacht-calculate/pkg/format"
	"github.com/guillaumekey/yacht-calculate/pkg/mathutil"
)

const defaultBarWidth = 40

// BarChart draws one horizontal bar per category, scaled to the largest
// amount. Any amount above one cent gets at least one block.
func BarChart(w io.Writer, breakdown estimator.Breakdown, width int) error {
	if width <= 0 {
		width = defaultBarWidth
	}

	var largest float64
	for _, line := range breakdown {
		largest = math.Max(largest, line.Amount)
	}

	for _, line := range breakdown {
		blocks := 0
		if largest > 0 && line.Amount > 0 && !mathutil.IsZero(line.Amount) {
			blocks = int(math.Round(line.Amount / largest * float64(width)))
			if blocks == 0 {
				blocks = 1
			}
		}
		_, err := fmt.Fprintf(w, "%-*s %-*s %s\n", labelWidth, line.Label, width,
			strings.Repeat("█", blocks), format.Currency(line.Amount))
		if err != nil {
			return err
		}
	}
	return nil
}
