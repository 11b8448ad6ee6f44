package format

import (
	"fmt"
	"math"

	"github.com/guillaumekey/yacht-calculate/pkg/constants"
	"github.com/guillaumekey/yacht-calculate/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// groupingPrinter renders numbers with comma thousands separators.
var groupingPrinter = message.NewPrinter(language.English)

// Currency returns a euro amount with thousands separators and a trailing
// symbol (e.g., "1,234.56 €", "-1,234.56 €").
func Currency(amount float64) string {
	return NumericCurrency(amount) + " " + constants.CurrencySymbol
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && mathutil.Round(amount) != 0 {
		return "-" + formatted
	}
	return formatted
}

// Percent returns a percentage with one decimal (e.g., "16.5%").
func Percent(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

// ShareOfValue renders the total-cost delta shown next to the total metric.
func ShareOfValue(percent float64) string {
	return Percent(percent) + " de la valeur du yacht"
}

func formatPositiveCurrency(value float64) string {
	return groupingPrinter.Sprintf("%.2f", value)
}
