// Package output provides utilities for formatting and displaying estimate results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/guillaumekey/yacht-calculate/internal/budget"
	"github.com/guillaumekey/yacht-calculate/internal/estimator"
	"github.com/guillaumekey/yacht-calculate/pkg/constants"
	"github.com/guillaumekey/yacht-calculate/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const labelWidth = 28

// Write renders results in the named format.
func Write(w io.Writer, outputFormat string, results []budget.Budget) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, results)
	case constants.OutputFormatCSV:
		return CsvFormat(w, results)
	case constants.OutputFormatJSON:
		return JSONFormat(w, results)
	case constants.OutputFormatXLSX:
		return XLSXFormat(w, results)
	default:
		return fmt.Errorf("unsupported output format %s", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table,
// followed by a bar chart of the categories and the disclaimer.
func PrettyFormat(w io.Writer, results []budget.Budget) error {
	p := message.NewPrinter(language.English)
	ew := &errWriter{w: w}

	for i, result := range results {
		ew.printf("--- Estimation des coûts annuels : %s (%s) ---\n", result.Name, result.Schedule)
		ew.printf("Valeur %s | Longueur %s m", format.Currency(result.Profile.Value),
			strconv.FormatFloat(result.Profile.Length, 'f', -1, 64))
		if result.Crew != nil {
			ew.printf(" | Équipage recommandé : %s", result.Crew.Label)
		} else {
			ew.printf(" | Équipage : %d", result.Profile.CrewMembers)
		}
		ew.printf("\n\n")

		ew.printf("%-*s | %s\n", labelWidth, "Catégorie", "Montant")
		ew.printf("%-*s | %s\n", labelWidth, "_________", "_______")
		for _, line := range result.Breakdown {
			ew.write(p.Sprintf("%-*s | %16.2f %s\n", labelWidth, line.Label, line.Amount, constants.CurrencySymbol))
		}
		ew.printf("%s\n", strings.Repeat("-", labelWidth+21))
		ew.write(p.Sprintf("%-*s | %16.2f %s\n", labelWidth, "Coût Total Annuel", result.Total, constants.CurrencySymbol))
		ew.printf("%-*s | %s\n\n", labelWidth, "", format.ShareOfValue(result.PercentOfValue))

		ew.printf("Répartition des coûts\n")
		if err := BarChart(ew, result.Breakdown, defaultBarWidth); err != nil {
			return err
		}

		if i < len(results)-1 {
			ew.printf("\n")
		}
	}

	if len(results) > 0 {
		ew.printf("\n")
		Notes(ew)
	}
	return ew.err
}

// Notes writes the disclaimer and its caveats.
func Notes(w io.Writer) {
	fmt.Fprintf(w, "Note : %s\n", estimator.Disclaimer)
	for _, caveat := range estimator.Caveats() {
		fmt.Fprintf(w, "  - %s\n", caveat)
	}
}

// CsvFormat outputs one row per yacht in comma-separated value format.
func CsvFormat(w io.Writer, results []budget.Budget) error {
	writer := csv.NewWriter(w)

	header := []string{"yacht", "schedule", "value", "length", "crewMembers", "crewRecommendation"}
	for _, category := range estimator.Categories() {
		header = append(header, string(category))
	}
	header = append(header, "total", "percentOfValue")
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, result := range results {
		crewMembers := strconv.Itoa(result.Profile.CrewMembers)
		recommendation := ""
		if result.Crew != nil {
			crewMembers = ""
			recommendation = result.Crew.Label
		}

		row := []string{
			result.Name,
			result.Schedule,
			decimal(result.Profile.Value),
			strconv.FormatFloat(result.Profile.Length, 'f', -1, 64),
			crewMembers,
			recommendation,
		}
		for _, category := range estimator.Categories() {
			row = append(row, decimal(result.Breakdown.Amount(category)))
		}
		row = append(row, decimal(result.Total), strconv.FormatFloat(result.PercentOfValue, 'f', 1, 64))

		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// CsvString renders CsvFormat into a string.
func CsvString(results []budget.Budget) string {
	var buf bytes.Buffer
	_ = CsvFormat(&buf, results)
	return buf.String()
}

// JSONFormat outputs the results as an indented JSON array.
func JSONFormat(w io.Writer, results []budget.Budget) error {
	if results == nil {
		results = []budget.Budget{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

func decimal(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

// errWriter keeps the first write error so renderers can check it once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) printf(layout string, args ...interface{}) {
	_, _ = fmt.Fprintf(e, layout, args...)
}

func (e *errWriter) write(s string) {
	_, _ = io.WriteString(e, s)
}
