package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/guillaumekey/yacht-calculate/internal/budget"
	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet    = "Sheet1"
	maxSheetNameLen = 31
	// Excel built-in format 10 is "0.00%".
	percentNumFmt = 10
)

var currencyNumFmt = `#,##0.00 "€"`

// XLSXFormat writes a workbook with one sheet per yacht: the category
// table, the total, the share of value, the inputs and a column chart.
func XLSXFormat(w io.Writer, results []budget.Budget) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: &currencyNumFmt})
	if err != nil {
		return fmt.Errorf("failed to create currency style: %w", err)
	}
	boldMoney, err := f.NewStyle(&excelize.Style{CustomNumFmt: &currencyNumFmt, Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create total style: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	percent, err := f.NewStyle(&excelize.Style{NumFmt: percentNumFmt})
	if err != nil {
		return fmt.Errorf("failed to create percent style: %w", err)
	}

	used := make(map[string]bool)
	for i, result := range results {
		sheet := SheetName(i, result.Name, used)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		cells := map[string]interface{}{
			"A1": "Catégorie",
			"B1": "Montant",
			"D1": "Yacht",
			"E1": result.Name,
			"D2": "Barème",
			"E2": result.Schedule,
			"D3": "Valeur",
			"E3": result.Profile.Value,
			"D4": "Longueur (m)",
			"E4": result.Profile.Length,
			"D5": "Équipage",
		}
		if result.Crew != nil {
			cells["E5"] = result.Crew.Label
		} else {
			cells["E5"] = result.Profile.CrewMembers
		}

		for j, line := range result.Breakdown {
			row := j + 2
			cells[fmt.Sprintf("A%d", row)] = line.Label
			cells[fmt.Sprintf("B%d", row)] = line.Amount
		}
		lastLine := len(result.Breakdown) + 1
		totalRow := lastLine + 1
		shareRow := totalRow + 1
		cells[fmt.Sprintf("A%d", totalRow)] = "Coût Total Annuel"
		cells[fmt.Sprintf("B%d", totalRow)] = result.Total
		cells[fmt.Sprintf("A%d", shareRow)] = "Part de la valeur du yacht"
		cells[fmt.Sprintf("B%d", shareRow)] = result.PercentOfValue / 100

		for cell, value := range cells {
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
			}
		}

		styles := []struct {
			from, to string
			style    int
		}{
			{"A1", "B1", bold},
			{"D1", "D5", bold},
			{"B2", fmt.Sprintf("B%d", lastLine), money},
			{fmt.Sprintf("A%d", totalRow), fmt.Sprintf("A%d", totalRow), bold},
			{fmt.Sprintf("B%d", totalRow), fmt.Sprintf("B%d", totalRow), boldMoney},
			{fmt.Sprintf("B%d", shareRow), fmt.Sprintf("B%d", shareRow), percent},
			{"E3", "E3", money},
		}
		for _, s := range styles {
			if err := f.SetCellStyle(sheet, s.from, s.to, s.style); err != nil {
				return err
			}
		}
		if err := f.SetColWidth(sheet, "A", "A", 30); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "B", "B", 18); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "D", "E", 20); err != nil {
			return err
		}

		if len(result.Breakdown) > 0 {
			ref := quoteSheet(sheet)
			chart := &excelize.Chart{
				Type: excelize.Col,
				Series: []excelize.ChartSeries{{
					Name:       ref + "!$B$1",
					Categories: fmt.Sprintf("%s!$A$2:$A$%d", ref, lastLine),
					Values:     fmt.Sprintf("%s!$B$2:$B$%d", ref, lastLine),
				}},
			}
			if err := f.AddChart(sheet, "D8", chart); err != nil {
				return fmt.Errorf("failed to add chart to %s: %w", sheet, err)
			}
		}
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SheetName derives a unique worksheet name from a yacht name. Characters
// Excel rejects are dropped and the result is capped at 31 characters.
func SheetName(index int, name string, used map[string]bool) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\', '\'':
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if cleaned == "" {
		cleaned = fmt.Sprintf("Yacht %d", index+1)
	}
	cleaned = truncateRunes(cleaned, maxSheetNameLen)

	candidate := cleaned
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncateRunes(cleaned, maxSheetNameLen-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func quoteSheet(sheet string) string {
	return "'" + sheet + "'"
}
