package main

import (
	"encoding/json"
	"fmt"

	"github.com/guillaumekey/yacht-calculate/internal/estimator"
	"github.com/guillaumekey/yacht-calculate/pkg/constants"
	"github.com/guillaumekey/yacht-calculate/pkg/format"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func newSchedulesCommand() *cobra.Command {
	var outputFormat string
	cmd := &cobra.Command{
		Use:   "schedules",
		Short: "List the cost schedules with their rates and input limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			schedules := estimator.Schedules()

			switch outputFormat {
			case constants.OutputFormatJSON:
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(schedules)
			case "", constants.OutputFormatPretty:
			default:
				return fmt.Errorf("expected output format of pretty, json, got %s", outputFormat)
			}

			p := message.NewPrinter(language.English)
			for i, s := range schedules {
				if i > 0 {
					p.Fprintln(out)
				}
				p.Fprintf(out, "%s: %s\n", s.Name, s.Description)
				p.Fprintf(out, "  %-26s %s de la valeur\n", s.Labels.Insurance, format.Percent(s.Ratios.Insurance*100))
				p.Fprintf(out, "  %-26s %s de la valeur\n", s.Labels.Maintenance, format.Percent(s.Ratios.Maintenance*100))
				p.Fprintf(out, "  %-26s %s par mètre\n", s.Labels.Docking, format.Currency(s.Ratios.DockingPerMeter))
				if s.CrewFromLength() {
					p.Fprintf(out, "  %-26s selon la longueur (yacht-calculate crew)\n", s.Labels.Crew)
				} else {
					p.Fprintf(out, "  %-26s %s par membre\n", s.Labels.Crew, format.Currency(s.Ratios.CrewPerMember))
				}
				p.Fprintf(out, "  %-26s %s de la valeur\n", s.Labels.Consumables, format.Percent(s.Ratios.Consumables*100))

				l := s.Limits
				p.Fprintf(out, "  valeur %s à %s, longueur %v à %v m", format.Currency(l.MinValue), format.Currency(l.MaxValue), l.MinLength, l.MaxLength)
				if l.CrewInput {
					p.Fprintf(out, ", équipage %d à %d", l.MinCrew, l.MaxCrew)
				}
				p.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "output-format", "o", "", "output format: pretty, json")
	return cmd
}
