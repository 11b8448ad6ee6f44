package main

import (
	"fmt"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/guillaumekey/yacht-calculate/internal/estimator"
	"github.com/guillaumekey/yacht-calculate/pkg/format"
	"github.com/spf13/cobra"
)

func newCrewCommand() *cobra.Command {
	var length float64
	cmd := &cobra.Command{
		Use:   "crew",
		Short: "Show the recommended crew for a vessel length, or the whole crew table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			brackets := estimator.DefaultCrewBrackets()

			if !cmd.Flags().Changed("length") {
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "Longueur\tÉquipage\tCoût annuel")
				for _, b := range brackets {
					fmt.Fprintf(tw, "%s-%s m\t%s\t%s\n", meters(b.MinLength), meters(b.MaxLength), b.Label, format.Currency(b.AnnualCost))
				}
				return tw.Flush()
			}

			if math.IsNaN(length) || length <= 0 {
				return fmt.Errorf("length must be a positive number of metres")
			}
			rec := brackets.Lookup(length)
			fmt.Fprintf(out, "%s m : %s (%s par an)\n", meters(length), rec.Label, format.Currency(rec.AnnualCost))
			if rec.Fallback {
				first, last := brackets[0], brackets[len(brackets)-1]
				fmt.Fprintf(out, "Longueur hors du barème %s-%s m, première tranche appliquée\n",
					meters(first.MinLength), meters(last.MaxLength))
			}
			return nil
		},
	}
	cmd.Flags().Float64VarP(&length, "length", "l", 0, "vessel length in metres")
	return cmd
}

func meters(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
