package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	srs "github.com/example/vocabsrs/internal/spaced_repetition"
)

func newDecayTableCmd(opts *rootOptions) *cobra.Command {
	var (
		strength float64
		ease     float64
		days     int
	)
	cmd := &cobra.Command{
		Use:   "decay-table",
		Short: "Show how memory strength decays day by day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var model srs.DecayModel
			rows := model.Table(strength, ease, days)
			return render(cmd.OutOrStdout(), opts.output, rows, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "DAY\tSTRENGTH\tNEXT INTERVAL")
				for _, r := range rows {
					fmt.Fprintf(tw, "%d\t%.0f\t%dd\n", r.Day, r.Strength, r.SuggestedInterval)
				}
			})
		},
	}
	cmd.Flags().Float64Var(&strength, "strength", 80, "memory strength right after the review (0-100)")
	cmd.Flags().Float64Var(&ease, "ease", 2.5, "ease factor (1.3-2.5)")
	cmd.Flags().IntVar(&days, "days", 30, "number of days to tabulate")
	return cmd
}
