package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/vocabsrs/internal/report"
	"github.com/example/vocabsrs/pkg/models"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	var (
		userID    int64
		levelName string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show a learner's forgetting curve on a level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := models.ParseLevel(levelName)
			if err != nil {
				return err
			}

			a, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			r, err := a.reports.ForgettingCurve(cmd.Context(), userID, level)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, r, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "%s: %d mastered, %d learning, %d forgetting, %d new\n\n", r.Level,
					r.Counts[report.CategoryMastered], r.Counts[report.CategoryLearning],
					r.Counts[report.CategoryForgetting], r.Counts[report.CategoryNew])
				fmt.Fprintln(tw, "STRENGTH\tWORDS")
				for _, b := range r.Distribution {
					fmt.Fprintf(tw, "%d-%d\t%d\n", b.From, b.To, b.Count)
				}
				fmt.Fprintln(tw, "\nID\tTEXT\tCATEGORY\tSTRENGTH\tOVERDUE\tURGENCY")
				for _, it := range r.Items {
					if !it.Seen {
						continue
					}
					fmt.Fprintf(tw, "%d\t%s\t%s\t%.0f\t%.1fd\t%s\n",
						it.Item.ID, it.Item.Text, it.Category, it.MemoryStrength, it.OverdueDays, it.Urgency)
				}
			})
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "learner ID")
	cmd.Flags().StringVar(&levelName, "level", models.LevelElementary.String(), "level")
	cmd.MarkFlagRequired("user")
	return cmd
}
