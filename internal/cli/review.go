package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/vocabsrs/internal/study"
	"github.com/example/vocabsrs/pkg/models"
)

func newReviewCmd(opts *rootOptions) *cobra.Command {
	var (
		userID    int64
		levelName string
		count     int
	)
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Show the next study batch for a learner",
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

			if !cmd.Flags().Changed("count") {
				count = a.cfg.BatchSize
			}
			batch, err := a.study.NextBatch(cmd.Context(), userID, level, count)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, batch, func(tw *tabwriter.Writer) {
				s := batch.Statistics
				fmt.Fprintf(tw, "batch %s: %d words (%d review, %d new)\n",
					batch.ID, len(batch.Words), len(batch.ReviewWords), len(batch.NewWords))
				fmt.Fprintf(tw, "level %v: %d total, %d learned, %d mastered, %d due\n\n",
					batch.Level, s.TotalWords, s.LearnedWords, s.MasteredWords, s.DueForReview)
				fmt.Fprintln(tw, "KIND\tID\tTEXT\tSTRENGTH\tPRIORITY")
				for _, w := range batch.Words {
					kind := "review"
					if w.IsNew {
						kind = "new"
					}
					fmt.Fprintf(tw, "%s\t%d\t%s\t%.0f\t%.1f\n", kind, w.Item.ID, w.Item.Text, w.MemoryStrength, w.Priority)
				}
			})
		},
	}
	f := cmd.Flags()
	f.Int64Var(&userID, "user", 0, "learner ID")
	f.StringVar(&levelName, "level", models.LevelElementary.String(), "level: ELEMENTARY, INTERMEDIATE or HIGH_INTERMEDIATE")
	f.IntVar(&count, "count", 0, "batch size (default SRS_BATCH_SIZE)")
	cmd.MarkFlagRequired("user")
	return cmd
}

func newAnswerCmd(opts *rootOptions) *cobra.Command {
	var (
		userID       int64
		responseTime time.Duration
	)
	cmd := &cobra.Command{
		Use:   "answer <item-id> <correct|incorrect>",
		Short: "Record a learner's answer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item ID %q: %w", args[0], err)
			}
			correct, err := parseOutcome(args[1])
			if err != nil {
				return err
			}

			a, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.study.SubmitAnswer(cmd.Context(), study.Answer{
				UserID:       userID,
				ItemID:       itemID,
				Correct:      correct,
				ResponseTime: responseTime,
			})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, res, func(tw *tabwriter.Writer) {
				r := res.Record
				fmt.Fprintf(tw, "%s\t%v -> %v\n", res.Item.Text, res.Previous.Status, r.Status)
				fmt.Fprintf(tw, "strength\t%.0f -> %.0f\n", res.Previous.MemoryStrength, r.MemoryStrength)
				fmt.Fprintf(tw, "ease\t%.2f -> %.2f\n", res.Previous.EaseFactor, r.EaseFactor)
				fmt.Fprintf(tw, "next review\t%s (in %.0fd)\n", r.NextReviewAt.Format(time.RFC3339), r.IntervalDays)
				fmt.Fprintf(tw, "quality\t%d\n", res.Quality)
			})
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "learner ID")
	cmd.Flags().DurationVar(&responseTime, "response-time", 0, "time taken to answer, e.g. 2.5s")
	cmd.MarkFlagRequired("user")
	return cmd
}

func parseOutcome(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "correct", "c", "yes", "y", "true":
		return true, nil
	case "incorrect", "wrong", "i", "no", "n", "false":
		return false, nil
	default:
		return false, fmt.Errorf("answer must be correct or incorrect, got %q", s)
	}
}
