package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/vocabsrs/pkg/models"
)

func newUserCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage learners",
	}
	cmd.AddCommand(newUserAddCmd(opts), newUserListCmd(opts))
	return cmd
}

func newUserAddCmd(opts *rootOptions) *cobra.Command {
	user := models.User{NotificationHour: 9, WordsPerDay: 10}
	var noReminders bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a learner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user.NotificationEnabled = !noReminders

			a, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.users.Create(cmd.Context(), &user); err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, user, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "created user\t%d\n", user.ID)
			})
		},
	}
	f := cmd.Flags()
	f.Int64Var(&user.ChatID, "chat-id", 0, "Telegram chat ID reminders are sent to")
	f.StringVar(&user.Username, "username", "", "display name")
	f.IntVar(&user.NotificationHour, "hour", user.NotificationHour, "hour of day for reminders (0-23)")
	f.IntVar(&user.WordsPerDay, "words-per-day", user.WordsPerDay, "upper bound announced in reminders")
	f.BoolVar(&noReminders, "no-reminders", false, "disable reminders")
	cmd.MarkFlagRequired("chat-id")
	return cmd
}

func newUserListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List learners",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			users, err := a.users.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, users, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "ID\tCHAT\tNAME\tREMINDERS\tHOUR\tWORDS/DAY")
				for _, u := range users {
					fmt.Fprintf(tw, "%d\t%d\t%s\t%t\t%d\t%d\n",
						u.ID, u.ChatID, u.Username, u.NotificationEnabled, u.NotificationHour, u.WordsPerDay)
				}
			})
		},
	}
}
