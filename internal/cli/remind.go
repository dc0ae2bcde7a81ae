package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/example/vocabsrs/internal/notify"
	"github.com/example/vocabsrs/internal/scheduler"
)

func newRemindCmd(opts *rootOptions) *cobra.Command {
	var (
		once   bool
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send hourly review reminders until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			var notifier scheduler.Notifier = notify.LogNotifier{Logger: a.logger}
			if !dryRun {
				if a.cfg.TelegramToken == "" {
					return errors.New("TELEGRAM_BOT_TOKEN environment variable is not set (use --dry-run to only log reminders)")
				}
				tg, err := notify.NewTelegramNotifier(a.cfg.TelegramToken, a.logger)
				if err != nil {
					return err
				}
				notifier = tg
			}

			window := scheduler.Window{StartHour: a.cfg.NotificationStartHour, EndHour: a.cfg.NotificationEndHour}
			s := scheduler.New(a.users, a.srs, notifier, window, a.metrics, a.logger)

			if once {
				sent, err := s.CheckAndSendReminders(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "sent %d reminders\n", sent)
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var srv *http.Server
			if a.cfg.MetricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
				srv = &http.Server{Addr: a.cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						a.logger.Error().Err(err).Msg("metrics server stopped")
					}
				}()
				a.logger.Info().Str("addr", a.cfg.MetricsAddr).Msg("serving metrics")
			}

			if err := s.Start(ctx); err != nil {
				return err
			}
			a.logger.Info().
				Int("start_hour", window.StartHour).
				Int("end_hour", window.EndHour).
				Msg("reminder scheduler started, press Ctrl+C to stop")

			<-ctx.Done()
			a.logger.Info().Msg("stopping reminder scheduler")
			s.Stop()

			if srv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					a.logger.Error().Err(err).Msg("error during metrics server shutdown")
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "run a single sweep and exit")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log reminders instead of sending them")
	return cmd
}
