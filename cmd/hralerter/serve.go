package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hr-alerter/internal/events"
	"hr-alerter/internal/httpapi"
	"hr-alerter/internal/pipeline"
	"hr-alerter/internal/scheduler"
)

func serveCmd(a *app) *cobra.Command {
	var (
		host          string
		port          int
		shutdownToken string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the daily/weekly schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := a.cfg()
			if port <= 0 {
				port = cfg.App.Port
			}
			if shutdownToken == "" {
				shutdownToken = os.Getenv("HR_ALERTER_SHUTDOWN_TOKEN")
			}

			hub := events.NewHub()
			runner, err := a.runner(hub)
			if err != nil {
				return err
			}

			sched := scheduler.New(ctx)
			if cfg.Schedule.Enabled {
				if err := sched.Add(pipeline.KindDaily, cfg.Schedule.Daily, func(ctx context.Context) error {
					_, err := runner.Daily(ctx, pipeline.DailyOptions{})
					return err
				}); err != nil {
					return err
				}
				if err := sched.Add(pipeline.KindWeekly, cfg.Schedule.Weekly, func(ctx context.Context) error {
					_, err := runner.Weekly(ctx, "")
					return err
				}); err != nil {
					return err
				}
				sched.Start()
				defer sched.Stop()
			}

			router := httpapi.NewRouter(ctx, httpapi.Deps{
				DB:            runner.DB,
				Hub:           hub,
				Runner:        runner,
				CfgVal:        &a.cfgVal,
				UserCfgPath:   a.cfgPath,
				LoadCfg:       a.reload,
				ShutdownToken: shutdownToken,
				Shutdown:      stop,
			})
			srv := httpapi.NewServer(fmt.Sprintf("%s:%d", host, port), router)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("api shutdown")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "listen address")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default app.port)")
	cmd.Flags().StringVar(&shutdownToken, "shutdown-token", "", "enables POST /shutdown with this X-Shutdown-Token (env HR_ALERTER_SHUTDOWN_TOKEN)")
	return cmd
}
