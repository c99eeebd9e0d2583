package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"adowatch/pkg/cli/config"
	controller "adowatch/pkg/controller/http"
	"adowatch/pkg/controller/poll"
	"adowatch/pkg/infra/devops"
	slackinfra "adowatch/pkg/infra/slack"
	"adowatch/pkg/usecase"
)

func cmdServe() *cli.Command {
	var (
		devopsCfg  config.DevOps
		serverCfg  config.Server
		slackCfg   config.Slack
		sentryCfg  config.Sentry
		configPath string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "TOML configuration file",
			Destination: &configPath,
			Sources:     cli.EnvVars("ADOWATCH_CONFIG"),
		},
	}
	flags = append(flags, devopsCfg.Flags()...)
	flags = append(flags, serverCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Poll Azure DevOps and serve the build status API",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if configPath != "" {
				file, err := config.LoadFile(configPath)
				if err != nil {
					return err
				}
				if err := file.Apply(&devopsCfg, &serverCfg, &slackCfg, &sentryCfg); err != nil {
					return err
				}
			}
			if err := devopsCfg.Validate(); err != nil {
				return err
			}
			if serverCfg.Addr == "" {
				serverCfg.Addr = "localhost:8080"
			}

			if err := sentryCfg.Configure(); err != nil {
				return err
			}

			logger.Info("Starting adowatch",
				slog.String("organization", devopsCfg.Organization),
				slog.String("project", devopsCfg.Project),
				slog.String("addr", serverCfg.Addr),
				slog.String("interval", devopsCfg.Interval.String()),
			)

			coordinator, err := setupCoordinator(ctx, &devopsCfg)
			if err != nil {
				return err
			}

			pollOpts := []poll.Option{
				poll.WithInterval(devopsCfg.Interval),
			}
			if slackCfg.Enabled() {
				pollOpts = append(pollOpts, poll.WithNotifier(slackinfra.NewNotifier(slackCfg.WebhookURL)))
			}
			if sentryCfg.DSN != "" {
				pollOpts = append(pollOpts, poll.WithOnError(func(err error) {
					sentry.CaptureException(err)
				}))
			}

			poller := poll.New(coordinator, pollOpts...)

			server, err := controller.NewServer(
				ctx,
				poller,
				controller.WithAddr(serverCfg.Addr),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			pollCtx, cancelPoll := context.WithCancel(ctx)
			defer cancelPoll()

			pollErrCh := make(chan error, 1)
			go func() {
				pollErrCh <- poller.Run(pollCtx)
			}()

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal or a terminal polling failure
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			var runErr error
			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			case err := <-pollErrCh:
				if err != nil {
					logger.Error("Polling stopped", slog.Any("error", err))
					runErr = err
				}
			}

			cancelPoll()

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			if sentryCfg.DSN != "" {
				sentry.Flush(2 * time.Second)
			}

			logger.Info("Server shutdown complete")
			return runErr
		},
	}
}

// setupCoordinator builds the client, authorizes the token and resolves the
// project, the one-time sequence preceding the periodic refresh loop
func setupCoordinator(ctx context.Context, cfg *config.DevOps) (*usecase.Coordinator, error) {
	client := devops.NewClient(devops.WithBaseURL(cfg.BaseURL))
	coordinator := usecase.NewCoordinator(client, cfg.Organization)

	if _, err := coordinator.Authorize(ctx, cfg.PersonalAccessToken); err != nil {
		return nil, goerr.Wrap(err, "authorization failed")
	}

	if _, err := coordinator.ResolveProject(ctx, cfg.Project); err != nil {
		return nil, goerr.Wrap(err, "failed to resolve project", goerr.V("project", cfg.Project))
	}

	return coordinator, nil
}
