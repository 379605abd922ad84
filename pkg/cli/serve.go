package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/slackline-io/slackline/pkg/cli/config"
	httpctrl "github.com/slackline-io/slackline/pkg/controller/http"
	"github.com/slackline-io/slackline/pkg/service/archive"
	"github.com/slackline-io/slackline/pkg/usecase"
	"github.com/slackline-io/slackline/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var baseURL string
	var archiveBucket string
	var importConcurrency int
	var repoCfg config.Repository
	var slackCfg config.Slack
	var chatCfg config.HostChat
	var mappingCfg config.Mapping

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("SLACKLINE_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Public base URL of this service (e.g., https://bridge.example.com)",
			Sources:     cli.EnvVars("SLACKLINE_BASE_URL"),
			Destination: &baseURL,
		},
		&cli.StringFlag{
			Name:        "import-archive-bucket",
			Usage:       "Cloud Storage bucket for import run reports (optional)",
			Sources:     cli.EnvVars("SLACKLINE_IMPORT_ARCHIVE_BUCKET"),
			Destination: &archiveBucket,
		},
		&cli.IntFlag{
			Name:        "import-concurrency",
			Usage:       "Number of concurrent message posts during history import",
			Value:       4,
			Sources:     cli.EnvVars("SLACKLINE_IMPORT_CONCURRENCY"),
			Destination: &importConcurrency,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, chatCfg.Flags()...)
	flags = append(flags, mappingCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("Serve configuration",
				"addr", addr,
				"base_url", baseURL,
				"slack", slackCfg,
				"chat", chatCfg,
				"mapping", mappingCfg,
			)

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			authz, err := slackCfg.Configure(baseURL)
			if err != nil {
				return goerr.Wrap(err, "failed to configure slack authorization")
			}

			chatSvc, err := chatCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure chat service")
			}

			ucOpts := []usecase.Option{
				usecase.WithImportConcurrency(importConcurrency),
			}

			if archiveBucket != "" {
				archiveSvc, err := archive.New(ctx, archiveBucket)
				if err != nil {
					return goerr.Wrap(err, "failed to initialize archive service")
				}
				ucOpts = append(ucOpts, usecase.WithArchive(archiveSvc))
				logging.Default().Info("Import report archive enabled", "bucket", archiveBucket)
			}

			mapping, err := mappingCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load mapping")
			}
			if mapping != nil {
				ucOpts = append(ucOpts, usecase.WithMapping(mapping))
				logging.Default().Info("Explicit mapping enabled",
					"rooms", len(mapping.Rooms),
					"users", len(mapping.Users),
				)
			}

			uc := usecase.New(repo, chatSvc, authz, ucOpts...)

			httpOpts := []httpctrl.Options{}
			if secret := slackCfg.SigningSecret(); secret != "" {
				httpOpts = append(httpOpts, httpctrl.WithSigningSecret(secret))
				logging.Default().Info("Slack signature verification enabled")
			} else {
				logging.Default().Warn("Slack signing secret is not set, webhook verification disabled")
			}
			if token := chatCfg.CommandToken(); token != "" {
				httpOpts = append(httpOpts, httpctrl.WithCommandToken(token))
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
