package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/snapnote-lab/snapnote/pkg/cli/config"
	httpctrl "github.com/snapnote-lab/snapnote/pkg/controller/http"
	"github.com/snapnote-lab/snapnote/pkg/domain/interfaces"
	"github.com/snapnote-lab/snapnote/pkg/service/notechat"
	"github.com/snapnote-lab/snapnote/pkg/service/reconcile"
	"github.com/snapnote-lab/snapnote/pkg/usecase"
	"github.com/snapnote-lab/snapnote/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var apiToken string
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var imageCfg config.ImageStore
	var policyCfg config.Policy

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("SNAPNOTE_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "api-token",
			Usage:       "Static bearer token for API access (anonymous mode when empty)",
			Sources:     cli.EnvVars("SNAPNOTE_API_TOKEN"),
			Destination: &apiToken,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, imageCfg.Flags()...)
	flags = append(flags, policyCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			uc, err := buildUseCases(ctx, repo, &geminiCfg, &imageCfg, &policyCfg)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpctrl.WithAPIToken(apiToken)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return goerr.Wrap(err, "HTTP server failed")
			case <-ctx.Done():
			}

			logging.Default().Info("Shutting down HTTP server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shut down HTTP server")
			}
			return nil
		},
	}
}

// buildUseCases wires the generation services and stores into the use case
// layer, shared between serve and regenerate commands
func buildUseCases(ctx context.Context, repo interfaces.Repository, geminiCfg *config.Gemini, imageCfg *config.ImageStore, policyCfg *config.Policy) (*usecase.UseCases, error) {
	policy, err := policyCfg.Load()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load generation policy")
	}

	llmClient, err := geminiCfg.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure Gemini client")
	}

	reconciler, err := reconcile.New(llmClient, policy.ReconcileOptions()...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create reconciliation service")
	}
	chat, err := notechat.New(llmClient, policy.NoteChatOptions()...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create note chat service")
	}

	analyzer, err := geminiCfg.ConfigureAnalyzer(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure screenshot analyzer")
	}

	images, err := imageCfg.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure image store")
	}

	return usecase.New(repo,
		usecase.WithImageStore(images),
		usecase.WithReconciler(reconciler),
		usecase.WithNoteChat(chat),
		usecase.WithAnalyzer(analyzer),
	), nil
}
