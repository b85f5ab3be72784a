package cli

import (
	"context"
	"sync"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/snapnote-lab/snapnote/pkg/cli/config"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
	"github.com/snapnote-lab/snapnote/pkg/utils/logging"
)

func cmdRegenerate() *cli.Command {
	var userID string
	var sessionIDs []string
	var all bool
	var concurrency int
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var imageCfg config.ImageStore
	var policyCfg config.Policy

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user-id",
			Usage:       "Owner of the target sessions",
			Value:       string(types.AnonymousUserID),
			Sources:     cli.EnvVars("SNAPNOTE_USER_ID"),
			Destination: &userID,
		},
		&cli.StringSliceFlag{
			Name:        "session-id",
			Aliases:     []string{"i"},
			Usage:       "Session ID to regenerate (repeatable)",
			Destination: &sessionIDs,
		},
		&cli.BoolFlag{
			Name:        "all",
			Usage:       "Regenerate every session owned by the user",
			Destination: &all,
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "Number of sessions processed in parallel",
			Value:       4,
			Destination: &concurrency,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, imageCfg.Flags()...)
	flags = append(flags, policyCfg.Flags()...)

	return &cli.Command{
		Name:    "regenerate",
		Aliases: []string{"r"},
		Usage:   "Regenerate session state from stored screenshots",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if !all && len(sessionIDs) == 0 {
				return goerr.New("either --session-id or --all is required")
			}

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

			uid := types.UserID(userID)
			targets := make([]types.SessionID, 0, len(sessionIDs))
			for _, id := range sessionIDs {
				targets = append(targets, types.SessionID(id))
			}
			if all {
				sessions, err := uc.ListSessions(ctx, uid)
				if err != nil {
					return goerr.Wrap(err, "failed to list sessions")
				}
				for _, s := range sessions {
					targets = append(targets, s.ID)
				}
			}

			if len(targets) == 0 {
				color.Yellow("No sessions to regenerate")
				return nil
			}

			var mu sync.Mutex
			var failed int

			eg, egCtx := errgroup.WithContext(ctx)
			eg.SetLimit(concurrency)
			for _, id := range targets {
				eg.Go(func() error {
					state, err := uc.Regenerate(egCtx, uid, id)
					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						failed++
						color.Red("FAIL %s: %v", id, err)
						return nil
					}
					color.Green("OK   %s: category=%s entities=%d suggestions=%d",
						id, state.SessionCategory, len(state.Entities), len(state.Suggestions))
					return nil
				})
			}
			if err := eg.Wait(); err != nil {
				return goerr.Wrap(err, "regeneration aborted")
			}

			if failed > 0 {
				return goerr.New("some sessions failed to regenerate",
					goerr.V("failed", failed), goerr.V("total", len(targets)))
			}
			color.Green("Regenerated %d sessions", len(targets))
			return nil
		},
	}
}
