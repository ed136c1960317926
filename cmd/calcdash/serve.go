package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/iwvelando/calcdash/internal/server"
	"github.com/iwvelando/calcdash/pkg/session"
	"github.com/iwvelando/calcdash/pkg/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func (a *app) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the JSON API",
		Long: `Serves the calculators, record logs and analyses over HTTP until
interrupted. With storage.watch enabled and the file backend, edits made to the
data files by other programs are picked up without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd.Context())
		},
	}
}

func (a *app) runServe(parent context.Context) error {
	srvConf, err := server.NewConfig(a.conf.Server)
	if err != nil {
		return err
	}
	a.logger.Debug("loaded server configuration",
		zap.String("op", "main.runServe"),
		zap.String("address", srvConf.Address),
		zap.String("maxBodySize", humanize.IBytes(uint64(srvConf.MaxBodySize))),
	)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.withSession(func(sess *session.Session) error {
		handler := server.NewHandler(server.Options{
			Logger:      a.logger,
			Session:     sess,
			MaxBodySize: srvConf.MaxBodySize,
			Version:     version,
			Defaults: server.Defaults{
				ElectricityRate: a.conf.Electricity.Rate,
				Budgets:         a.conf.Budgets(),
				SleepTarget:     a.conf.Sleep.TargetHours,
				MaxExtraSleep:   a.conf.Sleep.MaxExtraSleep,
			},
			Now: a.now,
		})

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return server.Serve(gctx, srvConf, handler, a.logger)
		})
		if a.conf.Storage.Watch {
			if fileStore, ok := sess.Store().(*storage.FileStore); ok {
				g.Go(func() error {
					return sess.Watch(gctx, fileStore)
				})
			} else {
				a.logger.Warn("storage.watch ignored for non-file backend",
					zap.String("op", "main.runServe"),
					zap.String("backend", a.conf.Storage.Backend),
				)
			}
		}
		return g.Wait()
	})
}
