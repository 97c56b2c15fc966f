package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ilya24037/www.spa.com-sub004/internal/app"
	"github.com/ilya24037/www.spa.com-sub004/internal/notify"
)

func NewWorkerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Process booking reminder tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorker(cmd.Context())
		},
	}
}

func runWorker(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	log := rt.log
	defer func() { _ = log.Sync() }()

	if rt.cfg.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required to run the reminder worker")
	}

	pool, err := rt.connect(ctx, false)
	if err != nil {
		return err
	}
	defer pool.Close()

	container, err := app.NewContainer(ctx, app.Config{Settings: rt.cfg, DBPool: pool, Log: log})
	if err != nil {
		return err
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Warn("container close failed", zap.Error(err))
		}
	}()

	srv := notify.NewReminderServer(container.RedisOpt, log)
	if err := srv.Start(notify.NewReminderMux(container.BookingService, log)); err != nil {
		return err
	}
	log.Info("reminder worker started")

	<-ctx.Done()
	log.Info("shutdown signal received")
	srv.Shutdown()
	return nil
}
