package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ilya24037/www.spa.com-sub004/internal/config"
	"github.com/ilya24037/www.spa.com-sub004/internal/db"
	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/logger"
)

// NewRootCommand creates the root command of the scheduling service.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "spa-scheduling",
		Short:         "Provider schedules, availability and bookings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewWorkerCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewTokenCommand())

	return cmd
}

// runtime is what every command needs before doing its work.
type runtime struct {
	cfg *config.Config
	log *zap.Logger
}

func loadRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.Must(logger.Config{
		IsProduction: cfg.IsProduction,
		Level:        cfg.LogLevel,
		File:         cfg.LogFile,
	})
	zap.ReplaceGlobals(log)

	return &runtime{cfg: cfg, log: log}, nil
}

// connect opens the pool and, when migrate is set, applies pending migrations.
func (rt *runtime) connect(ctx context.Context, migrate bool) (*pgxpool.Pool, error) {
	pool, err := db.NewPool(ctx, rt.cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	if !migrate {
		return pool, nil
	}

	if _, err := db.Migrate(ctx, pool, rt.log); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
