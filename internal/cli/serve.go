package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/ilya24037/www.spa.com-sub004/internal/app"
	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/tracing"
)

func NewServeCommand() *cobra.Command {
	var (
		shutdownTimeout time.Duration
		migrate         bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server and the completion sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), shutdownTimeout, migrate)
		},
	}

	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "Maximum time to wait for graceful shutdown")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "Apply pending migrations before serving")

	return cmd
}

func runServe(parent context.Context, shutdownTimeout time.Duration, migrate bool) error {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	log := rt.log
	defer func() { _ = log.Sync() }()

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:      rt.cfg.OTELEnabled,
		ServiceName:  rt.cfg.OTELServiceName,
		OTLPEndpoint: rt.cfg.OTELEndpoint,
		SampleRatio:  rt.cfg.OTELSampleRatio,
	})
	if err != nil {
		return err
	}

	if rt.cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	pool, err := rt.connect(ctx, migrate)
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

	go container.Sweeper.Run(ctx)

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              rt.cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(container.Router, "scheduling"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Run server in separate goroutine
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", rt.cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serveErr:
		log.Error("server error", zap.Error(err))
		return err
	}

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("server forced to shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracer shutdown failed", zap.Error(err))
	}

	log.Info("server exited gracefully")
	return nil
}
