package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ilya24037/www.spa.com-sub004/internal/auth"
	"github.com/ilya24037/www.spa.com-sub004/internal/availability"
	availabilityHttp "github.com/ilya24037/www.spa.com-sub004/internal/availability/http"
	"github.com/ilya24037/www.spa.com-sub004/internal/booking"
	bookingHttp "github.com/ilya24037/www.spa.com-sub004/internal/booking/http"
	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/metrics"
	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/ratelimit"
	"github.com/ilya24037/www.spa.com-sub004/internal/schedule"
	scheduleHttp "github.com/ilya24037/www.spa.com-sub004/internal/schedule/http"
	"github.com/ilya24037/www.spa.com-sub004/internal/timeblock"
	timeblockHttp "github.com/ilya24037/www.spa.com-sub004/internal/timeblock/http"
)

// Config holds the services and settings the router is assembled from.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Location     *time.Location
	// Now is the clock handed to handlers; defaults to time.Now.
	Now func() time.Time
	Log *zap.Logger

	JWTManager          *auth.JWTManager
	ScheduleService     schedule.Service
	TimeBlockService    timeblock.Service
	AvailabilityService availability.Service
	BookingService      booking.Service
	// BookingLimiter throttles booking creation per user.
	BookingLimiter *ratelimit.Store
	// Ready reports whether the backing stores are reachable.
	Ready func(ctx context.Context) error
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}

	r := gin.New()

	// Global Middleware:
	// - RequestLogger: request id, request scoped zap logger and access log.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(RequestLogger(cfg.Log), Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{
		"http://localhost:8081", // Swagger
		"http://localhost:3000",
	}
	if origins := splitOrigins(cfg.ProdOrigins); cfg.IsProduction && len(origins) > 0 {
		config.AllowOrigins = origins
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", RequestIDHeader}
	config.ExposeHeaders = []string{RequestIDHeader}
	r.Use(cors.New(config))

	r.GET("/healthz", func(c *gin.Context) {
		if cfg.Ready != nil {
			if err := cfg.Ready(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// createLimiter: Throttles booking creation per user.
	createLimiter := func(c *gin.Context) { c.Next() }
	if cfg.BookingLimiter != nil {
		createLimiter = ratelimit.PerUser(cfg.BookingLimiter)
	}

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	scheduleHandler := scheduleHttp.NewHandler(cfg.ScheduleService, cfg.Location)
	blockHandler := timeblockHttp.NewHandler(cfg.TimeBlockService, cfg.Location)
	availabilityHandler := availabilityHttp.NewHandler(cfg.AvailabilityService, cfg.Location, cfg.Now)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.Location, cfg.Now)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		scheduleHttp.RegisterRoutes(v1, scheduleHandler, authMiddleware)
		timeblockHttp.RegisterRoutes(v1, blockHandler, authMiddleware)
		availabilityHttp.RegisterRoutes(v1, availabilityHandler)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, createLimiter)
	}

	return r
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
