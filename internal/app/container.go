package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ilya24037/www.spa.com-sub004/internal/api"
	"github.com/ilya24037/www.spa.com-sub004/internal/auth"
	"github.com/ilya24037/www.spa.com-sub004/internal/availability"
	"github.com/ilya24037/www.spa.com-sub004/internal/booking"
	"github.com/ilya24037/www.spa.com-sub004/internal/catalog"
	"github.com/ilya24037/www.spa.com-sub004/internal/config"
	"github.com/ilya24037/www.spa.com-sub004/internal/notify"
	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/ratelimit"
	"github.com/ilya24037/www.spa.com-sub004/internal/schedule"
	"github.com/ilya24037/www.spa.com-sub004/internal/timeblock"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	Settings *config.Config
	DBPool   *pgxpool.Pool
	Log      *zap.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router         *gin.Engine
	JWTManager     *auth.JWTManager
	BookingService booking.Service
	Sweeper        *booking.Sweeper
	// RedisOpt is nil when Redis is not configured; reminders are disabled then.
	RedisOpt asynq.RedisConnOpt

	redis      *redis.Client
	reminders  notify.ReminderScheduler
	dispatcher notify.Dispatcher
}

// NewContainer initializes all modules and returns the container.
// Redis and Kafka are optional; without them the availability cache,
// reminders and event publishing fall back to no-ops.
func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	s := cfg.Settings
	log := cfg.Log
	c := &Container{}

	// Init Components
	c.JWTManager = auth.NewJWTManager(s.JWTSecret, s.JWTAccessTokenTTL)

	cache := availability.NewNopCache()
	c.reminders = notify.NewNopScheduler()
	if s.RedisAddr != "" {
		rdb, err := availability.NewRedisClient(ctx, s.RedisAddr, s.RedisPassword, s.RedisDB)
		if err != nil {
			return nil, err
		}
		c.redis = rdb
		cache = availability.NewRedisCache(rdb, s.AvailabilityCacheTTL, log)

		c.RedisOpt = asynq.RedisClientOpt{Addr: s.RedisAddr, Password: s.RedisPassword, DB: s.RedisDB}
		c.reminders = notify.NewAsynqScheduler(c.RedisOpt, log)
	} else {
		log.Warn("REDIS_ADDR not set, availability cache and reminders are disabled")
	}

	c.dispatcher = notify.NewNopDispatcher()
	if brokers := s.Brokers(); len(brokers) > 0 {
		c.dispatcher = notify.NewKafkaDispatcher(brokers, s.KafkaTopic, log)
	} else {
		log.Warn("KAFKA_BROKERS not set, booking events are not published")
	}

	// Catalog Module
	cat := catalog.NewPgxRepository(cfg.DBPool)

	// Schedule Module
	scheduleRepo := schedule.NewPgxRepository(cfg.DBPool)
	scheduleService := schedule.NewService(scheduleRepo, cache, log)

	// TimeBlock Module
	blockRepo := timeblock.NewPgxRepository(cfg.DBPool)
	blockService := timeblock.NewService(blockRepo, cache, s.Location, log)

	// Availability Module
	availabilityService := availability.NewService(scheduleService, cat, blockRepo, cache, availability.Options{
		Location: s.Location,
		LeadTime: s.BookingLeadTime,
	}, log)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	c.BookingService = booking.NewService(bookingRepo, cat, availabilityService, cache, c.dispatcher, c.reminders, booking.Options{
		Location: s.Location,
		Policy: booking.CancellationPolicy{
			ClientCutoff:   s.ClientCancelCutoff,
			ProviderCutoff: s.ProviderCancelCutoff,
		},
		ReminderOffset: s.ReminderOffset,
		PhoneRegion:    s.PhoneRegion,
	}, log)
	c.Sweeper = booking.NewSweeper(c.BookingService, s.CompletionSweepInterval, log)

	// Router
	c.Router = api.NewRouter(api.Config{
		IsProduction:        s.IsProduction,
		ProdOrigins:         s.ProdOrigins,
		Location:            s.Location,
		Log:                 log,
		JWTManager:          c.JWTManager,
		ScheduleService:     scheduleService,
		TimeBlockService:    blockService,
		AvailabilityService: availabilityService,
		BookingService:      c.BookingService,
		BookingLimiter:      ratelimit.NewStore(s.BookingRatePerMinute, s.BookingRateBurst),
		Ready:               c.ready(cfg.DBPool),
	})

	return c, nil
}

func (c *Container) ready(pool *pgxpool.Pool) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
		if c.redis != nil {
			if err := c.redis.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
		}
		return nil
	}
}

// Close flushes pending events and releases the Redis connections.
func (c *Container) Close() error {
	var firstErr error
	if err := c.dispatcher.Close(); err != nil {
		firstErr = err
	}
	if err := c.reminders.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
