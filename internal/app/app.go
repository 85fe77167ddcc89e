package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/abundance/internal/config"
	"github.com/utafrali/abundance/internal/event"
	handler "github.com/utafrali/abundance/internal/handler/http"
	"github.com/utafrali/abundance/internal/notify"
	"github.com/utafrali/abundance/internal/repository"
	"github.com/utafrali/abundance/internal/repository/memory"
	redisrepo "github.com/utafrali/abundance/internal/repository/redis"
	"github.com/utafrali/abundance/internal/service"
	"github.com/utafrali/abundance/internal/sink"
	"github.com/utafrali/abundance/internal/view"
	"github.com/utafrali/abundance/pkg/database"
	"github.com/utafrali/abundance/pkg/health"
	"github.com/utafrali/abundance/pkg/httpclient"
	pkgkafka "github.com/utafrali/abundance/pkg/kafka"
	"github.com/utafrali/abundance/pkg/tracing"
)

const serviceName = "basket-service"

// App wires together all dependencies and runs the basket service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	board          *notify.Board
	tracerShutdown func(context.Context) error
	httpServer     *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}
	if err := a.init(ctx); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	// Initialize tracing.
	tcfg := tracing.DefaultConfig(serviceName)
	tcfg.Environment = cfg.Environment
	tcfg.OTLPEndpoint = cfg.OTELEndpoint
	tcfg.SampleRate = cfg.OTELSampleRate
	tcfg.Enabled = cfg.OTELEnabled
	shutdown, err := tracing.InitTracer(ctx, tcfg)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	a.tracerShutdown = shutdown

	healthHandler := health.NewHandler()

	// Basket storage.
	var repo repository.BasketRepository
	switch cfg.Store {
	case config.StoreRedis:
		rcfg := database.DefaultRedisConfig()
		rcfg.Addr = cfg.RedisAddr
		rcfg.Password = cfg.RedisPass
		rcfg.DB = cfg.RedisDB
		rdb, err := database.NewRedisClient(ctx, rcfg)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		a.rdb = rdb
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)

		redisRepo := redisrepo.NewBasketRepository(rdb, cfg.BasketTTL())
		healthHandler.Register("redis", redisRepo.Ping)
		repo = redisRepo
	default:
		logger.Warn("baskets are kept in process memory and are lost on restart")
		repo = memory.NewBasketRepository()
	}

	// Kafka producer, shared by basket events and the kafka order sink.
	var events *event.Producer
	if cfg.UsesKafka() {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		events = event.NewProducer(a.producer, logger, cfg.Currency)
		healthHandler.Register("kafka", a.producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	orders := newOrderSink(cfg, events, logger)
	logger.Info("order sink selected", slog.String("sink", orders.Name()))

	// Build the dependency graph.
	a.board = notify.NewBoard(cfg.NotificationDisplay(), cfg.NotificationFade())

	var basketEvents service.BasketEvents
	if cfg.EventsEnabled {
		basketEvents = events
	}
	baskets := service.NewBaskets(repo, orders, a.board, basketEvents, logger, service.Options{
		StrictLoad: cfg.StrictLoad,
		Currency:   cfg.Currency,
	})

	renderer, err := view.NewRenderer(cfg.StoreURL)
	if err != nil {
		return err
	}

	// HTTP router.
	router := handler.NewRouter(handler.RouterConfig{
		Baskets:      baskets,
		Banners:      a.board,
		Renderer:     renderer,
		Health:       healthHandler,
		Logger:       logger,
		PprofCIDRs:   cfg.PprofAllowedCIDRs,
		SecureCookie: cfg.Environment == "production",
	})

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return nil
}

func newOrderSink(cfg *config.Config, events *event.Producer, logger *slog.Logger) sink.OrderSink {
	switch cfg.OrderSink {
	case config.SinkKafka:
		return sink.NewKafkaSink(events)
	case config.SinkHTTP:
		client := httpclient.NewCircuitBreakerClient(
			httpclient.New(httpclient.DefaultConfig()),
			httpclient.DefaultCircuitBreakerConfig("order-intake"),
			logger,
		)
		return sink.NewHTTPSink(client, cfg.OrderIntakeURL, logger)
	default:
		return sink.NewLogSink(logger)
	}
}

// Handler returns the HTTP handler serving every route.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.close()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.close()

	a.logger.Info("application shutdown complete")
	return nil
}

// close releases everything except the HTTP server. It is safe on a
// partially initialized App.
func (a *App) close() {
	if a.board != nil {
		a.board.Close()
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if a.tracerShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracerShutdown(ctx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}
}
