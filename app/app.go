package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bazi-fengshui/advisor"
	"bazi-fengshui/api"
	"bazi-fengshui/bazi"
	"bazi-fengshui/cache"
	"bazi-fengshui/config"
	"bazi-fengshui/database"
	"bazi-fengshui/handlers"
	"bazi-fengshui/lunar"
	"bazi-fengshui/notifications"
	"bazi-fengshui/realtime"
	"bazi-fengshui/websocket"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// App represents the main application
type App struct {
	config         *config.Config
	logger         *zap.Logger
	engine         *bazi.Engine
	handlerManager *handlers.HandlerManager
	liveManager    *websocket.ConnectionManager
	db             *database.Database
	redis          *cache.RedisClient
	readings       *database.ReadingRepository
	webhookManager *notifications.WebhookManager
	advisor        *advisor.Advisor
	broker         *realtime.Broker
	server         *api.Server
}

// New creates a new application instance. Connections are opened in Run.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	model, err := bazi.ParseModel(cfg.AnalysisModel)
	if err != nil {
		return nil, err
	}

	return &App{
		config:         cfg,
		logger:         logger,
		engine:         bazi.NewEngine(lunar.New(), bazi.WithModel(model)),
		handlerManager: handlers.NewHandlerManager(logger),
	}, nil
}

// Start runs the application until SIGINT or SIGTERM
func (a *App) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Run(ctx)
}

// Run connects the optional backends, serves the API and blocks until ctx is
// cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// 1. Redis Connection
	a.logger.Info("Connecting to Redis", zap.String("host", a.config.RedisHost))
	a.redis = cache.NewRedisClient(a.config.RedisHost, a.config.RedisPort, a.config.RedisPassword, a.logger)
	if a.redis == nil {
		a.logger.Warn("Redis unavailable, caching and event relay disabled")
	}

	// 2. Database Connection (optional)
	if a.config.DatabaseEnabled {
		if err := a.connectDatabase(); err != nil {
			a.closeBackends()
			return err
		}
	}

	// Webhook notifications need stored readings
	if a.readings != nil && len(a.config.Webhook.URLs) > 0 {
		a.webhookManager = notifications.NewWebhookManager(webhooks(a.config.Webhook), a.redis, a.logger)
		a.logger.Info("Webhook notifications enabled", zap.Int("hooks", len(a.config.Webhook.URLs)))
	}

	// 3. AI provider
	if a.config.AI.Enabled {
		provider, err := buildProvider(runCtx, a.config.AI, a.logger)
		if err != nil {
			a.closeBackends()
			return fmt.Errorf("AI provider setup failed: %w", err)
		}
		a.advisor = newAdvisor(provider, a.redis, a.config.AI, a.logger)
		a.logger.Info("AI enrichment enabled", zap.String("provider", provider.Name()))
	}

	// 4. Realtime Broker
	var relay realtime.Relay
	if a.redis != nil {
		relay = a.redis
	}
	a.broker = realtime.NewBroker(relay, a.logger)
	brokerDone := make(chan struct{})
	go func() {
		defer close(brokerDone)
		a.broker.Run(runCtx)
	}()

	// 5. Live analysis over websocket
	if a.advisor != nil {
		a.setupHandlers()
		a.liveManager = websocket.NewConnectionManager(a.handlerManager, a.logger)
	}

	// 6. API Server
	a.server = a.buildServer()
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.server.Start(a.config.ServerPort)
	}()

	var runErr error
	select {
	case <-runCtx.Done():
		a.logger.Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("API server failed: %w", err)
		}
	}

	cancel()
	if err := a.gracefulShutdown(brokerDone); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (a *App) connectDatabase() error {
	a.logger.Info("Connecting to database", zap.String("host", a.config.DatabaseHost))
	db, err := database.Connect(a.config.DSN(), a.logger)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.db = db

	a.readings = database.NewReadingRepository(db)
	if err := a.readings.InitSchema(); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	return nil
}

// setupHandlers registers the live analysis message handlers
func (a *App) setupHandlers() {
	a.handlerManager.RegisterHandler(handlers.NewLiveFrameHandler(advisor.LiveOutfit, a.advisor, a.engine, a.logger))
	a.handlerManager.RegisterHandler(handlers.NewLiveFrameHandler(advisor.LiveWorkspace, a.advisor, a.engine, a.logger))
}

func (a *App) buildServer() *api.Server {
	server := api.NewServer(a.engine, a.logger)
	server.SetBroker(a.broker)
	if a.advisor != nil {
		server.SetAdvisor(a.advisor)
	}
	if a.readings != nil {
		server.SetReadingStore(a.readings)
	}
	if a.webhookManager != nil {
		server.SetNotifier(a.webhookManager)
	}
	if a.liveManager != nil {
		server.SetLiveHandler(a.liveManager)
	}
	return server
}

// gracefulShutdown stops the server and live sessions, waits for the broker
// and closes the backends, giving up after shutdownTimeout.
func (a *App) gracefulShutdown(brokerDone <-chan struct{}) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownComplete := make(chan struct{})
	go func() {
		defer close(shutdownComplete)

		if a.server != nil {
			if err := a.server.Shutdown(shutdownCtx); err != nil {
				a.logger.Warn("API server shutdown error", zap.Error(err))
			}
		}
		if a.liveManager != nil {
			if err := a.liveManager.Shutdown(shutdownCtx); err != nil {
				a.logger.Warn("Live session shutdown error", zap.Error(err))
			}
		}
		if a.webhookManager != nil {
			if err := a.webhookManager.Wait(shutdownCtx); err != nil {
				a.logger.Warn("Webhook deliveries still pending", zap.Error(err))
			}
		}
		select {
		case <-brokerDone:
		case <-shutdownCtx.Done():
		}
		a.closeBackends()
	}()

	select {
	case <-shutdownComplete:
		a.logger.Info("Graceful shutdown completed")
		return nil
	case <-shutdownCtx.Done():
		a.logger.Warn("Shutdown timeout exceeded, forcing exit")
		return fmt.Errorf("shutdown timeout")
	}
}

func (a *App) closeBackends() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("Error closing database", zap.Error(err))
		}
		a.db = nil
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("Error closing Redis", zap.Error(err))
		}
		a.redis = nil
	}
}
