package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"menu-manager/core/cache"
	"menu-manager/core/config"
	"menu-manager/core/database"
	"menu-manager/core/loader"
	"menu-manager/core/logger"
	"menu-manager/core/storage"
	"menu-manager/feature/menu"
	"menu-manager/feature/menu/models"
	"menu-manager/feature/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the menu manager server",
	Long:  `Starts the HTTP server and, when enabled, the background menu reconciliation loop.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// 3. Connect to Database and migrate the schema
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := database.Migrate(db, &models.Menu{}, &models.Submenu{}, &models.Dish{}); err != nil {
			logg.Fatal("Failed to migrate database", zap.Error(err))
		}

		// 4. Build the cache store and the menu service
		store := newCacheStore(ctx, cfg.Cache, logg)
		service := menu.NewService(menu.NewRepository(db), store, logg)

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// Middleware Registration
		// 1. Request ID (must be first to trace everything)
		app.Use(requestid.New())

		// 2. Logging Middleware (Custom to use Zap + request id)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRequestID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 6. Load Features
		mgr := loader.NewManager()
		mgr.Register(menu.NewFeature(service, logg))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Background reconciliation
		if cfg.Sync.Enabled {
			engine, err := newSyncEngine(cfg, service, logg)
			if err != nil {
				logg.Fatal("Failed to build sync engine", zap.Error(err))
			}
			logg.Info("Starting menu reconciliation loop",
				zap.String("source", cfg.Sync.Source),
				zap.Duration("interval", cfg.Sync.Interval()),
			)
			go engine.Run(ctx)
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		cancel()
		_ = app.Shutdown()
	},
}

// newCacheStore connects to Redis, falling back to an in-process store so the
// service stays up (degraded) when Redis is unreachable at startup.
func newCacheStore(ctx context.Context, cfg cache.Config, logg *zap.Logger) cache.Store {
	store, err := cache.NewRedisStore(ctx, cfg)
	if err != nil {
		logg.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
		return cache.NewMemoryStore(cfg.TTL())
	}
	logg.Info("Connected to Redis cache", zap.String("addr", cfg.Addr))
	return store
}

// newSyncEngine builds the reconciliation engine with its configured source.
func newSyncEngine(cfg *config.Config, service *menu.Service, logg *zap.Logger) (*sync.Engine, error) {
	var client storage.Client
	if cfg.Sync.Source == sync.SourceStorage {
		c, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, err
		}
		client = c
	}

	source, err := sync.NewSource(cfg.Sync, client, cfg.Storage.Bucket)
	if err != nil {
		return nil, err
	}
	return sync.NewEngine(service, source, cfg.Sync, logg), nil
}

func init() {
	RootCmd.AddCommand(startCmd)
}
