package cmd

import (
	"context"
	"log"

	"menu-manager/core/config"
	"menu-manager/core/database"
	"menu-manager/core/logger"
	"menu-manager/feature/menu"
	"menu-manager/feature/menu/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncLoop bool

// syncCmd runs the reconciliation outside the server process, for manual
// imports and cron-style setups.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the database against the menu spreadsheet",
	Long: `Runs a reconciliation pass: parses the configured spreadsheet source and
creates, updates and deletes menus, submenus and dishes until the database
matches it. With --loop the pass repeats on the configured interval.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		ctx := context.Background()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := database.Migrate(db, &models.Menu{}, &models.Submenu{}, &models.Dish{}); err != nil {
			logg.Fatal("Failed to migrate database", zap.Error(err))
		}

		// Mutations must invalidate the same cache the server reads, so the
		// shared Redis store is used here too when it is reachable.
		store := newCacheStore(ctx, cfg.Cache, logg)
		service := menu.NewService(menu.NewRepository(db), store, logg)

		engine, err := newSyncEngine(cfg, service, logg)
		if err != nil {
			logg.Fatal("Failed to build sync engine", zap.Error(err))
		}

		if syncLoop {
			logg.Info("Starting menu reconciliation loop",
				zap.String("source", cfg.Sync.Source),
				zap.Duration("interval", cfg.Sync.Interval()),
			)
			engine.Run(ctx)
			return
		}

		stats, err := engine.RunOnce(ctx)
		if err != nil {
			logg.Fatal("Reconciliation failed", zap.Error(err))
		}
		logg.Info("Reconciliation finished",
			zap.Int("created", stats.Created),
			zap.Int("updated", stats.Updated),
			zap.Int("deleted", stats.Deleted),
		)
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncLoop, "loop", false, "keep reconciling on the configured interval")
	RootCmd.AddCommand(syncCmd)
}
