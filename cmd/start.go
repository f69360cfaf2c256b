package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stagesync/core/config"
	"stagesync/core/database"
	"stagesync/core/loader"
	"stagesync/core/logger"
	"stagesync/core/middleware/auth"
	"stagesync/core/middleware/rayid"
	"stagesync/core/storage"

	"stagesync/feature/ticketing"
	ticketingmodels "stagesync/feature/ticketing/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "stagesync/docs/swagger"
)

// @title StageSync API
// @version 1.0
// @description API for synchronizing productions with external ticketing platforms.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the synchronization server",
	Long:  `Starts the HTTP server, the sync scheduler, and initializes all enabled features.`,
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

		// 3. Connect to Database (Required, the link store lives here)
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := ticketingmodels.Migrate(db); err != nil {
			logg.Fatal("Failed to migrate ticketing tables", zap.Error(err))
		}

		// 4. Initialize Storage (Optional, sync report archive)
		var store storage.Client
		if cfg.Storage.Enabled {
			store, err = storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			logg.Info("Sync report archive enabled", zap.String("bucket", cfg.Storage.Bucket))
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()

		// Register Features
		ticketingFeature := ticketing.NewFeature(db, store, cfg.Storage.Bucket, logg, cfg.Sync)
		mgr.Register(ticketingFeature)

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			// Log error if happened
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Scheduler
		ticketingFeature.Scheduler().Start(context.Background())

		// 9. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		// Stop the scheduler first so no new sync runs start while the HTTP
		// layer drains; Stop waits for in-flight runs to finish.
		ticketingFeature.Scheduler().Stop()
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
