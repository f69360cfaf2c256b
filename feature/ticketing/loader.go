package ticketing

import (
	"stagesync/core/storage"
	"stagesync/feature/ticketing/client"
	"stagesync/feature/ticketing/scheduler"
	syncengine "stagesync/feature/ticketing/sync"
	"stagesync/feature/ticketing/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service   *Service
	handler   *Handler
	scheduler *scheduler.Scheduler
}

// NewFeature wires the ticketing feature: store, client factory,
// coordinator, scheduler, service, and handler. storageClient may be nil
// when the sync report archive is disabled.
func NewFeature(db *gorm.DB, storageClient storage.Client, bucket string, logger *zap.Logger, cfg syncengine.Config) *Feature {
	st := store.New(db)
	factory := client.NewFactory(cfg.FetchTimeout())

	var archive *syncengine.Archive
	if storageClient != nil {
		archive = syncengine.NewArchive(storageClient, bucket, logger)
	}

	coordinator := syncengine.NewCoordinator(st, factory, archive, logger, cfg)
	sched := scheduler.New(st, coordinator, logger, cfg)
	svc := NewService(st, factory, coordinator, sched, logger, cfg)
	h := NewHandler(svc)

	return &Feature{service: svc, handler: h, scheduler: sched}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "ticketing"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Scheduler exposes the job runner so the server can start and stop it with
// the application lifecycle.
func (f *Feature) Scheduler() *scheduler.Scheduler {
	return f.scheduler
}

// Service exposes the boundary surface for CLI commands.
func (f *Feature) Service() *Service {
	return f.service
}
