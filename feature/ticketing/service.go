package ticketing

import (
	"context"
	"fmt"
	"time"

	productionmodels "stagesync/feature/production/models"
	"stagesync/feature/ticketing/client"
	"stagesync/feature/ticketing/models"
	"stagesync/feature/ticketing/reconcile"
	"stagesync/feature/ticketing/scheduler"
	syncengine "stagesync/feature/ticketing/sync"
	"stagesync/feature/ticketing/store"

	"go.uber.org/zap"
)

// Service is the boundary surface the admin layer consumes. It wires the
// store, coordinator, scheduler, and client factory together.
type Service struct {
	store       *store.Store
	factory     *client.Factory
	coordinator *syncengine.Coordinator
	scheduler   *scheduler.Scheduler
	logger      *zap.Logger
	timeout     time.Duration
}

// NewService creates the ticketing service.
func NewService(st *store.Store, factory *client.Factory, coordinator *syncengine.Coordinator, sched *scheduler.Scheduler, logger *zap.Logger, cfg syncengine.Config) *Service {
	return &Service{
		store:       st,
		factory:     factory,
		coordinator: coordinator,
		scheduler:   sched,
		logger:      logger,
		timeout:     cfg.FetchTimeout(),
	}
}

// AvailableProviders enumerates the supported vendor types for config UIs.
func (s *Service) AvailableProviders() []client.ProviderType {
	return s.factory.AvailableProviders()
}

// ListProviders returns the providers of one organization.
func (s *Service) ListProviders(ctx context.Context, organizationID uint) ([]models.Provider, error) {
	return s.store.ListProviders(ctx, organizationID)
}

// GetProvider fetches one provider.
func (s *Service) GetProvider(ctx context.Context, id uint) (*models.Provider, error) {
	return s.store.GetProvider(ctx, id)
}

// CreateProvider validates the type tag and persists the configuration.
func (s *Service) CreateProvider(ctx context.Context, p *models.Provider) error {
	if _, err := s.factory.Build(p); err != nil {
		return err
	}
	return s.store.CreateProvider(ctx, p)
}

// UpdateProvider validates the type tag and saves the configuration.
func (s *Service) UpdateProvider(ctx context.Context, p *models.Provider) error {
	if _, err := s.factory.Build(p); err != nil {
		return err
	}
	return s.store.UpdateProvider(ctx, p)
}

// DeleteProvider removes the provider with its links and logs.
func (s *Service) DeleteProvider(ctx context.Context, id uint) error {
	return s.store.DeleteProvider(ctx, id)
}

// TestProvider probes the vendor account. The result always carries a
// human-readable reason on failure; link data is never touched.
func (s *Service) TestProvider(ctx context.Context, id uint) (client.TestResult, error) {
	provider, err := s.store.GetProvider(ctx, id)
	if err != nil {
		return client.TestResult{}, err
	}
	return s.coordinator.TestConnection(ctx, provider), nil
}

// TriggerSync enqueues an asynchronous sync and acknowledges immediately.
// started is false when a run for the provider is already in flight.
func (s *Service) TriggerSync(ctx context.Context, id uint) (started bool, err error) {
	if _, err := s.store.GetProvider(ctx, id); err != nil {
		return false, err
	}
	return s.scheduler.Enqueue(id), nil
}

// ListSyncLogs returns the most recent sync logs, newest first.
func (s *Service) ListSyncLogs(ctx context.Context, providerID uint, limit int) ([]models.SyncLog, error) {
	if _, err := s.store.GetProvider(ctx, providerID); err != nil {
		return nil, err
	}
	return s.store.ListSyncLogs(ctx, providerID, limit)
}

// ProductionSummary aggregates cached sales metrics for one production.
func (s *Service) ProductionSummary(ctx context.Context, productionID uint) (*models.ProductionSummary, error) {
	return s.store.ProductionSummary(ctx, productionID)
}

// UnlinkedShows lists shows in the window lacking a show link.
func (s *Service) UnlinkedShows(ctx context.Context, productionID uint, from, to time.Time) ([]productionmodels.Show, error) {
	return s.store.UnlinkedShows(ctx, productionID, from, to)
}

// MapLink attaches an external event group to an internal production.
func (s *Service) MapLink(ctx context.Context, linkID, productionID uint) error {
	return s.store.MapProductionLink(ctx, linkID, productionID)
}

// ListLinks returns the production links of one provider.
func (s *Service) ListLinks(ctx context.Context, providerID uint) ([]models.ProductionLink, error) {
	if _, err := s.store.GetProvider(ctx, providerID); err != nil {
		return nil, err
	}
	return s.store.ListProductionLinks(ctx, providerID)
}

// AttachShow binds an internal show to a show link.
func (s *Service) AttachShow(ctx context.Context, showLinkID, showID uint) error {
	return s.store.AttachShow(ctx, showLinkID, showID)
}

// DriftReport fetches the provider's current vendor events and compares them
// against the stored links without writing anything.
func (s *Service) DriftReport(ctx context.Context, providerID uint) (*reconcile.Plan, error) {
	provider, err := s.store.GetProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	cl, err := s.factory.Build(provider)
	if err != nil {
		return nil, err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	events, err := cl.FetchEvents(fetchCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("vendor fetch failed: %w", err)
	}

	return reconcile.BuildPlan(ctx, s.store, providerID, events)
}
