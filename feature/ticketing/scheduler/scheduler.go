package scheduler

import (
	"context"
	"sync"
	"time"

	syncengine "stagesync/feature/ticketing/sync"
	"stagesync/feature/ticketing/store"

	"go.uber.org/zap"
)

// Scheduler triggers coordinator runs asynchronously. Work is executed by a
// worker pool; a per-provider in-flight marker enforces single-flight so two
// runs for the same provider can never race on the same link keys.
type Scheduler struct {
	store       *store.Store
	coordinator *syncengine.Coordinator
	logger      *zap.Logger

	workers  int
	interval time.Duration
	jobs     chan uint

	mu       sync.Mutex
	inflight map[uint]struct{}

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a scheduler. It does nothing until Start is called.
func New(st *store.Store, coordinator *syncengine.Coordinator, logger *zap.Logger, cfg syncengine.Config) *Scheduler {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 2
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Scheduler{
		store:       st,
		coordinator: coordinator,
		logger:      logger,
		workers:     workers,
		interval:    cfg.Interval(),
		jobs:        make(chan uint, queueSize),
		inflight:    make(map[uint]struct{}),
	}
}

// Enqueue requests an asynchronous sync for the provider and returns
// immediately. It reports false when a run for the provider is already in
// flight or queued; the duplicate trigger is a no-op, not an error.
func (s *Scheduler) Enqueue(providerID uint) bool {
	// Check-and-set under the lock; the lock is never held across the run.
	s.mu.Lock()
	if _, exists := s.inflight[providerID]; exists {
		s.mu.Unlock()
		return false
	}
	s.inflight[providerID] = struct{}{}
	s.mu.Unlock()

	select {
	case s.jobs <- providerID:
		return true
	default:
		// Queue full: release the marker so a later trigger can retry.
		s.release(providerID)
		s.logger.Warn("Sync queue full, dropping trigger", zap.Uint("provider_id", providerID))
		return false
	}
}

func (s *Scheduler) release(providerID uint) {
	s.mu.Lock()
	delete(s.inflight, providerID)
	s.mu.Unlock()
}

// InFlight reports whether a run for the provider is active or queued.
func (s *Scheduler) InFlight(providerID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.inflight[providerID]
	return exists
}

// Start launches the worker pool and the auto-sync ticker. It returns
// immediately; Stop waits for in-flight runs to finish.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}

	s.wg.Add(1)
	go s.tick(ctx)

	s.logger.Info("Sync scheduler started",
		zap.Int("workers", s.workers),
		zap.Duration("interval", s.interval))
}

// Stop shuts the scheduler down and waits for running syncs to complete.
// A run in flight finishes and finalizes its log; the fetch timeout bounds
// how long the wait can take.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case providerID := <-s.jobs:
			// The shutdown cancel only stops queue draining. A run that has
			// started runs against its own context so the log is always
			// finalized; only the vendor fetch timeout can cut it short.
			s.run(context.Background(), providerID)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, providerID uint) {
	defer s.release(providerID)

	provider, err := s.store.GetProvider(ctx, providerID)
	if err != nil {
		s.logger.Warn("Skipping sync for missing provider",
			zap.Uint("provider_id", providerID), zap.Error(err))
		return
	}
	if !provider.Enabled {
		return
	}

	if _, err := s.coordinator.RunSync(ctx, provider); err != nil {
		s.logger.Error("Sync run aborted",
			zap.Uint("provider_id", providerID), zap.Error(err))
	}
}

// tick periodically enqueues every provider whose auto-sync interval has
// elapsed. Providers already in flight are skipped by Enqueue.
func (s *Scheduler) tick(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			due, err := s.store.DueProviders(ctx, now.UTC())
			if err != nil {
				s.logger.Error("Failed to query due providers", zap.Error(err))
				continue
			}
			for _, p := range due {
				s.Enqueue(p.ID)
			}
		}
	}
}
