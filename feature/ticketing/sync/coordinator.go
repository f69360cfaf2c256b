package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stagesync/feature/ticketing/client"
	"stagesync/feature/ticketing/models"
	"stagesync/feature/ticketing/store"

	"go.uber.org/zap"
)

// Coordinator orchestrates one synchronization run per invocation: client
// resolution, event discovery, link reconciliation, metric refresh, log
// emission, and provider health update. It performs no internal retries;
// the next scheduled or manual trigger is the retry.
type Coordinator struct {
	store   *store.Store
	factory *client.Factory
	archive *Archive
	logger  *zap.Logger
	timeout time.Duration
}

// NewCoordinator creates a coordinator. archive may be nil when the report
// archive is disabled.
func NewCoordinator(st *store.Store, factory *client.Factory, archive *Archive, logger *zap.Logger, cfg Config) *Coordinator {
	return &Coordinator{
		store:   st,
		factory: factory,
		archive: archive,
		logger:  logger,
		timeout: cfg.FetchTimeout(),
	}
}

// TestConnection probes the provider's vendor account without touching any
// link data and without writing a sync log. It updates the provider's
// account name on success and last sync error on failure; both are advisory
// and overwritten by the next real sync.
func (c *Coordinator) TestConnection(ctx context.Context, provider *models.Provider) client.TestResult {
	cl, err := c.factory.Build(provider)
	if err != nil {
		result := client.TestResult{Success: false, Error: err.Error()}
		c.recordTestOutcome(ctx, provider, result)
		return result
	}

	probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := cl.TestConnection(probeCtx)
	c.recordTestOutcome(ctx, provider, result)
	return result
}

func (c *Coordinator) recordTestOutcome(ctx context.Context, provider *models.Provider, result client.TestResult) {
	if result.Success {
		provider.AccountName = result.AccountName
		provider.LastSyncError = nil
	} else {
		detail := result.Error
		provider.LastSyncError = &detail
	}
	if err := c.store.UpdateProviderHealth(ctx, provider); err != nil {
		c.logger.Error("Failed to record connection test outcome",
			zap.Uint("provider_id", provider.ID), zap.Error(err))
	}
}

// RunSync executes one full synchronization for the provider and returns the
// finalized sync log. Fetch-level failures finalize the log without touching
// link data; per-event failures are counted and never abort the remaining
// events.
func (c *Coordinator) RunSync(ctx context.Context, provider *models.Provider) (*models.SyncLog, error) {
	log := &models.SyncLog{
		ProviderID: provider.ID,
		StartedAt:  time.Now().UTC(),
		Status:     models.SyncStatusRunning,
	}
	if err := c.store.CreateSyncLog(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to open sync log: %w", err)
	}

	l := c.logger.With(zap.Uint("provider_id", provider.ID), zap.Uint("sync_log_id", log.ID))
	l.Info("Sync run started", zap.String("provider_type", provider.ProviderType))

	cl, err := c.factory.Build(provider)
	if err != nil {
		return c.finalizeFailure(ctx, provider, log, err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// The incremental cursor is captured before the fetch. Sales landing at
	// the vendor while this run is processing fall after it and are picked
	// up by the next fetch.
	fetchedAt := time.Now().UTC()
	events, err := cl.FetchEvents(fetchCtx, provider.LastSyncedAt)
	if err != nil {
		return c.finalizeFailure(ctx, provider, log, err)
	}

	for _, event := range events {
		outcome := c.reconcileEvent(ctx, provider, event)
		switch outcome.state {
		case eventProcessed:
			log.EventsProcessed++
		case eventSkipped:
			log.EventsSkipped++
		case eventFailed:
			log.EventsFailed++
			l.Warn("Event reconciliation failed",
				zap.String("event_id", event.EventID), zap.Error(outcome.err))
		}
	}

	c.finalize(ctx, provider, log, events, fetchedAt)
	l.Info("Sync run finished",
		zap.String("status", log.Status),
		zap.Int("processed", log.EventsProcessed),
		zap.Int("failed", log.EventsFailed),
		zap.Int("skipped", log.EventsSkipped))
	return log, nil
}

type eventState int

const (
	eventProcessed eventState = iota
	eventSkipped
	eventFailed
)

type eventOutcome struct {
	state eventState
	err   error
}

// reconcileEvent applies one external event to the link store. Each write is
// its own transaction, so earlier events in the run stay committed when a
// later one fails.
func (c *Coordinator) reconcileEvent(ctx context.Context, provider *models.Provider, event client.ExternalEvent) eventOutcome {
	if event.GroupID == "" || event.EventID == "" {
		return eventOutcome{state: eventFailed, err: errors.New("event is missing group or event identifier")}
	}

	link, err := c.store.FindOrCreateProductionLink(ctx, provider.ID, event.GroupID, event.GroupName)
	if err != nil {
		return eventOutcome{state: eventFailed, err: err}
	}

	// Unmapped groups are inert until an operator maps them; the event is
	// tracked separately and counts toward neither processed nor failed.
	if !link.Mapped() {
		return eventOutcome{state: eventSkipped}
	}

	now := time.Now().UTC()
	showLink := &models.ShowLink{
		ProductionLinkID:  link.ID,
		ExternalEventID:   event.EventID,
		ExternalEventName: event.EventName,
		OccursAt:          event.OccursAt,
		TicketsSold:       event.TicketsSold,
		GrossRevenueCents: event.GrossRevenueCents,
		NetRevenueCents:   event.NetRevenueCents,
		LastSyncedAt:      &now,
	}

	// Attach an internal show on first sight when one occurs the same day.
	// No fuzzy matching; the manual link UI covers the rest.
	showID, err := c.store.MatchShow(ctx, link.ID, *link.ProductionID, event.OccursAt)
	if err != nil {
		return eventOutcome{state: eventFailed, err: err}
	}
	showLink.ShowID = showID

	if err := c.store.UpsertShowLink(ctx, showLink); err != nil {
		return eventOutcome{state: eventFailed, err: err}
	}
	return eventOutcome{state: eventProcessed}
}

// finalize writes the run outcome and updates provider health.
func (c *Coordinator) finalize(ctx context.Context, provider *models.Provider, log *models.SyncLog, events []client.ExternalEvent, fetchedAt time.Time) {
	now := time.Now().UTC()
	log.FinishedAt = &now

	switch {
	case log.EventsFailed == 0:
		log.Status = models.SyncStatusSuccess
	case log.EventsProcessed > 0:
		log.Status = models.SyncStatusPartialFailure
	default:
		// Events were expected but none could be processed.
		log.Status = models.SyncStatusFailure
		detail := fmt.Sprintf("all %d events failed", log.EventsFailed)
		log.ErrorDetail = &detail
	}

	if log.Status == models.SyncStatusSuccess {
		provider.LastSyncedAt = &fetchedAt
		provider.LastSyncError = nil
	} else if log.ErrorDetail != nil {
		provider.LastSyncError = log.ErrorDetail
	}

	if err := c.store.FinalizeSyncLog(ctx, log); err != nil {
		c.logger.Error("Failed to finalize sync log", zap.Uint("sync_log_id", log.ID), zap.Error(err))
	}
	if err := c.store.UpdateProviderHealth(ctx, provider); err != nil {
		c.logger.Error("Failed to update provider after sync", zap.Uint("provider_id", provider.ID), zap.Error(err))
	}

	if c.archive != nil {
		c.archive.Save(ctx, provider, log, events)
	}
}

// finalizeFailure closes the log for a run that failed before any link data
// was touched (unknown type, auth, rate limit, network, protocol).
func (c *Coordinator) finalizeFailure(ctx context.Context, provider *models.Provider, log *models.SyncLog, cause error) (*models.SyncLog, error) {
	now := time.Now().UTC()
	detail := cause.Error()

	log.FinishedAt = &now
	log.Status = models.SyncStatusFailure
	log.ErrorDetail = &detail
	provider.LastSyncError = &detail

	if err := c.store.FinalizeSyncLog(ctx, log); err != nil {
		c.logger.Error("Failed to finalize sync log", zap.Uint("sync_log_id", log.ID), zap.Error(err))
	}
	if err := c.store.UpdateProviderHealth(ctx, provider); err != nil {
		c.logger.Error("Failed to update provider after sync", zap.Uint("provider_id", provider.ID), zap.Error(err))
	}

	c.logger.Warn("Sync run failed",
		zap.Uint("provider_id", provider.ID),
		zap.Bool("retryable", client.IsRetryable(cause)),
		zap.Error(cause))
	return log, nil
}
