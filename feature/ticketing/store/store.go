package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	productionmodels "stagesync/feature/production/models"
	"stagesync/feature/ticketing/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store persists providers, links, and sync logs. Uniqueness of link keys is
// enforced by unique indexes, not just application logic, so concurrent or
// repeated reconciliation cannot create duplicates.
type Store struct {
	db *gorm.DB
}

// New creates a store on the given connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for feature wiring.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ---- Providers ----

// ListProviders returns all providers of one organization, newest first.
func (s *Store) ListProviders(ctx context.Context, organizationID uint) ([]models.Provider, error) {
	var providers []models.Provider
	err := s.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&providers).Error
	return providers, err
}

// GetProvider fetches one provider by id.
func (s *Store) GetProvider(ctx context.Context, id uint) (*models.Provider, error) {
	var p models.Provider
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &p, nil
}

// CreateProvider persists a new provider configuration.
func (s *Store) CreateProvider(ctx context.Context, p *models.Provider) error {
	return s.db.WithContext(ctx).Create(p).Error
}

// UpdateProvider saves changes to an existing provider.
func (s *Store) UpdateProvider(ctx context.Context, p *models.Provider) error {
	return s.db.WithContext(ctx).Save(p).Error
}

// UpdateProviderHealth writes only the sync-health columns the coordinator
// owns. Configuration fields edited through the API while a run is in flight
// are never touched.
func (s *Store) UpdateProviderHealth(ctx context.Context, p *models.Provider) error {
	return s.db.WithContext(ctx).
		Model(&models.Provider{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"last_synced_at":  p.LastSyncedAt,
			"last_sync_error": p.LastSyncError,
			"account_name":    p.AccountName,
		}).Error
}

// DeleteProvider removes a provider with its links and logs in one
// transaction. Links and logs have no meaning without their provider.
func (s *Store) DeleteProvider(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Provider
		if err := tx.First(&p, id).Error; err != nil {
			return wrapNotFound(err)
		}
		if err := tx.Where("production_link_id IN (?)",
			tx.Model(&models.ProductionLink{}).Select("id").Where("provider_id = ?", id),
		).Delete(&models.ShowLink{}).Error; err != nil {
			return err
		}
		if err := tx.Where("provider_id = ?", id).Delete(&models.ProductionLink{}).Error; err != nil {
			return err
		}
		if err := tx.Where("provider_id = ?", id).Delete(&models.SyncLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&p).Error
	})
}

// DueProviders returns enabled providers whose auto-sync interval has
// elapsed at the given time.
func (s *Store) DueProviders(ctx context.Context, now time.Time) ([]models.Provider, error) {
	var providers []models.Provider
	err := s.db.WithContext(ctx).
		Where("enabled = ? AND auto_sync_enabled = ?", true, true).
		Find(&providers).Error
	if err != nil {
		return nil, err
	}

	// Interval arithmetic stays in Go; it is per-row and not expressible
	// portably across MySQL and SQLite.
	due := providers[:0]
	for _, p := range providers {
		if p.SyncDue(now) {
			due = append(due, p)
		}
	}
	return due, nil
}

// ---- Production links ----

// FindOrCreateProductionLink resolves the link for (provider, external group
// id), creating an unmapped link when the group is seen for the first time.
// An existing link is reused regardless of which production it is mapped to.
func (s *Store) FindOrCreateProductionLink(ctx context.Context, providerID uint, groupID, groupName string) (*models.ProductionLink, error) {
	var link models.ProductionLink
	err := s.db.WithContext(ctx).
		Where(&models.ProductionLink{ProviderID: providerID, ExternalGroupID: groupID}).
		Attrs(&models.ProductionLink{ExternalGroupName: groupName}).
		FirstOrCreate(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// GetProductionLink fetches one link by id.
func (s *Store) GetProductionLink(ctx context.Context, id uint) (*models.ProductionLink, error) {
	var link models.ProductionLink
	if err := s.db.WithContext(ctx).First(&link, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &link, nil
}

// ListProductionLinks returns all links of one provider.
func (s *Store) ListProductionLinks(ctx context.Context, providerID uint) ([]models.ProductionLink, error) {
	var links []models.ProductionLink
	err := s.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at ASC").
		Find(&links).Error
	return links, err
}

// MapProductionLink attaches an external group to an internal production.
// The (provider, production) unique index rejects a second mapping of the
// same production under one provider.
func (s *Store) MapProductionLink(ctx context.Context, linkID, productionID uint) error {
	var production productionmodels.Production
	if err := s.db.WithContext(ctx).First(&production, productionID).Error; err != nil {
		return fmt.Errorf("production lookup: %w", wrapNotFound(err))
	}

	result := s.db.WithContext(ctx).
		Model(&models.ProductionLink{}).
		Where("id = ?", linkID).
		Update("production_id", productionID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- Show links ----

// showLinkOverwriteColumns are the fields replaced on every sync. The
// vendor's totals are authoritative; they are never accumulated.
var showLinkOverwriteColumns = []string{
	"external_event_name", "occurs_at",
	"tickets_sold", "gross_revenue_cents", "net_revenue_cents",
	"last_synced_at",
}

// UpsertShowLink inserts or overwrites the show link for
// (production link, external event id) as one independent transaction.
// When inserting, showID may attach an internal show immediately.
func (s *Store) UpsertShowLink(ctx context.Context, link *models.ShowLink) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "production_link_id"}, {Name: "external_event_id"}},
			DoUpdates: clause.AssignmentColumns(showLinkOverwriteColumns),
		}).
		Create(link).Error
}

// GetShowLink fetches one show link by id.
func (s *Store) GetShowLink(ctx context.Context, id uint) (*models.ShowLink, error) {
	var link models.ShowLink
	if err := s.db.WithContext(ctx).First(&link, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &link, nil
}

// ListShowLinks returns the show links under one production link.
func (s *Store) ListShowLinks(ctx context.Context, productionLinkID uint) ([]models.ShowLink, error) {
	var links []models.ShowLink
	err := s.db.WithContext(ctx).
		Where("production_link_id = ?", productionLinkID).
		Order("occurs_at ASC").
		Find(&links).Error
	return links, err
}

// AttachShow binds an internal show to an existing show link (manual link
// UI). The (production link, show) unique index rejects double-linking.
func (s *Store) AttachShow(ctx context.Context, showLinkID, showID uint) error {
	var show productionmodels.Show
	if err := s.db.WithContext(ctx).First(&show, showID).Error; err != nil {
		return fmt.Errorf("show lookup: %w", wrapNotFound(err))
	}

	result := s.db.WithContext(ctx).
		Model(&models.ShowLink{}).
		Where("id = ?", showLinkID).
		Update("show_id", showID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MatchShow finds an internal show of the production occurring on the same
// UTC calendar day as occursAt that is not yet linked under the given
// production link. It returns nil when no candidate exists; callers treat
// that as "attach later via the manual link UI".
func (s *Store) MatchShow(ctx context.Context, productionLinkID, productionID uint, occursAt time.Time) (*uint, error) {
	dayStart := time.Date(occursAt.UTC().Year(), occursAt.UTC().Month(), occursAt.UTC().Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var show productionmodels.Show
	err := s.db.WithContext(ctx).
		Where("production_id = ? AND occurs_at >= ? AND occurs_at < ?", productionID, dayStart, dayEnd).
		Where("id NOT IN (?)",
			s.db.Model(&models.ShowLink{}).Select("show_id").
				Where("production_link_id = ? AND show_id IS NOT NULL", productionLinkID),
		).
		Order("occurs_at ASC").
		First(&show).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &show.ID, nil
}

// UnlinkedShows returns the production's shows within the window that have
// no show link, for the manual-link UI.
func (s *Store) UnlinkedShows(ctx context.Context, productionID uint, from, to time.Time) ([]productionmodels.Show, error) {
	var shows []productionmodels.Show
	err := s.db.WithContext(ctx).
		Where("production_id = ? AND occurs_at >= ? AND occurs_at <= ?", productionID, from, to).
		Where("id NOT IN (?)",
			s.db.Model(&models.ShowLink{}).Select("show_id").
				Where("show_id IS NOT NULL AND production_link_id IN (?)",
					s.db.Model(&models.ProductionLink{}).Select("id").Where("production_id = ?", productionID),
				),
		).
		Order("occurs_at ASC").
		Find(&shows).Error
	return shows, err
}

// ---- Stats ----

// ProductionSummary aggregates cached sales metrics for one production from
// the link store only. A production with no links yields zero sums and a nil
// LastSync; that is not an error.
func (s *Store) ProductionSummary(ctx context.Context, productionID uint) (*models.ProductionSummary, error) {
	summary := &models.ProductionSummary{ProductionID: productionID}

	var row struct {
		TotalLinks        int
		LinkedShows       int
		TicketsSold       int
		GrossRevenueCents int64
		NetRevenueCents   int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.ShowLink{}).
		Select(
			"COUNT(*) AS total_links",
			"COUNT(ticketing_show_links.show_id) AS linked_shows",
			"COALESCE(SUM(tickets_sold), 0) AS tickets_sold",
			"COALESCE(SUM(gross_revenue_cents), 0) AS gross_revenue_cents",
			"COALESCE(SUM(net_revenue_cents), 0) AS net_revenue_cents",
		).
		Joins("JOIN ticketing_production_links ON ticketing_production_links.id = ticketing_show_links.production_link_id").
		Where("ticketing_production_links.production_id = ?", productionID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	summary.TotalLinks = row.TotalLinks
	summary.LinkedShows = row.LinkedShows
	summary.TicketsSold = row.TicketsSold
	summary.GrossRevenueCents = row.GrossRevenueCents
	summary.NetRevenueCents = row.NetRevenueCents

	// Latest non-null sync timestamp. Selected as a real column rather than
	// MAX() so both drivers hand back a typed time value.
	var latest []models.ShowLink
	err = s.db.WithContext(ctx).
		Model(&models.ShowLink{}).
		Joins("JOIN ticketing_production_links ON ticketing_production_links.id = ticketing_show_links.production_link_id").
		Where("ticketing_production_links.production_id = ?", productionID).
		Where("ticketing_show_links.last_synced_at IS NOT NULL").
		Order("ticketing_show_links.last_synced_at DESC").
		Limit(1).
		Find(&latest).Error
	if err != nil {
		return nil, err
	}
	if len(latest) == 1 {
		summary.LastSync = latest[0].LastSyncedAt
	}

	return summary, nil
}

// ---- Sync logs ----

// CreateSyncLog opens a running log entry for a new coordinator run.
func (s *Store) CreateSyncLog(ctx context.Context, log *models.SyncLog) error {
	return s.db.WithContext(ctx).Create(log).Error
}

// FinalizeSyncLog writes the run outcome. The log is immutable afterwards.
func (s *Store) FinalizeSyncLog(ctx context.Context, log *models.SyncLog) error {
	return s.db.WithContext(ctx).
		Model(&models.SyncLog{}).
		Where("id = ?", log.ID).
		Updates(map[string]any{
			"finished_at":      log.FinishedAt,
			"status":           log.Status,
			"events_processed": log.EventsProcessed,
			"events_failed":    log.EventsFailed,
			"events_skipped":   log.EventsSkipped,
			"error_detail":     log.ErrorDetail,
		}).Error
}

// ListSyncLogs returns the most recent logs for a provider, newest first.
func (s *Store) ListSyncLogs(ctx context.Context, providerID uint, limit int) ([]models.SyncLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var logs []models.SyncLog
	err := s.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("started_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
