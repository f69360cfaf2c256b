package models

import (
	"time"

	"gorm.io/gorm"
)

// Provider is one external ticketing account configuration, owned by exactly
// one organization. It cascade-owns its production links and sync logs.
type Provider struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	OrganizationID uint   `gorm:"not null;index" json:"organization_id"`
	Name           string `gorm:"size:255;not null" json:"name"`
	// ProviderType selects the client implementation in the factory.
	ProviderType string `gorm:"size:50;not null" json:"provider_type"`
	// APIKey is the opaque vendor credential. Never returned over HTTP.
	APIKey string `gorm:"size:512;not null" json:"-"`
	// APIBaseURL is the vendor endpoint for REST-style vendors.
	APIBaseURL          string     `gorm:"size:512" json:"api_base_url"`
	AutoSyncEnabled     bool       `gorm:"not null;default:false" json:"auto_sync_enabled"`
	SyncIntervalMinutes int        `gorm:"not null;default:60" json:"sync_interval_minutes"`
	AccountName         string     `gorm:"size:255" json:"account_name"`
	LastSyncError       *string    `gorm:"size:1024" json:"last_sync_error"`
	LastSyncedAt        *time.Time `json:"last_synced_at"`
	Enabled             bool       `gorm:"not null;default:true" json:"enabled"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	ProductionLinks []ProductionLink `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE" json:"-"`
	SyncLogs        []SyncLog        `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM.
func (Provider) TableName() string {
	return "ticketing_providers"
}

// SyncInterval returns the configured auto-sync interval as a duration.
func (p *Provider) SyncInterval() time.Duration {
	return time.Duration(p.SyncIntervalMinutes) * time.Minute
}

// SyncDue reports whether an automatic sync is due at the given time.
func (p *Provider) SyncDue(now time.Time) bool {
	if !p.Enabled || !p.AutoSyncEnabled {
		return false
	}
	if p.LastSyncedAt == nil {
		return true
	}
	return now.Sub(*p.LastSyncedAt) >= p.SyncInterval()
}

// ProductionLink binds one internal production to one external event group.
// ProductionID is nil while the group is discovered but not yet mapped by an
// operator; such links are inert for metric purposes.
type ProductionLink struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ProviderID uint `gorm:"not null;uniqueIndex:idx_provider_group;uniqueIndex:idx_provider_production" json:"provider_id"`
	// ProductionID references the internal production, nil when unmapped.
	ProductionID      *uint     `gorm:"uniqueIndex:idx_provider_production" json:"production_id"`
	ExternalGroupID   string    `gorm:"size:255;not null;uniqueIndex:idx_provider_group" json:"external_group_id"`
	ExternalGroupName string    `gorm:"size:255" json:"external_group_name"`
	CreatedAt         time.Time `json:"created_at"`

	ShowLinks []ShowLink `gorm:"foreignKey:ProductionLinkID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM.
func (ProductionLink) TableName() string {
	return "ticketing_production_links"
}

// Mapped reports whether the link is attached to an internal production.
func (l *ProductionLink) Mapped() bool {
	return l.ProductionID != nil
}

// ShowLink binds one internal show to one external event instance and caches
// the vendor's current sales figures. Metric fields are replaced on every
// sync with the vendor's authoritative totals, which can decrease after
// refunds or cancellations.
type ShowLink struct {
	ID               uint `gorm:"primaryKey" json:"id"`
	ProductionLinkID uint `gorm:"not null;uniqueIndex:idx_link_event;uniqueIndex:idx_link_show" json:"production_link_id"`
	// ShowID references the internal show, nil until attached.
	ShowID            *uint      `gorm:"uniqueIndex:idx_link_show" json:"show_id"`
	ExternalEventID   string     `gorm:"size:255;not null;uniqueIndex:idx_link_event" json:"external_event_id"`
	ExternalEventName string     `gorm:"size:255" json:"external_event_name"`
	OccursAt          time.Time  `json:"occurs_at"`
	TicketsSold       int        `gorm:"not null;default:0" json:"tickets_sold"`
	GrossRevenueCents int64      `gorm:"not null;default:0" json:"gross_revenue_cents"`
	NetRevenueCents   int64      `gorm:"not null;default:0" json:"net_revenue_cents"`
	LastSyncedAt      *time.Time `json:"last_synced_at"`
	CreatedAt         time.Time  `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (ShowLink) TableName() string {
	return "ticketing_show_links"
}

// Sync outcome values for SyncLog.Status.
const (
	SyncStatusRunning        = "running"
	SyncStatusSuccess        = "success"
	SyncStatusPartialFailure = "partial_failure"
	SyncStatusFailure        = "failure"
)

// SyncLog is the immutable audit record of one synchronization run. It is
// created as running by the coordinator, finalized exactly once, and never
// touched again. Retention is an external concern.
type SyncLog struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	ProviderID      uint       `gorm:"not null;index" json:"provider_id"`
	StartedAt       time.Time  `gorm:"not null" json:"started_at"`
	FinishedAt      *time.Time `json:"finished_at"`
	Status          string     `gorm:"size:32;not null" json:"status"`
	EventsProcessed int        `gorm:"not null;default:0" json:"events_processed"`
	EventsFailed    int        `gorm:"not null;default:0" json:"events_failed"`
	// EventsSkipped counts events belonging to unmapped groups. They are
	// neither processed nor failed.
	EventsSkipped int     `gorm:"not null;default:0" json:"events_skipped"`
	ErrorDetail   *string `gorm:"size:2048" json:"error_detail"`
}

// TableName specifies the table name for GORM.
func (SyncLog) TableName() string {
	return "ticketing_sync_logs"
}

// ProductionSummary is the read-side sales aggregate for one production,
// computed from the link store only.
type ProductionSummary struct {
	ProductionID      uint       `json:"production_id"`
	TotalLinks        int        `json:"total_links"`
	LinkedShows       int        `json:"linked_shows"`
	TicketsSold       int        `json:"tickets_sold"`
	GrossRevenueCents int64      `json:"gross_revenue_cents"`
	NetRevenueCents   int64      `json:"net_revenue_cents"`
	LastSync          *time.Time `json:"last_sync"`
}

// Migrate creates or updates the ticketing tables. The production and show
// tables belong to the production management subsystem and are not migrated
// here.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Provider{},
		&ProductionLink{},
		&ShowLink{},
		&SyncLog{},
	)
}
