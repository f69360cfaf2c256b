package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stagesync/core/storage"
	"stagesync/feature/ticketing/client"
	"stagesync/feature/ticketing/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Archive writes a JSON copy of each finished sync run to object storage.
// SyncLog rows stay in the database for the admin audit view; the archive is
// the long-term record and is strictly best effort. An upload failure is
// logged and never changes the run outcome.
type Archive struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewArchive creates an archive writing to the given bucket.
func NewArchive(cl storage.Client, bucket string, logger *zap.Logger) *Archive {
	return &Archive{client: cl, bucket: bucket, logger: logger}
}

// report is the archived document for one run.
type report struct {
	ReportID        string                 `json:"report_id"`
	ProviderID      uint                   `json:"provider_id"`
	ProviderName    string                 `json:"provider_name"`
	ProviderType    string                 `json:"provider_type"`
	StartedAt       time.Time              `json:"started_at"`
	FinishedAt      *time.Time             `json:"finished_at"`
	Status          string                 `json:"status"`
	EventsProcessed int                    `json:"events_processed"`
	EventsFailed    int                    `json:"events_failed"`
	EventsSkipped   int                    `json:"events_skipped"`
	ErrorDetail     *string                `json:"error_detail,omitempty"`
	Events          []client.ExternalEvent `json:"events"`
}

// Save uploads the run report. Object names are unique per run so repeated
// syncs never overwrite each other.
func (a *Archive) Save(ctx context.Context, provider *models.Provider, log *models.SyncLog, events []client.ExternalEvent) {
	doc := report{
		ReportID:        uuid.NewString(),
		ProviderID:      provider.ID,
		ProviderName:    provider.Name,
		ProviderType:    provider.ProviderType,
		StartedAt:       log.StartedAt,
		FinishedAt:      log.FinishedAt,
		Status:          log.Status,
		EventsProcessed: log.EventsProcessed,
		EventsFailed:    log.EventsFailed,
		EventsSkipped:   log.EventsSkipped,
		ErrorDetail:     log.ErrorDetail,
		Events:          events,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		a.logger.Error("Failed to marshal sync report", zap.Uint("sync_log_id", log.ID), zap.Error(err))
		return
	}

	objName := fmt.Sprintf("provider-%d/%s-%s.json",
		provider.ID, log.StartedAt.Format("20060102T150405Z"), doc.ReportID)

	_, err = a.client.PutObject(ctx, a.bucket, objName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		a.logger.Warn("Failed to archive sync report",
			zap.Uint("sync_log_id", log.ID), zap.String("object", objName), zap.Error(err))
		return
	}
	a.logger.Debug("Archived sync report", zap.String("object", objName))
}
