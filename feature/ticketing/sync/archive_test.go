package sync_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"stagesync/core/storage/mocks"
	"stagesync/feature/ticketing/client"
	"stagesync/feature/ticketing/models"
	syncengine "stagesync/feature/ticketing/sync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/minio/minio-go/v7"
)

func archiveFixtures() (*models.Provider, *models.SyncLog, []client.ExternalEvent) {
	finished := time.Date(2026, 3, 14, 10, 1, 0, 0, time.UTC)
	provider := &models.Provider{ID: 7, Name: "Box Office", ProviderType: "rest"}
	log := &models.SyncLog{
		ID:              42,
		ProviderID:      7,
		StartedAt:       time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		FinishedAt:      &finished,
		Status:          models.SyncStatusSuccess,
		EventsProcessed: 1,
	}
	events := []client.ExternalEvent{{
		GroupID:     "grp-1",
		EventID:     "ev-1",
		OccursAt:    time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC),
		TicketsSold: 100,
	}}
	return provider, log, events
}

func TestArchiveSave(t *testing.T) {
	mockClient := new(mocks.Client)

	var uploaded []byte
	var objectName string
	mockClient.On("PutObject", mock.Anything, "sync-reports", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			objectName = args.String(2)
			data, err := io.ReadAll(args.Get(3).(io.Reader))
			require.NoError(t, err)
			uploaded = data
		}).
		Return(minio.UploadInfo{}, nil)

	provider, log, events := archiveFixtures()
	archive := syncengine.NewArchive(mockClient, "sync-reports", zap.NewNop())
	archive.Save(context.Background(), provider, log, events)

	mockClient.AssertExpectations(t)

	// Object names are scoped per provider and unique per run.
	assert.Contains(t, objectName, "provider-7/")
	assert.Contains(t, objectName, ".json")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(uploaded, &doc))
	assert.Equal(t, "success", doc["status"])
	assert.EqualValues(t, 7, doc["provider_id"])
	assert.NotEmpty(t, doc["report_id"])
	assert.Len(t, doc["events"], 1)
}

func TestArchiveSaveBestEffort(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("PutObject", mock.Anything, "sync-reports", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("bucket unavailable"))

	provider, log, events := archiveFixtures()
	archive := syncengine.NewArchive(mockClient, "sync-reports", zap.NewNop())

	// Upload failure is logged and swallowed; the run outcome never changes.
	archive.Save(context.Background(), provider, log, events)
	mockClient.AssertExpectations(t)
}
