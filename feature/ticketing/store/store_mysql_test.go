package store_test

import (
	"context"
	"testing"
	"time"

	"stagesync/feature/ticketing/models"
	"stagesync/feature/ticketing/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return store.New(gormDB), mock
}

// The upsert must resolve the (production_link_id, external_event_id) key in
// the database, not in application code.
func TestUpsertShowLinkUsesOnDuplicateKey(t *testing.T) {
	st, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `ticketing_show_links` .* ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	now := time.Now().UTC()
	err := st.UpsertShowLink(context.Background(), &models.ShowLink{
		ProductionLinkID:  1,
		ExternalEventID:   "ev-1",
		OccursAt:          now,
		TicketsSold:       100,
		GrossRevenueCents: 350000,
		NetRevenueCents:   315000,
		LastSyncedAt:      &now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalizeSyncLogUpdatesOutcomeColumns(t *testing.T) {
	st, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `ticketing_sync_logs` SET .* WHERE id = ?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	finished := time.Now().UTC()
	err := st.FinalizeSyncLog(context.Background(), &models.SyncLog{
		ID:              42,
		FinishedAt:      &finished,
		Status:          models.SyncStatusSuccess,
		EventsProcessed: 4,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
