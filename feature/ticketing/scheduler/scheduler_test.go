package scheduler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stagesync/core/database"
	productionmodels "stagesync/feature/production/models"
	"stagesync/feature/ticketing/client"
	"stagesync/feature/ticketing/models"
	"stagesync/feature/ticketing/scheduler"
	"stagesync/feature/ticketing/store"
	syncengine "stagesync/feature/ticketing/sync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestScheduler(t *testing.T, cfg syncengine.Config) (*scheduler.Scheduler, *store.Store, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&productionmodels.Production{}, &productionmodels.Show{}))
	require.NoError(t, models.Migrate(db))

	st := store.New(db)
	factory := client.NewFactory(cfg.FetchTimeout())
	coordinator := syncengine.NewCoordinator(st, factory, nil, zap.NewNop(), cfg)
	return scheduler.New(st, coordinator, zap.NewNop(), cfg), st, db
}

func seedSandboxProvider(t *testing.T, db *gorm.DB, autoSync bool) *models.Provider {
	t.Helper()
	p := &models.Provider{
		OrganizationID:      1,
		Name:                "Demo Theatre",
		ProviderType:        client.TypeSandbox,
		APIKey:              "demo-key",
		Enabled:             true,
		AutoSyncEnabled:     autoSync,
		SyncIntervalMinutes: 60,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestEnqueueSingleFlight(t *testing.T) {
	// Workers are not started, so the job stays queued and in flight.
	sched, _, _ := newTestScheduler(t, syncengine.Config{Workers: 1, QueueSize: 4})

	assert.True(t, sched.Enqueue(1))
	assert.True(t, sched.InFlight(1))

	// The duplicate trigger is a no-op, not an error.
	assert.False(t, sched.Enqueue(1))

	// Other providers are unaffected.
	assert.True(t, sched.Enqueue(2))
}

func TestEnqueueQueueFull(t *testing.T) {
	sched, _, _ := newTestScheduler(t, syncengine.Config{Workers: 1, QueueSize: 1})

	assert.True(t, sched.Enqueue(1))
	// Queue capacity exhausted: the marker is released so a later trigger
	// can retry.
	assert.False(t, sched.Enqueue(2))
	assert.False(t, sched.InFlight(2))
}

func TestSchedulerRunsEnqueuedJob(t *testing.T) {
	cfg := syncengine.Config{Workers: 2, IntervalSeconds: 3600, FetchTimeoutSeconds: 5, QueueSize: 4}
	sched, st, db := newTestScheduler(t, cfg)
	provider := seedSandboxProvider(t, db, false)

	sched.Start(context.Background())
	defer sched.Stop()

	require.True(t, sched.Enqueue(provider.ID))

	assert.Eventually(t, func() bool {
		logs, err := st.ListSyncLogs(context.Background(), provider.ID, 1)
		return err == nil && len(logs) == 1 && logs[0].Status != models.SyncStatusRunning
	}, 5*time.Second, 20*time.Millisecond, "sync log should be finalized")

	// The in-flight marker is released after the run.
	assert.Eventually(t, func() bool {
		return !sched.InFlight(provider.ID)
	}, 5*time.Second, 20*time.Millisecond)
}

func TestSchedulerSkipsDisabledProvider(t *testing.T) {
	cfg := syncengine.Config{Workers: 1, IntervalSeconds: 3600, FetchTimeoutSeconds: 5, QueueSize: 4}
	sched, st, db := newTestScheduler(t, cfg)

	provider := seedSandboxProvider(t, db, false)
	provider.Enabled = false
	require.NoError(t, db.Save(provider).Error)

	sched.Start(context.Background())
	defer sched.Stop()

	require.True(t, sched.Enqueue(provider.ID))

	assert.Eventually(t, func() bool {
		return !sched.InFlight(provider.ID)
	}, 5*time.Second, 20*time.Millisecond)

	logs, err := st.ListSyncLogs(context.Background(), provider.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestStopWaitsForInFlightRun(t *testing.T) {
	cfg := syncengine.Config{Workers: 1, IntervalSeconds: 3600, FetchTimeoutSeconds: 5, QueueSize: 4}
	sched, st, db := newTestScheduler(t, cfg)

	fetchStarted := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case fetchStarted <- struct{}{}:
		default:
		}
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, `{"events": []}`)
	}))
	defer srv.Close()

	provider := &models.Provider{
		OrganizationID: 1,
		Name:           "Slow Vendor",
		ProviderType:   client.TypeREST,
		APIKey:         "token",
		APIBaseURL:     srv.URL,
		Enabled:        true,
	}
	require.NoError(t, db.Create(provider).Error)

	sched.Start(context.Background())
	require.True(t, sched.Enqueue(provider.ID))

	// Shut down while the vendor fetch is in flight. The run must still
	// complete and finalize its log; a log stuck at running would never
	// get a finished timestamp.
	<-fetchStarted
	sched.Stop()

	logs, err := st.ListSyncLogs(context.Background(), provider.ID, 1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.SyncStatusSuccess, logs[0].Status)
	assert.NotNil(t, logs[0].FinishedAt)
	assert.False(t, sched.InFlight(provider.ID))
}

func TestSchedulerAutoSyncTick(t *testing.T) {
	cfg := syncengine.Config{Workers: 1, IntervalSeconds: 1, FetchTimeoutSeconds: 5, QueueSize: 4}
	sched, st, db := newTestScheduler(t, cfg)
	provider := seedSandboxProvider(t, db, true)

	sched.Start(context.Background())
	defer sched.Stop()

	// No manual trigger; the ticker picks the provider up as due.
	assert.Eventually(t, func() bool {
		logs, err := st.ListSyncLogs(context.Background(), provider.ID, 1)
		return err == nil && len(logs) >= 1
	}, 10*time.Second, 50*time.Millisecond, "auto-sync should trigger a run")
}
