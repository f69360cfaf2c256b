package ticketing_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stagesync/core/database"
	productionmodels "stagesync/feature/production/models"
	"stagesync/feature/ticketing"
	"stagesync/feature/ticketing/models"
	syncengine "stagesync/feature/ticketing/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&productionmodels.Production{}, &productionmodels.Show{}))
	require.NoError(t, models.Migrate(db))

	app := fiber.New()
	feature := ticketing.NewFeature(db, nil, "", zap.NewNop(), syncengine.Config{FetchTimeoutSeconds: 5})
	require.NoError(t, feature.Load(app))

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, payload
}

func TestHandleProviderTypes(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/ticketing/provider-types", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var types []map[string]string
	require.NoError(t, json.Unmarshal(body, &types))
	require.Len(t, types, 2)
	assert.Equal(t, "rest", types[0]["tag"])
	assert.Equal(t, "sandbox", types[1]["tag"])
}

func TestHandleCreateProvider(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/ticketing/providers", map[string]any{
		"organization_id": 1,
		"name":            "Demo Theatre",
		"provider_type":   "sandbox",
		"api_key":         "demo-key",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created map[string]any
	require.NoError(t, json.Unmarshal(body, &created))
	assert.NotZero(t, created["id"])
	assert.Equal(t, "Demo Theatre", created["name"])
	// The credential never crosses the HTTP boundary.
	assert.NotContains(t, created, "api_key")
	assert.NotContains(t, string(body), "demo-key")
}

func TestHandleCreateProviderValidation(t *testing.T) {
	app, _ := newTestApp(t)

	// Missing name
	resp, _ := doJSON(t, app, http.MethodPost, "/ticketing/providers", map[string]any{
		"organization_id": 1,
		"provider_type":   "sandbox",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown provider type
	resp, body := doJSON(t, app, http.MethodPost, "/ticketing/providers", map[string]any{
		"organization_id": 1,
		"name":            "Broken",
		"provider_type":   "carrier-pigeon",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "unknown provider type")
}

func TestHandleListProviders(t *testing.T) {
	app, db := newTestApp(t)

	require.NoError(t, db.Create(&models.Provider{
		OrganizationID: 1, Name: "Mine", ProviderType: "sandbox", APIKey: "k", Enabled: true,
	}).Error)
	require.NoError(t, db.Create(&models.Provider{
		OrganizationID: 2, Name: "Theirs", ProviderType: "sandbox", APIKey: "k", Enabled: true,
	}).Error)

	resp, _ := doJSON(t, app, http.MethodGet, "/ticketing/providers", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/ticketing/providers?organization_id=1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var providers []map[string]any
	require.NoError(t, json.Unmarshal(body, &providers))
	require.Len(t, providers, 1)
	assert.Equal(t, "Mine", providers[0]["name"])
}

func TestHandleTestProvider(t *testing.T) {
	app, db := newTestApp(t)

	provider := &models.Provider{
		OrganizationID: 1, Name: "Demo", ProviderType: "sandbox", APIKey: "demo-key", Enabled: true,
	}
	require.NoError(t, db.Create(provider).Error)

	resp, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/ticketing/providers/%d/test", provider.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]any
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, true, result["success"])

	resp, _ = doJSON(t, app, http.MethodPost, "/ticketing/providers/9999/test", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleTriggerSync(t *testing.T) {
	app, db := newTestApp(t)

	provider := &models.Provider{
		OrganizationID: 1, Name: "Demo", ProviderType: "sandbox", APIKey: "demo-key", Enabled: true,
	}
	require.NoError(t, db.Create(provider).Error)

	// Workers are not started in the test app, so the job stays queued.
	resp, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/ticketing/providers/%d/sync", provider.ID), nil)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var ack map[string]any
	require.NoError(t, json.Unmarshal(body, &ack))
	assert.Equal(t, true, ack["started"])

	// Duplicate trigger while in flight acknowledges without starting.
	resp, body = doJSON(t, app, http.MethodPost, fmt.Sprintf("/ticketing/providers/%d/sync", provider.ID), nil)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &ack))
	assert.Equal(t, false, ack["started"])

	resp, _ = doJSON(t, app, http.MethodPost, "/ticketing/providers/9999/sync", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleMapLinkAndSummary(t *testing.T) {
	app, db := newTestApp(t)

	provider := &models.Provider{
		OrganizationID: 1, Name: "Demo", ProviderType: "sandbox", APIKey: "demo-key", Enabled: true,
	}
	require.NoError(t, db.Create(provider).Error)

	production := &productionmodels.Production{OrganizationID: 1, Name: "Hamlet"}
	require.NoError(t, db.Create(production).Error)

	link := &models.ProductionLink{
		ProviderID: provider.ID, ExternalGroupID: "grp-1", ExternalGroupName: "Hamlet Tour",
	}
	require.NoError(t, db.Create(link).Error)

	resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/ticketing/links/%d/production", link.ID),
		map[string]any{"production_id": production.ID})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Mapping an unknown production fails cleanly.
	resp, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/ticketing/links/%d/production", link.ID),
		map[string]any{"production_id": 9999})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	synced := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.ShowLink{
		ProductionLinkID: link.ID, ExternalEventID: "ev-1",
		OccursAt: synced, TicketsSold: 100, GrossRevenueCents: 350000, NetRevenueCents: 315000,
		LastSyncedAt: &synced,
	}).Error)

	resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/ticketing/productions/%d/summary", production.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var summary map[string]any
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.EqualValues(t, 100, summary["tickets_sold"])
	assert.EqualValues(t, 350000, summary["gross_revenue_cents"])
	assert.EqualValues(t, 1, summary["total_links"])
}

func TestHandleAttachShow(t *testing.T) {
	app, db := newTestApp(t)

	provider := &models.Provider{
		OrganizationID: 1, Name: "Demo", ProviderType: "sandbox", APIKey: "demo-key", Enabled: true,
	}
	require.NoError(t, db.Create(provider).Error)
	production := &productionmodels.Production{OrganizationID: 1, Name: "Hamlet"}
	require.NoError(t, db.Create(production).Error)
	show := &productionmodels.Show{
		ProductionID: production.ID, Name: "Evening",
		OccursAt: time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(show).Error)

	link := &models.ProductionLink{
		ProviderID: provider.ID, ProductionID: &production.ID, ExternalGroupID: "grp-1",
	}
	require.NoError(t, db.Create(link).Error)
	showLink := &models.ShowLink{
		ProductionLinkID: link.ID, ExternalEventID: "ev-1", OccursAt: show.OccursAt,
	}
	require.NoError(t, db.Create(showLink).Error)

	resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/ticketing/show-links/%d/show", showLink.ID),
		map[string]any{"show_id": show.ID})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	var stored models.ShowLink
	require.NoError(t, db.First(&stored, showLink.ID).Error)
	require.NotNil(t, stored.ShowID)
	assert.Equal(t, show.ID, *stored.ShowID)

	resp, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/ticketing/show-links/%d/show", showLink.ID),
		map[string]any{"show_id": 9999})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleUnlinkedShows(t *testing.T) {
	app, db := newTestApp(t)

	production := &productionmodels.Production{OrganizationID: 1, Name: "Hamlet"}
	require.NoError(t, db.Create(production).Error)
	show := &productionmodels.Show{
		ProductionID: production.ID, Name: "Evening",
		OccursAt: time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(show).Error)

	url := fmt.Sprintf("/ticketing/productions/%d/unlinked-shows?from=2026-03-01T00:00:00Z&to=2026-04-01T00:00:00Z", production.ID)
	resp, body := doJSON(t, app, http.MethodGet, url, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var shows []map[string]any
	require.NoError(t, json.Unmarshal(body, &shows))
	require.Len(t, shows, 1)
	assert.Equal(t, "Evening", shows[0]["name"])

	resp, _ = doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/ticketing/productions/%d/unlinked-shows?from=tomorrow", production.ID), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleDeleteProvider(t *testing.T) {
	app, db := newTestApp(t)

	provider := &models.Provider{
		OrganizationID: 1, Name: "Demo", ProviderType: "sandbox", APIKey: "demo-key", Enabled: true,
	}
	require.NoError(t, db.Create(provider).Error)

	resp, _ := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/ticketing/providers/%d", provider.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/ticketing/providers/%d", provider.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleDrift(t *testing.T) {
	app, db := newTestApp(t)

	provider := &models.Provider{
		OrganizationID: 1, Name: "Demo", ProviderType: "sandbox", APIKey: "demo-key", Enabled: true,
	}
	require.NoError(t, db.Create(provider).Error)

	resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/ticketing/providers/%d/drift", provider.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var plan struct {
		Actions []map[string]any `json:"actions"`
		Summary map[string]any   `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(body, &plan))
	// Nothing is linked yet, so the whole sandbox catalog is drift.
	assert.EqualValues(t, 4, plan.Summary["vendor_events"])
	require.NotEmpty(t, plan.Actions)
	assert.Equal(t, "create_link", plan.Actions[0]["type"])

	// Vendor failure maps to a gateway error, not a 500.
	bad := &models.Provider{
		OrganizationID: 1, Name: "Bad", ProviderType: "sandbox", APIKey: "invalid", Enabled: true,
	}
	require.NoError(t, db.Create(bad).Error)
	resp, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/ticketing/providers/%d/drift", bad.ID), nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
