package ticketing

import (
	"errors"
	"time"

	"stagesync/core/logger"
	"stagesync/feature/ticketing/client"
	"stagesync/feature/ticketing/models"
	"stagesync/feature/ticketing/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the ticketing feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the ticketing routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/ticketing")
	group.Get("/provider-types", h.HandleProviderTypes)
	group.Get("/providers", h.HandleListProviders)
	group.Post("/providers", h.HandleCreateProvider)
	group.Put("/providers/:id", h.HandleUpdateProvider)
	group.Delete("/providers/:id", h.HandleDeleteProvider)
	group.Post("/providers/:id/test", h.HandleTestProvider)
	group.Post("/providers/:id/sync", h.HandleTriggerSync)
	group.Get("/providers/:id/logs", h.HandleListSyncLogs)
	group.Get("/providers/:id/links", h.HandleListLinks)
	group.Get("/providers/:id/drift", h.HandleDrift)
	group.Get("/productions/:id/summary", h.HandleProductionSummary)
	group.Get("/productions/:id/unlinked-shows", h.HandleUnlinkedShows)
	group.Post("/links/:id/production", h.HandleMapLink)
	group.Post("/show-links/:id/show", h.HandleAttachShow)
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	if errors.Is(err, client.ErrUnknownProviderType) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	l.Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func idParam(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// HandleProviderTypes lists the supported vendor types.
// @Summary List Provider Types
// @Description Lists the supported ticketing vendor types for configuration UIs.
// @Tags ticketing
// @Produce json
// @Success 200 {array} client.ProviderType "Supported types"
// @Router /ticketing/provider-types [get]
func (h *Handler) HandleProviderTypes(c *fiber.Ctx) error {
	return c.JSON(h.service.AvailableProviders())
}

// HandleListProviders lists the providers of one organization.
// @Summary List Providers
// @Description Lists the ticketing providers configured for an organization.
// @Tags ticketing
// @Produce json
// @Param organization_id query int true "Organization ID"
// @Success 200 {array} models.Provider "Providers"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /ticketing/providers [get]
func (h *Handler) HandleListProviders(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	orgID := c.QueryInt("organization_id")
	if orgID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "organization_id is required"})
	}

	providers, err := h.service.ListProviders(c.Context(), uint(orgID))
	if err != nil {
		return h.fail(c, l, "Failed to list providers", err)
	}
	return c.JSON(providers)
}

// providerRequest is the create/update payload for a provider.
type providerRequest struct {
	OrganizationID      uint   `json:"organization_id"`
	Name                string `json:"name"`
	ProviderType        string `json:"provider_type"`
	APIKey              string `json:"api_key"`
	APIBaseURL          string `json:"api_base_url"`
	AutoSyncEnabled     bool   `json:"auto_sync_enabled"`
	SyncIntervalMinutes int    `json:"sync_interval_minutes"`
	Enabled             *bool  `json:"enabled"`
}

func (r *providerRequest) validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.ProviderType == "" {
		return errors.New("provider_type is required")
	}
	return nil
}

// HandleCreateProvider creates a provider configuration.
// @Summary Create Provider
// @Description Creates a new ticketing provider configuration.
// @Tags ticketing
// @Accept json
// @Produce json
// @Param provider body providerRequest true "Provider configuration"
// @Success 201 {object} models.Provider "Created provider"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 422 {object} map[string]string "Unknown provider type"
// @Router /ticketing/providers [post]
func (h *Handler) HandleCreateProvider(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req providerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.OrganizationID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "organization_id is required"})
	}
	if err := req.validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	interval := req.SyncIntervalMinutes
	if interval <= 0 {
		interval = 60
	}
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	provider := &models.Provider{
		OrganizationID:      req.OrganizationID,
		Name:                req.Name,
		ProviderType:        req.ProviderType,
		APIKey:              req.APIKey,
		APIBaseURL:          req.APIBaseURL,
		AutoSyncEnabled:     req.AutoSyncEnabled,
		SyncIntervalMinutes: interval,
		Enabled:             enabled,
	}
	if err := h.service.CreateProvider(c.Context(), provider); err != nil {
		return h.fail(c, l, "Failed to create provider", err)
	}

	l.Info("Provider created", zap.Uint("provider_id", provider.ID))
	return c.Status(fiber.StatusCreated).JSON(provider)
}

// HandleUpdateProvider updates a provider configuration.
// @Summary Update Provider
// @Description Updates an existing ticketing provider configuration.
// @Tags ticketing
// @Accept json
// @Produce json
// @Param id path int true "Provider ID"
// @Param provider body providerRequest true "Provider configuration"
// @Success 200 {object} models.Provider "Updated provider"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /ticketing/providers/{id} [put]
func (h *Handler) HandleUpdateProvider(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	provider, err := h.service.GetProvider(c.Context(), id)
	if err != nil {
		return h.fail(c, l, "Failed to load provider", err)
	}

	var req providerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := req.validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	provider.Name = req.Name
	provider.ProviderType = req.ProviderType
	if req.APIKey != "" {
		provider.APIKey = req.APIKey
	}
	provider.APIBaseURL = req.APIBaseURL
	provider.AutoSyncEnabled = req.AutoSyncEnabled
	if req.SyncIntervalMinutes > 0 {
		provider.SyncIntervalMinutes = req.SyncIntervalMinutes
	}
	if req.Enabled != nil {
		provider.Enabled = *req.Enabled
	}

	if err := h.service.UpdateProvider(c.Context(), provider); err != nil {
		return h.fail(c, l, "Failed to update provider", err)
	}
	return c.JSON(provider)
}

// HandleDeleteProvider deletes a provider and everything it owns.
// @Summary Delete Provider
// @Description Deletes a provider with its production links, show links, and sync logs.
// @Tags ticketing
// @Produce json
// @Param id path int true "Provider ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /ticketing/providers/{id} [delete]
func (h *Handler) HandleDeleteProvider(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.service.DeleteProvider(c.Context(), id); err != nil {
		return h.fail(c, l, "Failed to delete provider", err)
	}

	l.Info("Provider deleted", zap.Uint("provider_id", id))
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleTestProvider probes the provider's vendor account.
// @Summary Test Provider Connection
// @Description Probes the vendor account with the configured credential. Never touches link data.
// @Tags ticketing
// @Produce json
// @Param id path int true "Provider ID"
// @Success 200 {object} client.TestResult "Probe result"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /ticketing/providers/{id}/test [post]
func (h *Handler) HandleTestProvider(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.service.TestProvider(c.Context(), id)
	if err != nil {
		return h.fail(c, l, "Failed to test provider", err)
	}
	return c.JSON(result)
}

// HandleTriggerSync enqueues an asynchronous sync run.
// @Summary Trigger Sync
// @Description Enqueues a synchronization run and returns immediately. A run already in flight makes this a no-op.
// @Tags ticketing
// @Produce json
// @Param id path int true "Provider ID"
// @Success 202 {object} map[string]interface{} "Acknowledgment"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /ticketing/providers/{id}/sync [post]
func (h *Handler) HandleTriggerSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	started, err := h.service.TriggerSync(c.Context(), id)
	if err != nil {
		return h.fail(c, l, "Failed to trigger sync", err)
	}

	l.Info("Sync triggered", zap.Uint("provider_id", id), zap.Bool("started", started))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"started": started,
	})
}

// HandleListSyncLogs lists recent sync logs for a provider.
// @Summary List Sync Logs
// @Description Lists the most recent synchronization logs, newest first.
// @Tags ticketing
// @Produce json
// @Param id path int true "Provider ID"
// @Param limit query int false "Maximum entries (default 20)"
// @Success 200 {array} models.SyncLog "Sync logs"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /ticketing/providers/{id}/logs [get]
func (h *Handler) HandleListSyncLogs(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	logs, err := h.service.ListSyncLogs(c.Context(), id, c.QueryInt("limit", 20))
	if err != nil {
		return h.fail(c, l, "Failed to list sync logs", err)
	}
	return c.JSON(logs)
}

// HandleListLinks lists the production links of a provider.
// @Summary List Production Links
// @Description Lists the external event groups discovered for a provider and their mapping state.
// @Tags ticketing
// @Produce json
// @Param id path int true "Provider ID"
// @Success 200 {array} models.ProductionLink "Production links"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /ticketing/providers/{id}/links [get]
func (h *Handler) HandleListLinks(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	links, err := h.service.ListLinks(c.Context(), id)
	if err != nil {
		return h.fail(c, l, "Failed to list links", err)
	}
	return c.JSON(links)
}

// HandleDrift builds a read-only drift report for a provider.
// @Summary Drift Report
// @Description Compares a fresh vendor fetch against the stored links without writing anything.
// @Tags ticketing
// @Produce json
// @Param id path int true "Provider ID"
// @Success 200 {object} reconcile.Plan "Drift plan"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 502 {object} map[string]string "Vendor unreachable"
// @Router /ticketing/providers/{id}/drift [get]
func (h *Handler) HandleDrift(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	plan, err := h.service.DriftReport(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
		}
		l.Warn("Drift report failed", zap.Uint("provider_id", id), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(plan)
}

// HandleProductionSummary returns the sales aggregate for one production.
// @Summary Production Summary
// @Description Aggregates cached sales metrics for a production from the link store. No vendor calls.
// @Tags ticketing
// @Produce json
// @Param id path int true "Production ID"
// @Success 200 {object} models.ProductionSummary "Summary"
// @Router /ticketing/productions/{id}/summary [get]
func (h *Handler) HandleProductionSummary(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	summary, err := h.service.ProductionSummary(c.Context(), id)
	if err != nil {
		return h.fail(c, l, "Failed to build production summary", err)
	}
	return c.JSON(summary)
}

// HandleUnlinkedShows lists shows lacking a show link within a window.
// @Summary List Unlinked Shows
// @Description Lists shows of a production within a time window that have no show link, for the manual-link UI.
// @Tags ticketing
// @Produce json
// @Param id path int true "Production ID"
// @Param from query string false "Window start (RFC3339, default now-30d)"
// @Param to query string false "Window end (RFC3339, default now+90d)"
// @Success 200 {array} map[string]interface{} "Unlinked shows"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /ticketing/productions/{id}/unlinked-shows [get]
func (h *Handler) HandleUnlinkedShows(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now.AddDate(0, 0, 90)
	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "from must be RFC3339"})
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "to must be RFC3339"})
		}
		to = parsed
	}

	shows, err := h.service.UnlinkedShows(c.Context(), id, from, to)
	if err != nil {
		return h.fail(c, l, "Failed to list unlinked shows", err)
	}
	return c.JSON(shows)
}

// HandleMapLink maps an external event group to an internal production.
// @Summary Map Production Link
// @Description Attaches a discovered external event group to an internal production.
// @Tags ticketing
// @Accept json
// @Produce json
// @Param id path int true "Production Link ID"
// @Param mapping body object{production_id=int} true "Mapping"
// @Success 204 "Mapped"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /ticketing/links/{id}/production [post]
func (h *Handler) HandleMapLink(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var req struct {
		ProductionID uint `json:"production_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.ProductionID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "production_id is required"})
	}

	if err := h.service.MapLink(c.Context(), id, req.ProductionID); err != nil {
		return h.fail(c, l, "Failed to map production link", err)
	}

	l.Info("Production link mapped", zap.Uint("link_id", id), zap.Uint("production_id", req.ProductionID))
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleAttachShow binds an internal show to a show link.
// @Summary Attach Show
// @Description Attaches an internal show to an existing show link (manual linking).
// @Tags ticketing
// @Accept json
// @Produce json
// @Param id path int true "Show Link ID"
// @Param attachment body object{show_id=int} true "Attachment"
// @Success 204 "Attached"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /ticketing/show-links/{id}/show [post]
func (h *Handler) HandleAttachShow(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var req struct {
		ShowID uint `json:"show_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.ShowID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "show_id is required"})
	}

	if err := h.service.AttachShow(c.Context(), id, req.ShowID); err != nil {
		return h.fail(c, l, "Failed to attach show", err)
	}

	l.Info("Show attached", zap.Uint("show_link_id", id), zap.Uint("show_id", req.ShowID))
	return c.SendStatus(fiber.StatusNoContent)
}
