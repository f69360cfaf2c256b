package client

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"stagesync/feature/ticketing/models"
)

// TypeSandbox is the type tag for the in-process sandbox vendor.
const TypeSandbox = "sandbox"

// sandboxClient is a deterministic in-process vendor used for staging
// environments and demos. Events are derived from the configured credential
// so the same provider always sees the same catalog. A credential of
// "invalid" simulates an auth failure.
type sandboxClient struct {
	apiKey string
	name   string
}

func newSandboxClient(p *models.Provider, _ time.Duration) Client {
	return &sandboxClient{apiKey: p.APIKey, name: p.Name}
}

func (c *sandboxClient) TestConnection(ctx context.Context) TestResult {
	if c.apiKey == "invalid" {
		return TestResult{Success: false, Error: "authentication failed: sandbox credential rejected"}
	}
	events, _ := c.FetchEvents(ctx, nil)
	return TestResult{
		Success:     true,
		AccountName: "Sandbox: " + c.name,
		EventCount:  len(events),
	}
}

func (c *sandboxClient) FetchEvents(_ context.Context, since *time.Time) ([]ExternalEvent, error) {
	if c.apiKey == "invalid" {
		return nil, &AuthError{Reason: "sandbox credential rejected"}
	}

	seed := fnv.New32a()
	seed.Write([]byte(c.apiKey))
	base := int(seed.Sum32() % 500)

	// One group with four weekly performances starting at a fixed anchor,
	// so repeated fetches are byte-for-byte identical.
	anchor := time.Date(2026, time.January, 9, 19, 30, 0, 0, time.UTC)
	groupID := fmt.Sprintf("sbx-group-%d", base)

	events := make([]ExternalEvent, 0, 4)
	for i := 0; i < 4; i++ {
		occursAt := anchor.AddDate(0, 0, 7*i)
		if since != nil && occursAt.Before(*since) {
			continue
		}
		sold := base + i*17
		events = append(events, ExternalEvent{
			GroupID:           groupID,
			GroupName:         "Sandbox Production",
			EventID:           fmt.Sprintf("%s-ev%d", groupID, i+1),
			EventName:         fmt.Sprintf("Performance %d", i+1),
			OccursAt:          occursAt,
			TicketsSold:       sold,
			GrossRevenueCents: int64(sold) * 3500,
			NetRevenueCents:   int64(sold) * 3150,
		})
	}
	return events, nil
}
