package reconcile

import (
	"context"
	"fmt"
	"sort"

	"stagesync/feature/ticketing/client"
	"stagesync/feature/ticketing/models"
	"stagesync/feature/ticketing/store"
)

// ActionType represents a pending reconciliation action.
type ActionType string

const (
	// ActionCreateLink means the vendor group has no production link yet.
	ActionCreateLink ActionType = "create_link"
	// ActionMapGroup means the production link exists but is not mapped to
	// an internal production.
	ActionMapGroup ActionType = "map_group"
	// ActionUpdateMetrics means the stored metrics differ from the vendor's
	// current totals.
	ActionUpdateMetrics ActionType = "update_metrics"
	// ActionAttachShow means the show link has no internal show attached.
	ActionAttachShow ActionType = "attach_show"
	// ActionOrphanedLink means a stored show link has no matching event in
	// the vendor payload.
	ActionOrphanedLink ActionType = "orphaned_link"
)

// Action is one pending operation a real sync run (or an operator) would
// perform. The drift report never executes actions.
type Action struct {
	// Type specifies the pending action.
	Type ActionType `json:"type"`
	// Key identifies the affected entity (external group or event id).
	Key string `json:"key"`
	// Reason explains why this action is pending.
	Reason string `json:"reason"`
}

// Summary provides aggregate counts for a drift plan.
type Summary struct {
	VendorEvents    int `json:"vendor_events"`
	StoredLinks     int `json:"stored_links"`
	UnmappedGroups  int `json:"unmapped_groups"`
	MetricDrift     int `json:"metric_drift"`
	UnattachedShows int `json:"unattached_shows"`
	OrphanedLinks   int `json:"orphaned_links"`
}

// Plan is a read-only comparison of a fresh vendor fetch against the stored
// links of one provider.
type Plan struct {
	Actions []Action `json:"actions"`
	Summary Summary  `json:"summary"`
}

// BuildPlan compares vendor events against the provider's stored links and
// returns the pending actions. It writes nothing.
func BuildPlan(ctx context.Context, st *store.Store, providerID uint, events []client.ExternalEvent) (*Plan, error) {
	links, err := st.ListProductionLinks(ctx, providerID)
	if err != nil {
		return nil, err
	}

	linksByGroup := make(map[string]*models.ProductionLink, len(links))
	showLinksByEvent := make(map[string]*models.ShowLink)
	storedLinks := 0
	for i := range links {
		link := &links[i]
		linksByGroup[link.ExternalGroupID] = link

		showLinks, err := st.ListShowLinks(ctx, link.ID)
		if err != nil {
			return nil, err
		}
		storedLinks += len(showLinks)
		for j := range showLinks {
			showLinksByEvent[link.ExternalGroupID+"|"+showLinks[j].ExternalEventID] = &showLinks[j]
		}
	}

	plan := &Plan{
		Actions: []Action{},
		Summary: Summary{VendorEvents: len(events), StoredLinks: storedLinks},
	}

	seen := make(map[string]struct{}, len(events))
	seenGroups := make(map[string]struct{})

	for _, event := range events {
		seen[event.GroupID+"|"+event.EventID] = struct{}{}

		link, ok := linksByGroup[event.GroupID]
		if !ok {
			if _, dup := seenGroups[event.GroupID]; !dup {
				seenGroups[event.GroupID] = struct{}{}
				plan.Actions = append(plan.Actions, Action{
					Type:   ActionCreateLink,
					Key:    event.GroupID,
					Reason: fmt.Sprintf("vendor group %q has no production link", event.GroupName),
				})
			}
			continue
		}
		if !link.Mapped() {
			if _, dup := seenGroups[event.GroupID]; !dup {
				seenGroups[event.GroupID] = struct{}{}
				plan.Summary.UnmappedGroups++
				plan.Actions = append(plan.Actions, Action{
					Type:   ActionMapGroup,
					Key:    event.GroupID,
					Reason: fmt.Sprintf("group %q is not mapped to a production", link.ExternalGroupName),
				})
			}
			continue
		}

		showLink, ok := showLinksByEvent[event.GroupID+"|"+event.EventID]
		if !ok {
			plan.Actions = append(plan.Actions, Action{
				Type:   ActionUpdateMetrics,
				Key:    event.EventID,
				Reason: "event has no show link yet",
			})
			continue
		}
		if showLink.TicketsSold != event.TicketsSold ||
			showLink.GrossRevenueCents != event.GrossRevenueCents ||
			showLink.NetRevenueCents != event.NetRevenueCents {
			plan.Summary.MetricDrift++
			plan.Actions = append(plan.Actions, Action{
				Type: ActionUpdateMetrics,
				Key:  event.EventID,
				Reason: fmt.Sprintf("sold %d -> %d, gross %d -> %d",
					showLink.TicketsSold, event.TicketsSold,
					showLink.GrossRevenueCents, event.GrossRevenueCents),
			})
		}
		if showLink.ShowID == nil {
			plan.Summary.UnattachedShows++
			plan.Actions = append(plan.Actions, Action{
				Type:   ActionAttachShow,
				Key:    event.EventID,
				Reason: "show link has no internal show attached",
			})
		}
	}

	// Stored show links absent from the vendor payload.
	for key, showLink := range showLinksByEvent {
		if _, ok := seen[key]; ok {
			continue
		}
		plan.Summary.OrphanedLinks++
		plan.Actions = append(plan.Actions, Action{
			Type:   ActionOrphanedLink,
			Key:    showLink.ExternalEventID,
			Reason: "stored show link has no matching vendor event",
		})
	}

	// Deterministic output for CLI diffing.
	sort.Slice(plan.Actions, func(i, j int) bool {
		if plan.Actions[i].Type != plan.Actions[j].Type {
			return plan.Actions[i].Type < plan.Actions[j].Type
		}
		return plan.Actions[i].Key < plan.Actions[j].Key
	})

	return plan, nil
}
