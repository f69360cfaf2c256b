package cmd

import (
	"context"
	"fmt"
	"strconv"

	"stagesync/core/config"
	"stagesync/core/database"
	"stagesync/core/logger"
	"stagesync/feature/ticketing/client"
	"stagesync/feature/ticketing/reconcile"
	"stagesync/feature/ticketing/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// reconcileCmd produces a read-only drift report for one provider: a fresh
// vendor fetch compared against the stored links, with the actions a real
// sync run (or an operator) would have to perform. Nothing is written.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile [provider-id]",
	Short: "Report drift between a vendor and the stored links",
	Long: `Fetches the provider's current vendor events and compares them
against the stored production and show links.

Reports unmapped groups, metric drift, unattached shows, and orphaned links.
No data is modified; run 'sync' to apply the metric updates.`,
	Args: cobra.ExactArgs(1),
	RunE: runReconcile,
}

func init() {
	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	providerID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid provider id %q", args[0])
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	l.Info("Starting drift report", zap.Uint64("provider_id", providerID))

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	st := store.New(db)
	factory := client.NewFactory(cfg.Sync.FetchTimeout())

	ctx := cmd.Context()
	provider, err := st.GetProvider(ctx, uint(providerID))
	if err != nil {
		return fmt.Errorf("failed to load provider %d: %w", providerID, err)
	}

	cl, err := factory.Build(provider)
	if err != nil {
		return fmt.Errorf("failed to build client: %w", err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, cfg.Sync.FetchTimeout())
	defer cancel()

	events, err := cl.FetchEvents(fetchCtx, nil)
	if err != nil {
		return fmt.Errorf("vendor fetch failed: %w", err)
	}

	plan, err := reconcile.BuildPlan(ctx, st, provider.ID, events)
	if err != nil {
		return fmt.Errorf("failed to build drift plan: %w", err)
	}

	printDriftReport(l, plan)

	if len(plan.Actions) == 0 {
		l.Info("No drift detected.")
	}
	return nil
}

// printDriftReport prints a formatted drift report using logger.
func printDriftReport(l *zap.Logger, plan *reconcile.Plan) {
	s := plan.Summary

	l.Info("Drift report",
		zap.Int("vendor_events", s.VendorEvents),
		zap.Int("stored_links", s.StoredLinks),
		zap.Int("unmapped_groups", s.UnmappedGroups),
		zap.Int("metric_drift", s.MetricDrift),
		zap.Int("unattached_shows", s.UnattachedShows),
		zap.Int("orphaned_links", s.OrphanedLinks),
	)

	if len(plan.Actions) > 0 {
		l.Info("Pending actions", zap.Int("total_actions", len(plan.Actions)))

		// Show sample of actions (max 10 for logger)
		maxShow := 10
		if len(plan.Actions) < maxShow {
			maxShow = len(plan.Actions)
		}
		for i := 0; i < maxShow; i++ {
			action := plan.Actions[i]
			l.Info("Pending action",
				zap.String("type", string(action.Type)),
				zap.String("key", action.Key),
				zap.String("reason", action.Reason),
			)
		}
		if len(plan.Actions) > maxShow {
			l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
		}
	}
}
