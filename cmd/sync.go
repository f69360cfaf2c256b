package cmd

import (
	"fmt"
	"strconv"

	"stagesync/core/config"
	"stagesync/core/database"
	"stagesync/core/logger"
	"stagesync/core/storage"
	"stagesync/feature/ticketing/client"
	ticketingmodels "stagesync/feature/ticketing/models"
	"stagesync/feature/ticketing/store"
	syncengine "stagesync/feature/ticketing/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// syncCmd runs one synchronization for a single provider and exits. It is the
// synchronous CLI counterpart of the async HTTP trigger, useful for cron jobs
// and debugging a provider in isolation.
var syncCmd = &cobra.Command{
	Use:   "sync [provider-id]",
	Short: "Run one synchronization for a provider",
	Long: `Runs a full synchronization for the given provider and waits for it
to finish. The run writes a sync log exactly like a scheduled run would.`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	providerID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid provider id %q", args[0])
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := ticketingmodels.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate ticketing tables: %w", err)
	}

	var archive *syncengine.Archive
	if cfg.Storage.Enabled {
		storageClient, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		archive = syncengine.NewArchive(storageClient, cfg.Storage.Bucket, logg)
	}

	st := store.New(db)
	factory := client.NewFactory(cfg.Sync.FetchTimeout())
	coordinator := syncengine.NewCoordinator(st, factory, archive, logg, cfg.Sync)

	ctx := cmd.Context()
	provider, err := st.GetProvider(ctx, uint(providerID))
	if err != nil {
		return fmt.Errorf("failed to load provider %d: %w", providerID, err)
	}

	logg.Info("Running sync", zap.Uint("provider_id", provider.ID), zap.String("name", provider.Name))
	log, err := coordinator.RunSync(ctx, provider)
	if err != nil {
		return fmt.Errorf("sync run aborted: %w", err)
	}

	// Pretty Console Output
	fmt.Println("\n--- Sync Run Result ---")
	fmt.Printf("Provider:   %s (#%d)\n", provider.Name, provider.ID)
	fmt.Printf("Status:     %s\n", log.Status)
	fmt.Printf("Processed:  %d\n", log.EventsProcessed)
	fmt.Printf("Skipped:    %d\n", log.EventsSkipped)
	fmt.Printf("Failed:     %d\n", log.EventsFailed)
	if log.ErrorDetail != nil {
		fmt.Printf("Error:      %s\n", *log.ErrorDetail)
	}
	fmt.Println("-----------------------")

	if log.Status == ticketingmodels.SyncStatusFailure {
		return fmt.Errorf("sync finished with status %s", log.Status)
	}
	return nil
}
