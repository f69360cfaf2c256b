package cmd

import (
	"context"
	"fmt"
	"strconv"

	"stagesync/core/config"
	"stagesync/core/database"
	"stagesync/core/logger"
	"stagesync/feature/ticketing/client"
	"stagesync/feature/ticketing/store"
	syncengine "stagesync/feature/ticketing/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var listOrganizationID uint

// providersCmd is the parent command for provider operations.
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Inspect and test configured ticketing providers",
}

// providersListCmd lists the providers of one organization.
var providersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured providers of an organization",
	RunE:  runProvidersList,
}

// providersTestCmd probes a provider's vendor account.
var providersTestCmd = &cobra.Command{
	Use:   "test [provider-id]",
	Short: "Test the vendor connection of a provider",
	Long: `Probes the vendor account with the stored credential. Link data is
never touched; only the provider's account name and last error are updated.`,
	Args: cobra.ExactArgs(1),
	RunE: runProvidersTest,
}

// providersTypesCmd enumerates the supported vendor types.
var providersTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List supported provider types",
	Run: func(cmd *cobra.Command, args []string) {
		factory := client.NewFactory(0)
		fmt.Println("Supported provider types:")
		for _, t := range factory.AvailableProviders() {
			fmt.Printf("  %-12s %s\n", t.Tag, t.DisplayName)
		}
	},
}

func init() {
	providersListCmd.Flags().UintVar(&listOrganizationID, "org", 0, "Organization ID to list providers for (required)")
	_ = providersListCmd.MarkFlagRequired("org")

	providersCmd.AddCommand(providersListCmd)
	providersCmd.AddCommand(providersTestCmd)
	providersCmd.AddCommand(providersTypesCmd)
	RootCmd.AddCommand(providersCmd)
}

// setupProviderContext loads config, logger, and database for provider commands.
func setupProviderContext() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return cfg, logg, db, nil
}

func runProvidersList(cmd *cobra.Command, args []string) error {
	_, _, db, err := setupProviderContext()
	if err != nil {
		return err
	}

	providers, err := store.New(db).ListProviders(context.Background(), listOrganizationID)
	if err != nil {
		return fmt.Errorf("failed to list providers: %w", err)
	}

	if len(providers) == 0 {
		fmt.Printf("No providers configured for organization %d.\n", listOrganizationID)
		return nil
	}

	fmt.Printf("%-5s %-25s %-12s %-8s %-10s %s\n", "ID", "NAME", "TYPE", "ENABLED", "AUTO-SYNC", "LAST SYNC")
	for _, p := range providers {
		lastSync := "never"
		if p.LastSyncedAt != nil {
			lastSync = p.LastSyncedAt.Format("2006-01-02 15:04")
		}
		fmt.Printf("%-5d %-25s %-12s %-8v %-10v %s\n",
			p.ID, p.Name, p.ProviderType, p.Enabled, p.AutoSyncEnabled, lastSync)
	}
	return nil
}

func runProvidersTest(cmd *cobra.Command, args []string) error {
	providerID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid provider id %q", args[0])
	}

	cfg, logg, db, err := setupProviderContext()
	if err != nil {
		return err
	}

	st := store.New(db)
	factory := client.NewFactory(cfg.Sync.FetchTimeout())
	coordinator := syncengine.NewCoordinator(st, factory, nil, logg, cfg.Sync)

	ctx := cmd.Context()
	provider, err := st.GetProvider(ctx, uint(providerID))
	if err != nil {
		return fmt.Errorf("failed to load provider %d: %w", providerID, err)
	}

	logg.Info("Testing vendor connection", zap.Uint("provider_id", provider.ID))
	result := coordinator.TestConnection(ctx, provider)

	// Pretty Console Output
	fmt.Println("\n--- Connection Test ---")
	fmt.Printf("Provider:   %s (#%d)\n", provider.Name, provider.ID)

	statusColor := "\033[32m" // Green
	status := "OK"
	if !result.Success {
		statusColor = "\033[31m" // Red
		status = "FAIL"
	}
	resetColor := "\033[0m"
	fmt.Printf("Status:     %s%s%s\n", statusColor, status, resetColor)

	if result.Success {
		fmt.Printf("Account:    %s\n", result.AccountName)
		fmt.Printf("Events:     %d\n", result.EventCount)
	} else {
		fmt.Printf("Error:      %s\n", result.Error)
	}
	fmt.Println("-----------------------")

	if !result.Success {
		return fmt.Errorf("connection test failed")
	}
	return nil
}
