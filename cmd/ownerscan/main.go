package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goran-ethernal/OwnerScan/internal/common"
	"github.com/goran-ethernal/OwnerScan/internal/config"
	"github.com/goran-ethernal/OwnerScan/internal/db"
	"github.com/goran-ethernal/OwnerScan/internal/logger"
	"github.com/goran-ethernal/OwnerScan/internal/metrics"
	"github.com/goran-ethernal/OwnerScan/internal/orchestrator"
	"github.com/goran-ethernal/OwnerScan/internal/store"
	"github.com/goran-ethernal/OwnerScan/pkg/api"
	pkgconfig "github.com/goran-ethernal/OwnerScan/pkg/config"
	"github.com/spf13/cobra"
)

const (
	version = "1.0.0"
	banner  = `
╔═══════════════════════════════════════════╗
║            OwnerScan v%s               ║
║     Safe Owner Discovery Across Chains    ║
╚═══════════════════════════════════════════╝
`
)

var (
	configPath string
	strict     bool
	serve      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ownerscan",
	Short: "OwnerScan - Safe owner discovery across EVM networks",
	Long: `OwnerScan scans the block history of several EVM networks concurrently,
decodes Safe proxy deployments and their setup events and stores the unique
owner addresses of every network in a shared SQLite database. Scans resume
from the last persisted checkpoint.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runScan,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scan every configured network up to its end block",
	RunE:  runScan,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")

	for _, cmd := range []*cobra.Command{rootCmd, runCmd} {
		cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when any network fails")
		cmd.Flags().BoolVar(&serve, "serve", false, "keep serving the API after the scan finished")
	}

	rootCmd.AddCommand(runCmd, statsCmd, schemaCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf(banner, version)

	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.NewComponentLoggerFromConfig(common.ComponentOrchestrator, cfg.Logging)

	metricsServer := metrics.NewServer(cfg.Metrics, log)
	if err := metricsServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}
	defer func() {
		if err := metricsServer.Stop(context.Background()); err != nil {
			log.Warnf("Failed to stop metrics server: %v", err)
		}
	}()

	database, coordinator, st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := coordinator.Start(ctx); err != nil {
		return fmt.Errorf("failed to start database maintenance: %w", err)
	}
	defer func() {
		if err := coordinator.Stop(); err != nil {
			log.Warnf("Failed to stop database maintenance: %v", err)
		}
	}()

	apiDone := make(chan struct{})
	if cfg.API != nil && cfg.API.Enabled {
		apiServer := api.NewServer(
			cfg.API,
			st.Owners(),
			logger.NewComponentLoggerFromConfig(common.ComponentAPI, cfg.Logging),
		)
		go func() {
			defer close(apiDone)
			if err := apiServer.Start(ctx); err != nil {
				log.Errorf("API server error: %v", err)
			}
		}()
	} else {
		close(apiDone)
	}

	orch, err := orchestrator.New(cfg, st, log)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	log.Infof("Scanning %d network(s)...", len(cfg.Networks))
	results := orch.Run(ctx)
	printResults(cmd, results)

	interrupted := ctx.Err() != nil
	if serve && !interrupted {
		log.Info("Scan finished, serving API until interrupted")
		<-ctx.Done()
	}
	stop()
	<-apiDone

	if err := orchestrator.Err(results); err != nil && strict && !interrupted {
		return err
	}

	log.Info("OwnerScan stopped")
	return nil
}

// openStore opens the shared database and runs the schema migration.
func openStore(
	ctx context.Context,
	cfg *pkgconfig.Config,
) (*sql.DB, *db.WriteCoordinator, *store.Store, error) {
	database, err := db.NewSQLiteDBFromConfig(cfg.DB)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	coordinator := db.NewWriteCoordinator(
		cfg.DB.Path,
		database,
		cfg.Maintenance,
		logger.NewComponentLoggerFromConfig(common.ComponentMaintenance, cfg.Logging),
	)

	st, err := store.New(
		ctx,
		database,
		coordinator,
		logger.NewComponentLoggerFromConfig(common.ComponentStore, cfg.Logging),
	)
	if err != nil {
		database.Close()
		return nil, nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	return database, coordinator, st, nil
}

func printResults(cmd *cobra.Command, results []orchestrator.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "\nScan results:")
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(out, "  ✗ %-16s %v\n", r.Network, r.Err)
		case r.Summary != nil:
			fmt.Fprintf(out, "  ✓ %-16s checkpoint %d, %d deployment(s), %d new owner(s), %d skip(s) in %s\n",
				r.Network, r.Summary.Checkpoint, r.Summary.Deployments, r.Summary.Inserted,
				r.Summary.SkipCount(), r.Duration.Round(time.Millisecond))
		}
	}
}
