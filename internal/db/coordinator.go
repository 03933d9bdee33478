package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goran-ethernal/OwnerScan/internal/logger"
	"github.com/goran-ethernal/OwnerScan/pkg/config"
)

// WriteLocker serializes writes to the shared database.
type WriteLocker interface {
	// AcquireWriteLock blocks until the caller holds the single write lock.
	// Returns an unlock function that must be called when the write completes.
	AcquireWriteLock() func()
}

// WriteCoordinator owns the one lock guarding every write to the shared database.
// Checkpoint advances, owner upserts and maintenance (WAL checkpoint, VACUUM)
// all acquire the same mutex, so at most one of them runs at any time.
type WriteCoordinator struct {
	db     *sql.DB
	dbPath string
	config config.MaintenanceConfig
	log    *logger.Logger

	writeLock sync.Mutex

	// Background maintenance control
	maintenanceCtx    context.Context
	maintenanceCancel context.CancelFunc
	maintenanceWg     sync.WaitGroup

	// Metrics
	metricsLock         sync.Mutex
	lastMaintenanceTime time.Time
	maintenanceCount    uint64
	lastMaintenanceErr  error
}

var _ WriteLocker = (*WriteCoordinator)(nil)

// NewWriteCoordinator creates a write coordinator for the given database.
// A nil maintenance config disables background maintenance; RunMaintenance still works
// with default settings.
func NewWriteCoordinator(
	dbPath string,
	db *sql.DB,
	cfg *config.MaintenanceConfig,
	log *logger.Logger,
) *WriteCoordinator {
	var maintenanceCfg config.MaintenanceConfig
	if cfg != nil {
		maintenanceCfg = *cfg
	}
	maintenanceCfg.ApplyDefaults()

	return newWriteCoordinator(dbPath, db, maintenanceCfg, log)
}

func newWriteCoordinator(
	dbPath string,
	db *sql.DB,
	cfg config.MaintenanceConfig,
	log *logger.Logger,
) *WriteCoordinator {
	return &WriteCoordinator{
		db:     db,
		config: cfg,
		dbPath: dbPath,
		log:    log,
	}
}

// AcquireWriteLock acquires the exclusive write lock.
func (c *WriteCoordinator) AcquireWriteLock() func() {
	start := time.Now()
	c.writeLock.Lock()
	WriteLockWaitLog(time.Since(start))

	return c.writeLock.Unlock
}

// Start begins background maintenance if enabled.
func (c *WriteCoordinator) Start(ctx context.Context) error {
	if !c.config.Enabled {
		c.log.Info("Background maintenance is disabled")
		return nil
	}

	c.maintenanceCtx, c.maintenanceCancel = context.WithCancel(ctx)

	if c.config.VacuumOnStartup {
		c.log.Info("Running startup maintenance")
		if err := c.RunMaintenance(c.maintenanceCtx); err != nil {
			c.log.Warnf("Startup maintenance failed: %v", err)
		}
	}

	c.maintenanceWg.Add(1)
	go c.maintenanceWorker(c.config.CheckInterval.Duration)

	c.log.Infof("Background maintenance started - interval: %v, checkpoint mode: %s",
		c.config.CheckInterval.Duration, c.config.WALCheckpointMode)

	return nil
}

// Stop stops background maintenance and waits for completion.
func (c *WriteCoordinator) Stop() error {
	if c.maintenanceCancel == nil {
		return nil // Not started
	}

	c.log.Info("Stopping background maintenance...")
	c.maintenanceCancel()
	c.maintenanceWg.Wait()
	c.log.Info("Background maintenance stopped")

	return nil
}

func (c *WriteCoordinator) maintenanceWorker(checkInterval time.Duration) {
	defer c.maintenanceWg.Done()

	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.maintenanceCtx.Done():
			return

		case <-ticker.C:
			c.log.Debug("Running periodic maintenance")
			if err := c.RunMaintenance(c.maintenanceCtx); err != nil {
				c.log.Warnf("Periodic maintenance failed: %v", err)
			}
		}
	}
}

// RunMaintenance performs a WAL checkpoint followed by VACUUM while holding the write lock.
func (c *WriteCoordinator) RunMaintenance(ctx context.Context) error {
	c.log.Info("Starting database maintenance")
	start := time.Now().UTC()

	MaintenanceRunsInc()

	unlock := c.AcquireWriteLock()
	defer unlock()

	// Context may have been cancelled while waiting for the lock
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var maintenanceErr error

	initialDBSize, err := DBTotalSize(c.dbPath)
	if err != nil {
		c.log.Warnf("Failed to get initial DB size: %v", err)
	}

	if err := c.walCheckpoint(); err != nil {
		c.log.Errorf("WAL checkpoint failed: %v", err)
		maintenanceErr = fmt.Errorf("WAL checkpoint failed: %w", err)
	}

	if err := c.vacuum(); err != nil {
		c.log.Warnf("VACUUM failed: %v", err)
		if maintenanceErr == nil {
			maintenanceErr = fmt.Errorf("VACUUM failed: %w", err)
		}
	}

	finalDBSize, err := DBTotalSize(c.dbPath)
	if err != nil {
		c.log.Warnf("Failed to get final DB size: %v", err)
	}

	duration := time.Since(start)

	c.metricsLock.Lock()
	c.lastMaintenanceTime = time.Now().UTC()
	c.maintenanceCount++
	c.lastMaintenanceErr = maintenanceErr
	c.metricsLock.Unlock()

	MaintenanceDurationLog(duration)
	MaintenanceLastRunLog()

	if maintenanceErr != nil {
		MaintenanceErrorInc()
		c.log.Warnf("Maintenance completed with errors in %v: %v", duration, maintenanceErr)
		return maintenanceErr
	}

	MaintenanceSuccessInc()
	c.log.Infof("Maintenance completed successfully in %v.", duration)

	if initialDBSize > finalDBSize {
		spaceReclaimed := uint64(initialDBSize - finalDBSize)
		MaintenanceSpaceReclaimedLog(spaceReclaimed)
		c.log.Infof("Maintenance reclaimed %d bytes", spaceReclaimed)
	}

	DBSizeLog(finalDBSize)

	return nil
}

func (c *WriteCoordinator) walCheckpoint() error {
	isWAL, err := c.isWALMode()
	if err != nil {
		return fmt.Errorf("failed to check journal mode: %w", err)
	}

	if !isWAL {
		c.log.Debug("Database not in WAL mode, skipping WAL checkpoint")
		return nil
	}

	checkpointSQL := fmt.Sprintf("PRAGMA wal_checkpoint(%s)", c.config.WALCheckpointMode)
	c.log.Debugf("Running: %s", checkpointSQL)

	var busyCount, logFrames, checkpointedFrames int
	err = c.db.QueryRow(checkpointSQL).Scan(&busyCount, &logFrames, &checkpointedFrames)
	if err != nil {
		return fmt.Errorf("failed to execute WAL checkpoint: %w", err)
	}

	c.log.Infof("WAL checkpoint complete - mode: %s, busy: %d, log_frames: %d, checkpointed: %d",
		c.config.WALCheckpointMode, busyCount, logFrames, checkpointedFrames)

	WALCheckpointInc(strings.ToLower(c.config.WALCheckpointMode))

	if busyCount > 0 {
		c.log.Warnf("WAL checkpoint encountered %d busy pages (some pages not checkpointed)", busyCount)
	}

	return nil
}

func (c *WriteCoordinator) vacuum() error {
	c.log.Debug("Running VACUUM")

	if err := Vacuum(c.db); err != nil {
		if strings.Contains(err.Error(), "database is locked") {
			return fmt.Errorf("cannot vacuum: database is locked (retry later)")
		}
		return err
	}

	VacuumRunsInc()
	c.log.Info("VACUUM completed successfully")
	return nil
}

func (c *WriteCoordinator) isWALMode() (bool, error) {
	var mode string
	if err := c.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		return false, err
	}
	return strings.EqualFold(mode, "wal"), nil
}

// GetMetrics returns current maintenance metrics.
func (c *WriteCoordinator) GetMetrics() MaintenanceMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	return MaintenanceMetrics{
		LastMaintenanceTime:  c.lastMaintenanceTime,
		MaintenanceCount:     c.maintenanceCount,
		LastMaintenanceError: c.lastMaintenanceErr,
	}
}

// MaintenanceMetrics provides visibility into maintenance operations.
type MaintenanceMetrics struct {
	LastMaintenanceTime  time.Time
	MaintenanceCount     uint64
	LastMaintenanceError error
}
