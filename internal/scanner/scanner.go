package scanner

import (
	"context"
	"errors"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/goran-ethernal/OwnerScan/internal/events"
	"github.com/goran-ethernal/OwnerScan/internal/logger"
	"github.com/goran-ethernal/OwnerScan/internal/metrics"
	"github.com/goran-ethernal/OwnerScan/pkg/config"
	"github.com/goran-ethernal/OwnerScan/pkg/rpc"
)

// State is the lifecycle state of a scanner.
type State int32

const (
	StateInit State = iota
	StateScanning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateScanning:
		return "scanning"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// CheckpointStore persists the next block to scan per network.
type CheckpointStore interface {
	Read(ctx context.Context, network, displayName string, origin uint64) (uint64, error)
	Advance(ctx context.Context, network string, next uint64) error
}

// OwnerRepository stores owner addresses per network.
type OwnerRepository interface {
	Upsert(ctx context.Context, network string, owners []common.Address) (int, error)
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithReportHandler registers fn to receive the report of every completed window.
func WithReportHandler(fn func(WindowReport)) Option {
	return func(s *Scanner) {
		s.onWindow = fn
	}
}

// Scanner walks the block range of one network in fixed-size windows, decodes Safe
// deployments and their configuration and stores the owners.
type Scanner struct {
	network     string
	cfg         config.NetworkConfig
	client      rpc.EthClient
	checkpoints CheckpointStore
	owners      OwnerRepository
	log         *logger.Logger
	onWindow    func(WindowReport)

	state atomic.Int32
}

// New creates a scanner for the named network.
func New(
	network string,
	cfg config.NetworkConfig,
	client rpc.EthClient,
	checkpoints CheckpointStore,
	owners OwnerRepository,
	log *logger.Logger,
	opts ...Option,
) (*Scanner, error) {
	if network == "" {
		return nil, errors.New("network name is required")
	}
	if client == nil {
		return nil, errors.New("RPC client is required")
	}
	if checkpoints == nil || owners == nil {
		return nil, errors.New("store is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}

	cfg.ApplyDefaults(network)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Scanner{
		network:     network,
		cfg:         cfg,
		client:      client,
		checkpoints: checkpoints,
		owners:      owners,
		log:         log.WithFields("network", network),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Network returns the network name.
func (s *Scanner) Network() string {
	return s.network
}

// State returns the current lifecycle state.
func (s *Scanner) State() State {
	return State(s.state.Load())
}

// Run scans from the stored checkpoint up to the configured end block.
// The context is checked between windows; a window that has been fetched is always
// completed, so the checkpoint only ever covers fully processed windows.
// Fetch and decode failures are skipped. Setup and store failures are returned.
func (s *Scanner) Run(ctx context.Context) (*Summary, error) {
	s.state.Store(int32(StateInit))

	origin, err := s.checkpoints.Read(ctx, s.network, s.cfg.DisplayName, s.cfg.StartBlock)
	if err != nil {
		return nil, &SetupError{Network: s.network, Stage: "read checkpoint", Err: err}
	}

	target, err := s.resolveTarget(ctx)
	if err != nil {
		return nil, &SetupError{Network: s.network, Stage: "resolve target block", Err: err}
	}

	summary := &Summary{
		Network:    s.network,
		Origin:     origin,
		Target:     target,
		Checkpoint: origin,
		Skips:      make(map[SkipReason]int),
	}

	metrics.CheckpointSet(s.network, origin)
	metrics.TargetBlockSet(s.network, target)

	if origin > target {
		s.log.Infow("nothing to scan", "checkpoint", origin, "target", target)
		s.state.Store(int32(StateFinished))
		return summary, nil
	}

	s.log.Infow("scan started", "from", origin, "target", target, "step", s.cfg.Step)
	s.state.Store(int32(StateScanning))

	for from := origin; from <= target; {
		if err := ctx.Err(); err != nil {
			s.log.Infow("scan cancelled", "checkpoint", from)
			return summary, err
		}

		to := windowEnd(from, s.cfg.Step, target)

		report, err := s.scanWindow(ctx, from, to)
		if err != nil {
			return summary, err
		}

		summary.add(report)
		summary.Checkpoint = to + 1

		if s.onWindow != nil {
			s.onWindow(*report)
		}

		if to == target {
			break
		}
		from = to + 1
	}

	s.state.Store(int32(StateFinished))
	s.log.Infow("scan finished",
		"checkpoint", summary.Checkpoint,
		"windows", summary.Windows,
		"deployments", summary.Deployments,
		"owners_inserted", summary.Inserted,
		"skips", summary.SkipCount(),
	)

	return summary, nil
}

func (s *Scanner) resolveTarget(ctx context.Context) (uint64, error) {
	if s.cfg.EndBlock != nil && !s.cfg.EndBlock.Latest {
		return s.cfg.EndBlock.Number, nil
	}

	return s.client.LatestBlockNumber(ctx)
}

// scanWindow processes [from, to] and advances the checkpoint to to+1.
// It only returns an error when the context is cancelled during a fetch or when
// the store fails.
func (s *Scanner) scanWindow(ctx context.Context, from, to uint64) (*WindowReport, error) {
	start := time.Now()
	report := &WindowReport{From: from, To: to}

	var owners []common.Address

	logs, err := s.client.GetLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Topics:    [][]common.Hash{{events.ProxyCreationTopic}},
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		s.log.Warnw("skipping window, failed to fetch deployments", "from", from, "to", to, "error", err)
		report.skip(SkipFetchFailed, from, common.Address{}, err)
	}

	for _, log := range logs {
		deployment, err := events.DecodeDeployment(log)
		if err != nil {
			s.log.Debugw("skipping malformed deployment log", "block", log.BlockNumber, "error", err)
			report.skip(SkipDecodeFailed, log.BlockNumber, log.Address, err)
			continue
		}
		report.Deployments++

		configuration, err := s.fetchConfiguration(ctx, deployment, report)
		if err != nil {
			return nil, err
		}
		if configuration == nil {
			continue
		}

		report.Configured++
		owners = append(owners, configuration.Owners...)
	}
	report.Owners = len(owners)

	// once fetched, the window is persisted even if the context is cancelled meanwhile
	writeCtx := context.WithoutCancel(ctx)

	inserted, err := s.owners.Upsert(writeCtx, s.network, owners)
	if err != nil {
		return nil, err
	}
	report.Inserted = inserted

	if err := s.checkpoints.Advance(writeCtx, s.network, to+1); err != nil {
		return nil, err
	}

	s.recordWindow(report, time.Since(start))

	return report, nil
}

// fetchConfiguration returns the SafeSetup of a deployment, or nil when it is skipped.
func (s *Scanner) fetchConfiguration(
	ctx context.Context,
	deployment *events.DeploymentEvent,
	report *WindowReport,
) (*events.ConfigurationEvent, error) {
	block := new(big.Int).SetUint64(deployment.BlockNumber)

	logs, err := s.client.GetLogs(ctx, ethereum.FilterQuery{
		FromBlock: block,
		ToBlock:   block,
		Addresses: []common.Address{deployment.Proxy},
		Topics:    [][]common.Hash{{events.SafeSetupTopic}},
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		s.log.Warnw("skipping deployment, failed to fetch configuration",
			"block", deployment.BlockNumber, "proxy", deployment.Proxy.Hex(), "error", err)
		report.skip(SkipFetchFailed, deployment.BlockNumber, deployment.Proxy, err)
		return nil, nil
	}

	if len(logs) == 0 {
		s.log.Debugw("deployment has no configuration", "block", deployment.BlockNumber, "proxy", deployment.Proxy.Hex())
		report.skip(SkipNotConfigured, deployment.BlockNumber, deployment.Proxy, nil)
		return nil, nil
	}

	configuration, err := events.DecodeConfiguration(logs[0])
	if err != nil {
		s.log.Debugw("skipping malformed configuration log",
			"block", deployment.BlockNumber, "proxy", deployment.Proxy.Hex(), "error", err)
		report.skip(SkipDecodeFailed, deployment.BlockNumber, deployment.Proxy, err)
		return nil, nil
	}

	return configuration, nil
}

func (s *Scanner) recordWindow(report *WindowReport, duration time.Duration) {
	metrics.WindowScanned(s.network, report.To-report.From+1, duration)
	metrics.DeploymentsFoundInc(s.network, report.Deployments)
	metrics.OwnersInsertedInc(s.network, report.Inserted)
	metrics.CheckpointSet(s.network, report.To+1)
	for _, skip := range report.Skips {
		metrics.SkipInc(s.network, string(skip.Reason))
	}

	s.log.Infow("window scanned",
		"from", report.From,
		"to", report.To,
		"deployments", report.Deployments,
		"owners", report.Owners,
		"inserted", report.Inserted,
		"skips", len(report.Skips),
		"duration", duration,
	)
}

// windowEnd returns min(from+step-1, target) without overflowing.
func windowEnd(from, step, target uint64) uint64 {
	if target-from < step {
		return target
	}
	return from + step - 1
}
