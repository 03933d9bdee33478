package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/goran-ethernal/OwnerScan/internal/common"
	"github.com/goran-ethernal/OwnerScan/internal/logger"
	"github.com/goran-ethernal/OwnerScan/internal/metrics"
	"github.com/goran-ethernal/OwnerScan/internal/rpc"
	"github.com/goran-ethernal/OwnerScan/internal/scanner"
	"github.com/goran-ethernal/OwnerScan/internal/store"
	"github.com/goran-ethernal/OwnerScan/pkg/config"
	pkgrpc "github.com/goran-ethernal/OwnerScan/pkg/rpc"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ClientFactory opens the RPC client of a network.
type ClientFactory func(ctx context.Context, network string, cfg config.NetworkConfig) (pkgrpc.EthClient, error)

// Result is the outcome of one network task.
type Result struct {
	Network  string
	Summary  *scanner.Summary
	Err      error
	Duration time.Duration
}

// Failed reports whether the task ended with an error or a panic.
func (r Result) Failed() bool {
	return r.Err != nil
}

// PanicError is a recovered panic of a network task.
type PanicError struct {
	Network string
	Value   any
	Stack   []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("network %s panicked: %v", e.Network, e.Value)
}

// Orchestrator runs one scanner per configured network concurrently.
type Orchestrator struct {
	cfg       *config.Config
	store     *store.Store
	newClient ClientFactory
	log       *logger.Logger
	scanOpts  []scanner.Option
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClientFactory replaces the RPC client constructor.
func WithClientFactory(factory ClientFactory) Option {
	return func(o *Orchestrator) {
		o.newClient = factory
	}
}

// WithScannerOptions passes options to every scanner.
func WithScannerOptions(opts ...scanner.Option) Option {
	return func(o *Orchestrator) {
		o.scanOpts = append(o.scanOpts, opts...)
	}
}

// New creates an orchestrator for every network in cfg.
func New(cfg *config.Config, st *store.Store, log *logger.Logger, opts ...Option) (*Orchestrator, error) {
	if cfg == nil || len(cfg.Networks) == 0 {
		return nil, errors.New("at least one network is required")
	}
	if st == nil {
		return nil, errors.New("store is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}

	o := &Orchestrator{
		cfg:   cfg,
		store: st,
		log:   log,
	}
	o.newClient = o.dialNetwork

	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// Run scans every network concurrently and blocks until all tasks are done.
// A failing or panicking task never cancels its siblings. Results are ordered by
// network name.
func (o *Orchestrator) Run(ctx context.Context) []Result {
	runID := uuid.NewString()
	log := o.log.WithFields("run_id", runID)

	networks := o.cfg.NetworkNames()
	results := make([]Result, len(networks))

	log.Infow("run started", "networks", networks)
	start := time.Now()

	var g errgroup.Group
	for i, network := range networks {
		log.Infow("starting network", "network", network)

		g.Go(func() error {
			results[i] = o.runNetwork(ctx, runID, network, log)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}

	log.Infow("run finished", "networks", len(networks), "failed", failed, "duration", time.Since(start))

	return results
}

// runNetwork scans one network, converting a panic into the task's error.
func (o *Orchestrator) runNetwork(ctx context.Context, runID, network string, log *logger.Logger) (result Result) {
	start := time.Now()
	result.Network = network
	log = log.WithFields("network", network)

	defer func() {
		if r := recover(); r != nil {
			result.Err = &PanicError{Network: network, Value: r, Stack: debug.Stack()}
		}
		result.Duration = time.Since(start)

		metrics.NetworkHealthSet(network, result.Err == nil)
		switch {
		case result.Err == nil:
			log.Infow("network finished", "duration", result.Duration)
		case errors.Is(result.Err, context.Canceled):
			log.Infow("network stopped", "error", result.Err)
		default:
			metrics.ErrorInc(common.ComponentOrchestrator, "error")
			log.Errorw("network failed", "error", result.Err, "duration", result.Duration)
		}
	}()

	metrics.NetworkHealthSet(network, true)

	cfg := o.cfg.Networks[network]

	client, err := o.newClient(ctx, network, cfg)
	if err != nil {
		result.Err = &scanner.SetupError{Network: network, Stage: "connect", Err: err}
		return result
	}
	defer client.Close()

	s, err := scanner.New(
		network,
		cfg,
		client,
		o.store.Checkpoints(),
		o.store.Owners(),
		logger.NewComponentLoggerFromConfig(common.ComponentScanner, o.cfg.Logging).WithFields("run_id", runID),
		o.scanOpts...,
	)
	if err != nil {
		result.Err = &scanner.SetupError{Network: network, Stage: "create scanner", Err: err}
		return result
	}

	result.Summary, result.Err = s.Run(ctx)

	return result
}

func (o *Orchestrator) dialNetwork(ctx context.Context, network string, cfg config.NetworkConfig) (pkgrpc.EthClient, error) {
	rpcLog := logger.NewComponentLoggerFromConfig(common.ComponentRPC, o.cfg.Logging).WithFields("network", network)
	client, err := rpc.NewClientFromConfig(ctx, cfg, o.cfg.Retry, rpcLog)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Err joins the errors of all failed results, or returns nil.
func Err(results []Result) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Network, r.Err))
		}
	}
	return errors.Join(errs...)
}
