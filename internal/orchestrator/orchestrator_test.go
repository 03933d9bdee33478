package orchestrator

import (
	"context"
	"errors"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/OwnerScan/internal/db"
	"github.com/goran-ethernal/OwnerScan/internal/events"
	"github.com/goran-ethernal/OwnerScan/internal/events/eventtest"
	"github.com/goran-ethernal/OwnerScan/internal/logger"
	"github.com/goran-ethernal/OwnerScan/internal/rpc/mocks"
	"github.com/goran-ethernal/OwnerScan/internal/scanner"
	"github.com/goran-ethernal/OwnerScan/internal/store"
	"github.com/goran-ethernal/OwnerScan/pkg/config"
	pkgrpc "github.com/goran-ethernal/OwnerScan/pkg/rpc"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var factory = common.HexToAddress("0x4e1DCf7AD4e460CfD30791CCC4F9c8a4f820ec67")

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	dbConfig := config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "owners.db")}
	dbConfig.ApplyDefaults()

	sqlDB, err := db.NewSQLiteDBFromConfig(dbConfig)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	log := logger.NewNopLogger()
	s, err := store.New(context.Background(), sqlDB, db.NewWriteCoordinator(dbConfig.Path, sqlDB, nil, log), log)
	require.NoError(t, err)

	return s
}

func newTestConfig(networks ...string) *config.Config {
	cfg := &config.Config{Networks: make(map[string]config.NetworkConfig)}
	for _, name := range networks {
		cfg.Networks[name] = config.NetworkConfig{RPCURL: "http://" + name + ".local:8545", Step: 100}
	}
	cfg.ApplyDefaults()
	cfg.Logging.DefaultLevel = "error"
	return cfg
}

func addr(i int) common.Address {
	return common.BigToAddress(big.NewInt(int64(i) + 5000))
}

// chainClient returns a mock chain with head and one configured Safe per entry of owners.
func chainClient(t *testing.T, head uint64, owners ...[]common.Address) *mocks.EthClient {
	t.Helper()

	var deployments, setups []types.Log
	for i, safeOwners := range owners {
		proxy := addr(1000 + i)
		block := uint64(i * 10)
		deployments = append(deployments, eventtest.ProxyCreationLog(factory, proxy, block))
		setups = append(setups, eventtest.SafeSetupLog(proxy, safeOwners, 1, block))
	}

	client := mocks.NewEthClient(t)
	client.EXPECT().LatestBlockNumber(mock.Anything).Return(head, nil)
	client.EXPECT().GetLogs(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
			source := deployments
			if q.Topics[0][0] == events.SafeSetupTopic {
				source = setups
			}

			var logs []types.Log
			for _, l := range source {
				if l.BlockNumber < q.FromBlock.Uint64() || l.BlockNumber > q.ToBlock.Uint64() {
					continue
				}
				if len(q.Addresses) > 0 && q.Addresses[0] != l.Address {
					continue
				}
				logs = append(logs, l)
			}
			return logs, nil
		}).Maybe()
	client.EXPECT().Close().Return()

	return client
}

func clientsByNetwork(clients map[string]pkgrpc.EthClient, errs map[string]error) ClientFactory {
	return func(_ context.Context, network string, _ config.NetworkConfig) (pkgrpc.EthClient, error) {
		if err, ok := errs[network]; ok {
			return nil, err
		}
		return clients[network], nil
	}
}

func TestNew_Validation(t *testing.T) {
	st := newTestStore(t)
	log := logger.NewNopLogger()

	_, err := New(nil, st, log)
	require.Error(t, err)

	_, err = New(&config.Config{}, st, log)
	require.Error(t, err)

	_, err = New(newTestConfig("ethereum"), nil, log)
	require.Error(t, err)

	_, err = New(newTestConfig("ethereum"), st, nil)
	require.Error(t, err)

	o, err := New(newTestConfig("ethereum"), st, log)
	require.NoError(t, err)
	require.NotNil(t, o.newClient)
}

func TestOrchestrator_Run_ConcurrentNetworks(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	shared := addr(1)
	clients := map[string]pkgrpc.EthClient{
		"ethereum": chainClient(t, 150, []common.Address{shared, addr(2)}, []common.Address{addr(3)}),
		"gnosis":   chainClient(t, 250, []common.Address{shared}),
		"polygon":  chainClient(t, 99),
	}

	o, err := New(newTestConfig("polygon", "gnosis", "ethereum"), st, logger.NewNopLogger(),
		WithClientFactory(clientsByNetwork(clients, nil)))
	require.NoError(t, err)

	results := o.Run(ctx)
	require.NoError(t, Err(results))
	require.Len(t, results, 3)

	require.Equal(t, "ethereum", results[0].Network)
	require.Equal(t, "gnosis", results[1].Network)
	require.Equal(t, "polygon", results[2].Network)

	require.Equal(t, uint64(151), results[0].Summary.Checkpoint)
	require.Equal(t, 3, results[0].Summary.Inserted)
	require.Equal(t, uint64(251), results[1].Summary.Checkpoint)
	require.Equal(t, 1, results[1].Summary.Inserted)
	require.Equal(t, uint64(100), results[2].Summary.Checkpoint)
	require.Zero(t, results[2].Summary.Inserted)

	unique, err := st.Owners().CountUnique(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), unique)

	stats, err := st.Owners().CountByNetwork(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 3)
	require.Equal(t, int64(3), stats[0].Owners)
	require.Equal(t, int64(1), stats[1].Owners)
	require.Equal(t, int64(0), stats[2].Owners)
}

func TestOrchestrator_Run_FailureIsolation(t *testing.T) {
	st := newTestStore(t)
	errDial := errors.New("connection refused")

	panicking := mocks.NewEthClient(t)
	panicking.EXPECT().LatestBlockNumber(mock.Anything).RunAndReturn(func(context.Context) (uint64, error) {
		panic("header decoding failed")
	})
	panicking.EXPECT().Close().Return()

	headless := mocks.NewEthClient(t)
	headless.EXPECT().LatestBlockNumber(mock.Anything).Return(uint64(0), errors.New("rate limited"))
	headless.EXPECT().Close().Return()

	clients := map[string]pkgrpc.EthClient{
		"arbitrum": chainClient(t, 150, []common.Address{addr(1)}),
		"ethereum": panicking,
		"polygon":  headless,
	}

	o, err := New(newTestConfig("arbitrum", "ethereum", "gnosis", "polygon"), st, logger.NewNopLogger(),
		WithClientFactory(clientsByNetwork(clients, map[string]error{"gnosis": errDial})))
	require.NoError(t, err)

	results := o.Run(context.Background())
	require.Len(t, results, 4)

	// healthy sibling completes
	require.False(t, results[0].Failed())
	require.Equal(t, 1, results[0].Summary.Inserted)

	var panicErr *PanicError
	require.ErrorAs(t, results[1].Err, &panicErr)
	require.Equal(t, "ethereum", panicErr.Network)
	require.Equal(t, "header decoding failed", panicErr.Value)
	require.NotEmpty(t, panicErr.Stack)

	var setupErr *scanner.SetupError
	require.ErrorAs(t, results[2].Err, &setupErr)
	require.Equal(t, "connect", setupErr.Stage)
	require.ErrorIs(t, results[2].Err, errDial)

	require.ErrorAs(t, results[3].Err, &setupErr)
	require.Equal(t, "polygon", setupErr.Network)

	err = Err(results)
	require.Error(t, err)
	require.ErrorIs(t, err, errDial)
	require.Contains(t, err.Error(), "ethereum:")
	require.NotContains(t, err.Error(), "arbitrum")
}

func TestOrchestrator_Run_Cancelled(t *testing.T) {
	st := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := mocks.NewEthClient(t)
	client.EXPECT().LatestBlockNumber(mock.Anything).Return(uint64(1000), nil).Maybe()
	client.EXPECT().Close().Return()

	o, err := New(newTestConfig("ethereum"), st, logger.NewNopLogger(),
		WithClientFactory(clientsByNetwork(map[string]pkgrpc.EthClient{"ethereum": client}, nil)))
	require.NoError(t, err)

	results := o.Run(ctx)
	require.Len(t, results, 1)
	require.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestOrchestrator_ScannerOptions(t *testing.T) {
	st := newTestStore(t)

	var windows int
	o, err := New(newTestConfig("ethereum"), st, logger.NewNopLogger(),
		WithClientFactory(clientsByNetwork(map[string]pkgrpc.EthClient{"ethereum": chainClient(t, 250)}, nil)),
		WithScannerOptions(scanner.WithReportHandler(func(scanner.WindowReport) { windows++ })))
	require.NoError(t, err)

	require.NoError(t, Err(o.Run(context.Background())))
	require.Equal(t, 3, windows)
}
