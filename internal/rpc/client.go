package rpc

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/goran-ethernal/OwnerScan/internal/logger"
	"github.com/goran-ethernal/OwnerScan/pkg/config"
	pkgrpc "github.com/goran-ethernal/OwnerScan/pkg/rpc"
)

const (
	methodGetLogs        = "eth_getLogs"
	methodBlockNumber    = "eth_blockNumber"
	methodGetBlockHeader = "eth_getBlockByNumber"
)

// Compile-time check to ensure Client implements pkgrpc.EthClient interface.
var _ pkgrpc.EthClient = (*Client)(nil)

// Client wraps the Ethereum RPC client with retries, metrics and head resolution.
// It implements the pkgrpc.EthClient interface.
type Client struct {
	eth *ethclient.Client
	rpc *rpc.Client

	retry                 *config.RetryConfig
	extendedHeaderSupport bool
	log                   *logger.Logger
}

// NewClient creates a new RPC client connected to the given endpoint.
// A nil retry config executes every call exactly once.
func NewClient(
	ctx context.Context,
	endpoint string,
	retry *config.RetryConfig,
	extendedHeaderSupport bool,
	log *logger.Logger,
) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", endpoint, err)
	}

	return newClient(rpcClient, retry, extendedHeaderSupport, log), nil
}

// NewClientFromConfig creates a client for a configured network.
func NewClientFromConfig(
	ctx context.Context,
	network config.NetworkConfig,
	retry *config.RetryConfig,
	log *logger.Logger,
) (*Client, error) {
	return NewClient(ctx, network.RPCURL, retry, network.ExtendedHeaderSupport, log)
}

func newClient(rpcClient *rpc.Client, retry *config.RetryConfig, extendedHeaderSupport bool,
	log *logger.Logger) *Client {
	return &Client{
		eth:                   ethclient.NewClient(rpcClient),
		rpc:                   rpcClient,
		retry:                 retry,
		extendedHeaderSupport: extendedHeaderSupport,
		log:                   log,
	}
}

// Close closes the RPC client connection.
func (c *Client) Close() {
	c.eth.Close()
}

// GetLogs retrieves logs matching the given filter query.
// Failures are returned as *FetchError carrying the queried range.
func (c *Client) GetLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	var logs []types.Log

	err := c.call(ctx, methodGetLogs, func() error {
		var err error
		logs, err = c.eth.FilterLogs(ctx, query)
		return err
	})
	if err != nil {
		fetchErr := &FetchError{Method: methodGetLogs, Err: err}
		if query.FromBlock != nil {
			fetchErr.FromBlock = query.FromBlock.Uint64()
		}
		if query.ToBlock != nil {
			fetchErr.ToBlock = query.ToBlock.Uint64()
		}
		return nil, fetchErr
	}

	return logs, nil
}

// LatestBlockNumber returns the number of the current chain head.
// Chains with extended header support resolve it with eth_blockNumber, since their
// headers carry extra data that the standard header decoder rejects.
func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	if c.extendedHeaderSupport {
		var head uint64
		err := c.call(ctx, methodBlockNumber, func() error {
			var err error
			head, err = c.eth.BlockNumber(ctx)
			return err
		})
		if err != nil {
			return 0, &FetchError{Method: methodBlockNumber, Err: err}
		}
		return head, nil
	}

	var header *types.Header
	err := c.call(ctx, methodGetBlockHeader, func() error {
		var err error
		header, err = c.eth.HeaderByNumber(ctx, nil)
		return err
	})
	if err != nil {
		return 0, &FetchError{Method: methodGetBlockHeader, Err: err}
	}

	return header.Number.Uint64(), nil
}

// call runs one RPC method with retries and records its metrics.
func (c *Client) call(ctx context.Context, method string, fn func() error) error {
	start := time.Now()

	err := retryWithBackoff(ctx, c.retry, method, func() error {
		RPCMethodInc(method)

		err := fn()
		if err != nil {
			RPCMethodError(method, errorType(err))
			c.log.Debugw("rpc call failed", "method", method, "error", err)
		}
		return err
	})

	RPCMethodDuration(method, time.Since(start))
	return err
}

// toBlockNumArg converts a block number to hex format.
func toBlockNumArg(blockNum uint64) string {
	return fmt.Sprintf("0x%x", blockNum)
}
