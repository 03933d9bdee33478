// Package eventtest builds ProxyCreation and SafeSetup logs for tests.
package eventtest

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/OwnerScan/internal/events"
)

// Singleton is the Safe L2 singleton used by default in fixtures.
var Singleton = common.HexToAddress("0x3E5c63644E683549055b9Be8653de26E0B4CD36E")

// ProxyCreationLog builds a ProxyCreation log with the proxy indexed (factory v1.4.x layout).
func ProxyCreationLog(factory, proxy common.Address, block uint64) types.Log {
	return types.Log{
		Address:     factory,
		Topics:      []common.Hash{events.ProxyCreationTopic, common.BytesToHash(proxy.Bytes())},
		Data:        common.LeftPadBytes(Singleton.Bytes(), 32),
		BlockNumber: block,
		TxHash:      txHash(proxy, block),
	}
}

// LegacyProxyCreationLog builds a ProxyCreation log with the proxy in data (factory v1.3.0 layout).
func LegacyProxyCreationLog(factory, proxy common.Address, block uint64) types.Log {
	data := append(common.LeftPadBytes(proxy.Bytes(), 32), common.LeftPadBytes(Singleton.Bytes(), 32)...)

	return types.Log{
		Address:     factory,
		Topics:      []common.Hash{events.ProxyCreationTopic},
		Data:        data,
		BlockNumber: block,
		TxHash:      txHash(proxy, block),
	}
}

// SafeSetupLog builds a SafeSetup log emitted by proxy.
func SafeSetupLog(proxy common.Address, owners []common.Address, threshold int64, block uint64) types.Log {
	return types.Log{
		Address:     proxy,
		Topics:      []common.Hash{events.SafeSetupTopic, common.BytesToHash(proxy.Bytes())},
		Data:        SafeSetupData(owners, big.NewInt(threshold), common.Address{}, common.Address{}),
		BlockNumber: block,
		TxHash:      txHash(proxy, block),
	}
}

// SafeSetupData ABI-encodes the SafeSetup data section.
func SafeSetupData(owners []common.Address, threshold *big.Int, initializer, fallbackHandler common.Address) []byte {
	addressArray, _ := abi.NewType("address[]", "", nil)
	uint256, _ := abi.NewType("uint256", "", nil)
	address, _ := abi.NewType("address", "", nil)

	args := abi.Arguments{{Type: addressArray}, {Type: uint256}, {Type: address}, {Type: address}}

	data, err := args.Pack(owners, threshold, initializer, fallbackHandler)
	if err != nil {
		panic(err)
	}
	return data
}

func txHash(proxy common.Address, block uint64) common.Hash {
	return common.BigToHash(new(big.Int).Add(new(big.Int).SetBytes(proxy.Bytes()), new(big.Int).SetUint64(block)))
}
