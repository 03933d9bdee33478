package events

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const (
	wordSize = 32

	proxyCreationEvent = "ProxyCreation"
	safeSetupEvent     = "SafeSetup"
)

// safeSetupData holds the ABI layout of the SafeSetup data section:
// (address[] owners, uint256 threshold, address initializer, address fallbackHandler)
var safeSetupData = mustDataArguments(SafeSetupSignature)

// DeploymentEvent is a decoded ProxyCreation log.
type DeploymentEvent struct {
	Proxy       common.Address
	Singleton   common.Address
	Factory     common.Address
	BlockNumber uint64
	TxHash      common.Hash
	LogIndex    uint
}

// ConfigurationEvent is a decoded SafeSetup log.
type ConfigurationEvent struct {
	Proxy           common.Address
	Initiator       common.Address
	Owners          []common.Address
	Threshold       *big.Int
	Initializer     common.Address
	FallbackHandler common.Address
	BlockNumber     uint64
	TxHash          common.Hash
}

// DecodeDeployment decodes a ProxyCreation log.
// Both factory layouts are accepted: the indexed proxy (2 topics, 32 data bytes)
// and the legacy non-indexed proxy (1 topic, 64 data bytes).
func DecodeDeployment(log types.Log) (*DeploymentEvent, error) {
	if len(log.Topics) == 0 || log.Topics[0] != ProxyCreationTopic {
		return nil, newDecodeError(proxyCreationEvent, log, "unexpected topic0", nil)
	}

	event := &DeploymentEvent{
		Factory:     log.Address,
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash,
		LogIndex:    log.Index,
	}

	var err error
	switch {
	case len(log.Topics) == 2 && len(log.Data) == wordSize:
		if event.Proxy, err = wordToAddress(log.Topics[1].Bytes()); err != nil {
			return nil, newDecodeError(proxyCreationEvent, log, "invalid proxy topic", err)
		}
		if event.Singleton, err = wordToAddress(log.Data); err != nil {
			return nil, newDecodeError(proxyCreationEvent, log, "invalid singleton", err)
		}

	case len(log.Topics) == 1 && len(log.Data) == 2*wordSize:
		if event.Proxy, err = wordToAddress(log.Data[:wordSize]); err != nil {
			return nil, newDecodeError(proxyCreationEvent, log, "invalid proxy", err)
		}
		if event.Singleton, err = wordToAddress(log.Data[wordSize:]); err != nil {
			return nil, newDecodeError(proxyCreationEvent, log, "invalid singleton", err)
		}

	default:
		return nil, newDecodeError(proxyCreationEvent, log,
			fmt.Sprintf("unexpected layout: %d topics, %d data bytes", len(log.Topics), len(log.Data)), nil)
	}

	return event, nil
}

// DecodeConfiguration decodes a SafeSetup log. Owners keep their on-chain order.
func DecodeConfiguration(log types.Log) (*ConfigurationEvent, error) {
	if len(log.Topics) == 0 || log.Topics[0] != SafeSetupTopic {
		return nil, newDecodeError(safeSetupEvent, log, "unexpected topic0", nil)
	}
	if len(log.Topics) != 2 { //nolint:mnd
		return nil, newDecodeError(safeSetupEvent, log,
			fmt.Sprintf("expected 2 topics, got %d", len(log.Topics)), nil)
	}

	initiator, err := wordToAddress(log.Topics[1].Bytes())
	if err != nil {
		return nil, newDecodeError(safeSetupEvent, log, "invalid initiator topic", err)
	}

	values, err := safeSetupData.Unpack(log.Data)
	if err != nil {
		return nil, newDecodeError(safeSetupEvent, log, "invalid data", err)
	}

	owners, ok := values[0].([]common.Address)
	if !ok {
		return nil, newDecodeError(safeSetupEvent, log, fmt.Sprintf("unexpected owners type %T", values[0]), nil)
	}
	threshold, ok := values[1].(*big.Int)
	if !ok {
		return nil, newDecodeError(safeSetupEvent, log, fmt.Sprintf("unexpected threshold type %T", values[1]), nil)
	}
	initializer, ok := values[2].(common.Address)
	if !ok {
		return nil, newDecodeError(safeSetupEvent, log, fmt.Sprintf("unexpected initializer type %T", values[2]), nil)
	}
	fallbackHandler, ok := values[3].(common.Address)
	if !ok {
		return nil, newDecodeError(safeSetupEvent, log,
			fmt.Sprintf("unexpected fallback handler type %T", values[3]), nil)
	}

	return &ConfigurationEvent{
		Proxy:           log.Address,
		Initiator:       initiator,
		Owners:          owners,
		Threshold:       threshold,
		Initializer:     initializer,
		FallbackHandler: fallbackHandler,
		BlockNumber:     log.BlockNumber,
		TxHash:          log.TxHash,
	}, nil
}

// wordToAddress reads an address from a left-padded 32-byte word.
func wordToAddress(word []byte) (common.Address, error) {
	if len(word) != wordSize {
		return common.Address{}, fmt.Errorf("expected %d bytes, got %d", wordSize, len(word))
	}

	padding := word[:wordSize-common.AddressLength]
	if !bytes.Equal(padding, make([]byte, len(padding))) {
		return common.Address{}, fmt.Errorf("non-zero padding in address word")
	}

	return common.BytesToAddress(word[wordSize-common.AddressLength:]), nil
}

func newDecodeError(event string, log types.Log, reason string, err error) *DecodeError {
	return &DecodeError{
		Event:       event,
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash,
		Index:       log.Index,
		Reason:      reason,
		Err:         err,
	}
}

func mustDataArguments(signature string) abi.Arguments {
	sig, err := ParseSignature(signature)
	if err != nil {
		panic(err)
	}

	args, err := sig.DataArguments()
	if err != nil {
		panic(err)
	}
	return args
}
