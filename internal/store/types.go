package store

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrCheckpointRegression is returned when Advance would move a checkpoint backwards.
	ErrCheckpointRegression = errors.New("checkpoint regression")

	// ErrUnknownNetwork is returned when a network row does not exist.
	ErrUnknownNetwork = errors.New("unknown network")
)

// Network is a row of the network table.
// Checkpoint is the next block to scan.
type Network struct {
	ID          int64  `meddler:"id,pk"`
	Name        string `meddler:"name"`
	DisplayName string `meddler:"display_name"`
	Checkpoint  uint64 `meddler:"checkpoint"`
}

// Owner is a row of the owner table.
type Owner struct {
	ID        int64          `meddler:"id,pk"`
	Address   common.Address `meddler:"address,address"`
	NetworkID int64          `meddler:"network_id"`
}

// NetworkStats is the owner count of one network.
type NetworkStats struct {
	Name        string `meddler:"name" json:"name"`
	DisplayName string `meddler:"display_name" json:"display_name"`
	Checkpoint  uint64 `meddler:"checkpoint" json:"checkpoint"`
	Owners      int64  `meddler:"owners" json:"owners"`
}
