package scanner

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// SkipReason tags why a window, log or deployment produced no owners.
type SkipReason string

const (
	// SkipFetchFailed marks a window or deployment whose logs could not be fetched.
	SkipFetchFailed SkipReason = "fetch_failed"
	// SkipDecodeFailed marks a log that did not match the expected event layout.
	SkipDecodeFailed SkipReason = "decode_failed"
	// SkipNotConfigured marks a deployment without a SafeSetup log in its block.
	SkipNotConfigured SkipReason = "not_configured"
)

// Skip is one skipped unit of work inside a window.
type Skip struct {
	Reason  SkipReason
	Block   uint64
	Address common.Address
	Err     error
}

func (s Skip) String() string {
	if s.Err == nil {
		return fmt.Sprintf("%s at block %d (%s)", s.Reason, s.Block, s.Address.Hex())
	}
	return fmt.Sprintf("%s at block %d (%s): %v", s.Reason, s.Block, s.Address.Hex(), s.Err)
}

// WindowReport is the outcome of scanning one block window.
type WindowReport struct {
	From uint64
	To   uint64

	Deployments int
	Configured  int
	Owners      int
	Inserted    int

	Skips []Skip
}

func (r *WindowReport) skip(reason SkipReason, block uint64, address common.Address, err error) {
	r.Skips = append(r.Skips, Skip{Reason: reason, Block: block, Address: address, Err: err})
}

// SkipsByReason returns the skips with the given reason.
func (r *WindowReport) SkipsByReason(reason SkipReason) []Skip {
	var skips []Skip
	for _, s := range r.Skips {
		if s.Reason == reason {
			skips = append(skips, s)
		}
	}
	return skips
}

// Summary aggregates the window reports of one Run.
type Summary struct {
	Network    string
	Origin     uint64
	Target     uint64
	Checkpoint uint64

	Windows     int
	Deployments int
	Inserted    int
	Skips       map[SkipReason]int
}

func (s *Summary) add(r *WindowReport) {
	s.Windows++
	s.Deployments += r.Deployments
	s.Inserted += r.Inserted

	for _, skip := range r.Skips {
		s.Skips[skip.Reason]++
	}
}

// SkipCount returns the total number of skips.
func (s *Summary) SkipCount() int {
	total := 0
	for _, n := range s.Skips {
		total += n
	}
	return total
}
