package events

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// DecodeError reports a log whose shape does not match the expected event.
type DecodeError struct {
	Event       string
	BlockNumber uint64
	TxHash      common.Hash
	Index       uint
	Reason      string
	Err         error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("decode %s log (block %d, tx %s, index %d): %s",
		e.Event, e.BlockNumber, e.TxHash.Hex(), e.Index, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
