package rpc

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/ethereum/go-ethereum/rpc"
)

var tooManyResultsPattern = regexp.MustCompile(`(?i)(query returned more than \d+ results|log response size exceeded|block range (is )?too (large|wide))`)

// FetchError is returned when an RPC call fails after all attempts.
// Scanners treat it as a transient failure of a single window or deployment.
type FetchError struct {
	Method    string
	FromBlock uint64
	ToBlock   uint64
	Err       error
}

func (e *FetchError) Error() string {
	if e.FromBlock == 0 && e.ToBlock == 0 {
		return fmt.Sprintf("rpc %s failed: %v", e.Method, e.Err)
	}
	return fmt.Sprintf("rpc %s [%d, %d] failed: %v", e.Method, e.FromBlock, e.ToBlock, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err is, or wraps, a *FetchError.
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

// IsTooManyResultsError checks if the error is a provider "too many results" error.
// Providers report it either as a DataError with the message in ErrorData or in the error message itself.
func IsTooManyResultsError(err error) (bool, string) {
	if err == nil {
		return false, ""
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		errData := fmt.Sprintf("%v", dataErr.ErrorData())
		if tooManyResultsPattern.MatchString(errData) {
			return true, errData
		}
		return tooManyResultsPattern.MatchString(err.Error()), errData
	}

	return tooManyResultsPattern.MatchString(err.Error()), ""
}

// errorType classifies an RPC error for the error metric label.
func errorType(err error) string {
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if tooMany, _ := IsTooManyResultsError(err); tooMany {
		return "too_many_results"
	}
	if retryableError(err) {
		return "transient"
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return "rpc"
	}

	return "other"
}
