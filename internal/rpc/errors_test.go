package rpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type mockDataError struct {
	data any
	msg  string
}

func (m *mockDataError) Error() string {
	return m.msg
}

func (m *mockDataError) ErrorData() any {
	return m.data
}

func TestIsTooManyResultsError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		wantMatch bool
		wantData  string
	}{
		{
			name:      "nil error",
			err:       nil,
			wantMatch: false,
			wantData:  "",
		},
		{
			name:      "non-DataError error",
			err:       errors.New("some other error"),
			wantMatch: false,
			wantData:  "",
		},
		{
			name: "DataError with unrelated message",
			err: &mockDataError{
				data: "Some other error message",
				msg:  "Some other error message",
			},
			wantMatch: false,
			wantData:  "Some other error message",
		},
		{
			name: "DataError with too many results message",
			err: &mockDataError{
				data: "Query returned more than 20000 results. Try with this block range [0x7dfd25, 0x7e0fcc].",
				msg:  "Query returned more than 20000 results. Try with this block range [0x7dfd25, 0x7e0fcc].",
			},
			wantMatch: true,
			wantData:  "Query returned more than 20000 results. Try with this block range [0x7dfd25, 0x7e0fcc].",
		},
		{
			name:      "plain error with range too large message",
			err:       errors.New("block range is too large"),
			wantMatch: true,
			wantData:  "",
		},
		{
			name: "DataError with similar but not matching message",
			err: &mockDataError{
				data: "Query returned less than 20000 results.",
				msg:  "Query returned less than 20000 results.",
			},
			wantMatch: false,
			wantData:  "Query returned less than 20000 results.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotMatch, gotData := IsTooManyResultsError(tt.err)

			require.Equal(t, tt.wantData, gotData)
			require.Equal(t, tt.wantMatch, gotMatch)
		})
	}
}

func TestFetchError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")

	windowErr := &FetchError{Method: "eth_getLogs", FromBlock: 100, ToBlock: 199, Err: cause}
	require.Equal(t, "rpc eth_getLogs [100, 199] failed: connection refused", windowErr.Error())
	require.ErrorIs(t, windowErr, cause)

	headErr := &FetchError{Method: "eth_blockNumber", Err: cause}
	require.Equal(t, "rpc eth_blockNumber failed: connection refused", headErr.Error())

	wrapped := fmt.Errorf("scanning window: %w", windowErr)
	require.True(t, IsFetchError(wrapped))
	require.False(t, IsFetchError(cause))
	require.False(t, IsFetchError(nil))
}

func TestErrorType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "canceled", err: context.Canceled, want: "canceled"},
		{name: "deadline", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: "timeout"},
		{name: "too many results", err: errors.New("query returned more than 10000 results"), want: "too_many_results"},
		{name: "transient", err: errors.New("503 service unavailable"), want: "transient"},
		{name: "other", err: errors.New("execution reverted"), want: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, errorType(tt.err))
		})
	}
}
