package events

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestTopic(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		want      common.Hash
		wantErr   bool
	}{
		{
			name:      "proxy creation named and indexed",
			signature: "ProxyCreation(address indexed proxy, address singleton)",
			want:      common.HexToHash("0x4f51faf6c4561ff95f067657e43439f0f856d97c04d9ec9070a6199ad418e235"),
		},
		{
			name:      "proxy creation canonical",
			signature: "ProxyCreation(address,address)",
			want:      common.HexToHash("0x4f51faf6c4561ff95f067657e43439f0f856d97c04d9ec9070a6199ad418e235"),
		},
		{
			name:      "erc20 transfer",
			signature: "Transfer(address indexed from, address indexed to, uint256 value)",
			want:      common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"),
		},
		{
			name:      "uint alias is normalized",
			signature: "Transfer(address,address,uint)",
			want:      common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"),
		},
		{
			name:      "safe setup canonical",
			signature: "SafeSetup(address,address[],uint256,address,address)",
			want:      crypto.Keccak256Hash([]byte("SafeSetup(address,address[],uint256,address,address)")),
		},
		{name: "empty", signature: "", wantErr: true},
		{name: "missing parenthesis", signature: "Transfer", wantErr: true},
		{name: "lowercase name", signature: "transfer(address)", wantErr: true},
		{name: "unknown type", signature: "Transfer(address,notatype)", wantErr: true},
		{name: "misplaced indexed", signature: "Transfer(address from indexed)", wantErr: true},
		{name: "trailing garbage", signature: "Transfer(address) x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Topic(tt.signature)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFixedTopics(t *testing.T) {
	require.Equal(t, MustTopic("ProxyCreation(address,address)"), ProxyCreationTopic)
	require.Equal(t, MustTopic("SafeSetup(address,address[],uint256,address,address)"), SafeSetupTopic)
}

func TestMustTopic_Panics(t *testing.T) {
	require.Panics(t, func() { MustTopic("not a signature") })
}

func TestParseSignature(t *testing.T) {
	sig, err := ParseSignature(SafeSetupSignature)
	require.NoError(t, err)

	require.Equal(t, "SafeSetup", sig.Name)
	require.Equal(t, "SafeSetup(address,address[],uint256,address,address)", sig.Canonical())
	require.Equal(t, 1, sig.IndexedCount())
	require.Equal(t, Param{Name: "initiator", Type: "address", Indexed: true}, sig.Params[0])
	require.Equal(t, Param{Name: "owners", Type: "address[]"}, sig.Params[1])

	args, err := sig.DataArguments()
	require.NoError(t, err)
	require.Len(t, args, 4)
	require.Equal(t, "owners", args[0].Name)
	require.Equal(t, "fallbackHandler", args[3].Name)

	unnamed, err := ParseSignature("Ping(uint[] indexed)")
	require.NoError(t, err)
	require.Equal(t, "Ping(uint256[])", unnamed.Canonical())
	require.Equal(t, "param0", unnamed.Params[0].Name)
	require.True(t, unnamed.Params[0].Indexed)

	empty, err := ParseSignature("Paused()")
	require.NoError(t, err)
	require.Equal(t, "Paused()", empty.Canonical())
}
