package events

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// ProxyCreationSignature is emitted by the Safe proxy factory for every new proxy.
	// Factory v1.3.0 does not index the proxy; v1.4.x does. The topic is the same.
	ProxyCreationSignature = "ProxyCreation(address indexed proxy, address singleton)"

	// SafeSetupSignature is emitted by a Safe proxy when it is initialized.
	SafeSetupSignature = "SafeSetup(address indexed initiator, address[] owners, uint256 threshold, " +
		"address initializer, address fallbackHandler)"
)

var (
	// ProxyCreationTopic is topic0 of ProxyCreation logs.
	ProxyCreationTopic = MustTopic(ProxyCreationSignature)

	// SafeSetupTopic is topic0 of SafeSetup logs.
	SafeSetupTopic = MustTopic(SafeSetupSignature)
)

// Topic returns the keccak256 hash of the canonical form of an event signature.
func Topic(signature string) (common.Hash, error) {
	sig, err := ParseSignature(signature)
	if err != nil {
		return common.Hash{}, err
	}

	return crypto.Keccak256Hash([]byte(sig.Canonical())), nil
}

// MustTopic is like Topic but panics on a malformed signature.
func MustTopic(signature string) common.Hash {
	topic, err := Topic(signature)
	if err != nil {
		panic(err)
	}
	return topic
}
