package wallet

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/go-btchip/btchip/pkg/apdu"
)

// PublicKey is the wallet's secp256k1 public key as returned by the
// device, together with its parsed form.
type PublicKey struct {
	// Raw is the uncompressed 65-byte SEC1 encoding from the wire.
	Raw []byte
	Key *secp256k1.PublicKey
}

// Compressed returns the 33-byte compressed SEC1 encoding.
func (pk *PublicKey) Compressed() []byte {
	return pk.Key.SerializeCompressed()
}

func parsePublicKey(payload []byte) (*PublicKey, error) {
	key, err := secp256k1.ParsePubKey(payload)
	if err != nil {
		// The point is off-curve or mis-encoded; treat it like any other
		// response that does not match the operation's shape.
		return nil, apdu.ErrMalformedResponse
	}

	return &PublicKey{Raw: payload, Key: key}, nil
}
