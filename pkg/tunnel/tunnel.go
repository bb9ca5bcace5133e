// Package tunnel carries wallet command frames through a U2F
// second-factor transport. The frame rides in the keyHandle field of a
// sign request behind a fixed magic prefix; the device answers through
// the signatureData field.
package tunnel

import (
	"encoding/hex"
	"log/slog"
	"slices"
	"time"

	"github.com/go-btchip/btchip/pkg/apdu"
	"github.com/go-btchip/btchip/pkg/options"
	"github.com/go-btchip/btchip/pkg/u2f"
)

// Magic is the 8-byte key-handle prefix identifying tunneled wallet
// commands to the device.
var Magic = [8]byte{0xB0, 0x0B, 0x51, 0xDE, 0xB0, 0x0B, 0x51, 0xDE}

// challengeSize is the fixed all-zero challenge length.
const challengeSize = 32

// Adapter maps command frames onto the transport's request/response
// shape. It performs exactly one round trip per Send and never retries.
type Adapter struct {
	transport u2f.Transport
	appID     string
	logger    *slog.Logger
}

func New(transport u2f.Transport, opts ...options.Option) *Adapter {
	oo := options.NewOptions(opts...)

	return &Adapter{
		transport: transport,
		appID:     oo.AppID,
		logger:    oo.Logger,
	}
}

// Available reports whether the underlying transport can reach a device.
func (a *Adapter) Available() bool {
	return a.transport.IsAvailable()
}

// Send wraps cmd into a single sign request, blocks for the transport
// round trip, and returns the raw response frame.
func (a *Adapter) Send(cmd apdu.Command, timeout time.Duration) (apdu.Response, error) {
	frame := cmd.Bytes()
	keyHandle := slices.Concat(Magic[:], frame)

	a.logger.Debug("tunnel request", "ins", cmd.Ins.String(), "hex", hex.EncodeToString(frame))

	req := u2f.SignRequest{
		Version:   u2f.Version,
		Challenge: u2f.EncodeField(make([]byte, challengeSize)),
		KeyHandle: u2f.EncodeField(keyHandle),
		AppID:     a.appID,
	}

	resp, err := a.transport.Request([]u2f.SignRequest{req}, timeout)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if resp == nil || resp.SignatureData == "" {
		return nil, ErrNoSignatureData
	}

	raw, err := u2f.DecodeField(resp.SignatureData)
	if err != nil {
		return nil, ErrNoSignatureData
	}

	a.logger.Debug("tunnel response", "ins", cmd.Ins.String(), "hex", hex.EncodeToString(raw))

	if len(raw) < 2 {
		return nil, apdu.ErrMalformedResponse
	}

	return apdu.Response(raw), nil
}
