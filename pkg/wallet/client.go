// Package wallet implements the per-operation command protocol of a
// U2F-tunneled hardware wallet: device info, random bytes, setup, wipe,
// PIN verification, public key retrieval, and chunked signing.
package wallet

import (
	"encoding/hex"
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/go-btchip/btchip/pkg/apdu"
	"github.com/go-btchip/btchip/pkg/options"
	"github.com/go-btchip/btchip/pkg/tunnel"
	"github.com/go-btchip/btchip/pkg/u2f"
)

const (
	pinMinLen = 4
	pinMaxLen = 32
	secretLen = 32

	maxRandomLen = 128
	infoLen      = 10
	publicKeyLen = 65

	// signChunkSize bounds each data frame of a sign operation. The
	// length byte allows up to 255; 128 matches the largest deployed
	// wire contract.
	signChunkSize = 128
)

// Info flag bits in the third byte of the GetWalletInfo payload.
const (
	flagInitialized byte = 1 << 0
	flagPinVerified byte = 1 << 1
)

// Client issues wallet commands through a tunnel adapter. One logical
// operation is in flight at a time; every method blocks until the
// device answers or the transport timeout elapses.
type Client struct {
	tun            *tunnel.Adapter
	logger         *slog.Logger
	timeout        time.Duration
	confirmTimeout time.Duration
}

func New(transport u2f.Transport, opts ...options.Option) *Client {
	oo := options.NewOptions(opts...)

	return &Client{
		tun:            tunnel.New(transport, opts...),
		logger:         oo.Logger,
		timeout:        oo.Timeout,
		confirmTimeout: oo.ConfirmationTimeout,
	}
}

// Supported reports whether the second-factor transport can reach a
// device at all. No wallet command is issued.
func (cl *Client) Supported() bool {
	return cl.tun.Available()
}

// Info describes the device firmware version and wallet state.
type Info struct {
	Major       uint8
	Minor       uint8
	Initialized bool
	PinVerified bool
}

// Version renders the firmware version as "major.minor".
func (i *Info) Version() string {
	return strconv.Itoa(int(i.Major)) + "." + strconv.Itoa(int(i.Minor))
}

// GetInfo queries the device firmware version and wallet state.
func (cl *Client) GetInfo() (*Info, error) {
	resp, err := cl.exchange(opGeneric, apdu.New(apdu.InsGetWalletInfo, 0x00, 0x00, nil), mo.Some(infoLen), cl.timeout)
	if err != nil {
		return nil, err
	}

	payload := resp.Payload()

	return &Info{
		Major:       payload[0],
		Minor:       payload[1],
		Initialized: payload[2]&flagInitialized != 0,
		PinVerified: payload[2]&flagPinVerified != 0,
	}, nil
}

// GetRandom asks the device for n random bytes, 1 to 128.
func (cl *Client) GetRandom(n int) ([]byte, error) {
	if n < 1 || n > maxRandomLen {
		return nil, ErrInvalidArgument
	}

	cmd := apdu.Command{Ins: apdu.InsGetRandom, Le: byte(n)}
	resp, err := cl.exchange(opGeneric, cmd, mo.Some(n), cl.timeout)
	if err != nil {
		return nil, err
	}

	return resp.Payload(), nil
}

// GetRandomID returns the device-salted unique identifier.
func (cl *Client) GetRandomID() ([]byte, error) {
	resp, err := cl.exchange(opGeneric, apdu.New(apdu.InsGetRandomID, 0x00, 0x00, nil), mo.None[int](), cl.timeout)
	if err != nil {
		return nil, err
	}

	return resp.Payload(), nil
}

// Setup initializes a wiped wallet with a PIN and a 32-byte secp256k1
// private key supplied as hex text.
func (cl *Client) Setup(pin string, secretHex string) error {
	if len(pin) < pinMinLen || len(pin) > pinMaxLen {
		return ErrInvalidArgument
	}

	secret, err := hex.DecodeString(secretHex)
	if err != nil || len(secret) != secretLen {
		return ErrInvalidArgument
	}

	payload := slices.Concat([]byte{byte(len(pin))}, []byte(pin), secret)

	_, err = cl.exchange(opSetup, apdu.New(apdu.InsSetup, 0x00, 0x00, payload), mo.Some(0), cl.timeout)
	return err
}

// Wipe erases the wallet key and PIN, returning the device to the
// uninitialized state.
func (cl *Client) Wipe() error {
	_, err := cl.exchange(opGeneric, apdu.New(apdu.InsWipe, 0x00, 0x00, nil), mo.Some(0), cl.timeout)
	return err
}

// VerifyPin presents the PIN to the device. A rejected PIN is reported
// as *PinRetryError carrying the attempts remaining; after the third
// consecutive rejection the device wipes itself and ErrPinBlocked is
// returned instead.
func (cl *Client) VerifyPin(pin string) error {
	if len(pin) < pinMinLen || len(pin) > pinMaxLen {
		return ErrInvalidArgument
	}

	_, err := cl.exchange(opVerifyPin, apdu.New(apdu.InsVerifyPin, apdu.VerifyPinCheck, 0x00, []byte(pin)), mo.Some(0), cl.timeout)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrPinNotVerified) {
		return err
	}

	// The rejection status carries no counter; ask the device how many
	// attempts remain. A follow-up failure folds into the original error,
	// except when it reveals that the wallet is gone entirely.
	tries, ferr := cl.GetPinTriesLeft()
	if ferr != nil {
		if errors.Is(ferr, ErrWalletNotInitialized) {
			return ferr
		}
		return err
	}

	return &PinRetryError{TriesLeft: tries}
}

// GetPinTriesLeft queries the number of PIN attempts remaining without
// spending one.
func (cl *Client) GetPinTriesLeft() (int, error) {
	cmd := apdu.New(apdu.InsVerifyPin, apdu.VerifyPinTriesLeft, 0x00, nil)

	resp, err := cl.tun.Send(cmd, cl.timeout)
	if err != nil {
		return 0, err
	}

	sw := resp.SW()
	if sw == apdu.SWInsNotSupported {
		return 0, ErrWalletNotInitialized
	}

	tries, ok := apdu.TriesLeft(sw)
	if !ok {
		return 0, newStatusError(apdu.InsVerifyPin, sw)
	}

	return tries, nil
}

// GetPublicKey retrieves the wallet's public key as an uncompressed
// 65-byte SEC1 point, validated against the secp256k1 curve. The device
// requires an initialized wallet with a verified PIN.
func (cl *Client) GetPublicKey() (*PublicKey, error) {
	resp, err := cl.exchange(opGeneric, apdu.New(apdu.InsGetPublicKey, 0x00, 0x00, nil), mo.Some(publicKeyLen), cl.timeout)
	if err != nil {
		return nil, err
	}

	return parsePublicKey(resp.Payload())
}

// Sign signs the hex-encoded data with the wallet key. The payload is
// split into 128-byte chunks sent in order, each gated on the previous
// chunk's success, then a finalize frame collects the signature. The
// finalize round trip waits for on-device confirmation and uses the
// confirmation timeout; its expiry is reported as ErrConfirmationExpired.
func (cl *Client) Sign(dataHex string) ([]byte, error) {
	data, err := hex.DecodeString(dataHex)
	if err != nil || len(data) == 0 {
		return nil, ErrInvalidArgument
	}

	for i, chunk := range lo.Chunk(data, signChunkSize) {
		p1 := apdu.SignStart
		if i > 0 {
			p1 = apdu.SignContinue
		}

		if _, err := cl.exchange(opGeneric, apdu.New(apdu.InsSignData, p1, 0x00, chunk), mo.Some(0), cl.timeout); err != nil {
			return nil, err
		}
	}

	resp, err := cl.exchange(opFinalize, apdu.New(apdu.InsSignData, apdu.SignFinish, 0x00, nil), mo.None[int](), cl.confirmTimeout)
	if err != nil {
		return nil, err
	}

	return resp.Payload(), nil
}

// exchange performs one tunneled round trip, validates the response
// shape, and classifies the status word. The expected length applies
// only to successful responses; error statuses carry no payload either
// way.
func (cl *Client) exchange(op opKind, cmd apdu.Command, expected mo.Option[int], timeout time.Duration) (apdu.Response, error) {
	resp, err := cl.tun.Send(cmd, timeout)
	if err != nil {
		return nil, err
	}

	if err := classify(op, cmd.Ins, resp.SW()); err != nil {
		cl.logger.Debug("command failed", "ins", cmd.Ins.String(), "sw", resp.SW())
		return nil, err
	}

	if _, err := apdu.ParseResponse(resp, expected); err != nil {
		return nil, err
	}

	return resp, nil
}
