// Package u2fhid provides a u2f.Transport over USB HID devices speaking
// the U2F HID framing: 64-byte reports, an INIT channel handshake, and
// raw U2F messages carrying the tunneled key handle.
package u2fhid

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/sstallion/go-hid"

	"github.com/go-btchip/btchip/pkg/options"
	"github.com/go-btchip/btchip/pkg/u2f"
)

// Device is one open U2F HID device with an allocated channel. It
// implements u2f.Transport.
type Device struct {
	Path   string
	dev    *hid.Device
	cid    ChannelID
	logger *slog.Logger
}

// Enumerate returns the HID paths of all connected U2F devices.
func Enumerate() ([]string, error) {
	paths := make([]string, 0)

	err := hid.Enumerate(hid.VendorIDAny, hid.ProductIDAny, func(info *hid.DeviceInfo) error {
		if info.UsagePage == fidoUsagePage && info.Usage == fidoUsage {
			paths = append(paths, info.Path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}

// Open opens the device at path and performs the INIT handshake to
// allocate a channel.
func Open(path string, opts ...options.Option) (*Device, error) {
	oo := options.NewOptions(opts...)

	dev, err := hid.OpenPath(path)
	if err != nil {
		return nil, err
	}

	d := &Device{
		Path:   path,
		dev:    dev,
		logger: oo.Logger,
	}

	if err := d.init(oo.Timeout); err != nil {
		_ = dev.Close()
		return nil, err
	}

	return d, nil
}

// Close releases the underlying HID handle.
func (d *Device) Close() error {
	return d.dev.Close()
}

// IsAvailable reports whether any U2F device is currently present.
func (d *Device) IsAvailable() bool {
	paths, err := Enumerate()
	return err == nil && len(paths) > 0
}

// Request sends the first sign request as a raw U2F AUTHENTICATE
// message and blocks until the device answers, polling through
// user-presence stalls, or the timeout elapses. The tunneled response
// frame comes back in the SignatureData field.
func (d *Device) Request(reqs []u2f.SignRequest, timeout time.Duration) (*u2f.SignResponse, error) {
	if len(reqs) == 0 {
		return nil, ErrNoRequest
	}
	req := reqs[0]

	challenge, err := u2f.DecodeField(req.Challenge)
	if err != nil {
		return nil, err
	}
	keyHandle, err := u2f.DecodeField(req.KeyHandle)
	if err != nil {
		return nil, err
	}

	msg := authenticateMessage(challenge, req.AppID, keyHandle)
	d.logger.Debug("u2f authenticate", "hex", hex.EncodeToString(msg))

	deadline := time.Now().Add(timeout)
	for {
		resp, err := d.msg(msg, deadline)
		if err != nil {
			return nil, err
		}
		if len(resp) < 2 {
			return nil, ErrInvalidResponseMessage
		}

		sw := binary.BigEndian.Uint16(resp[len(resp)-2:])
		switch sw {
		case u2fSWNoError:
			return &u2f.SignResponse{
				KeyHandle:     req.KeyHandle,
				SignatureData: u2f.EncodeField(resp[:len(resp)-2]),
			}, nil
		case u2fSWConditionsNotMet:
			// User presence not satisfied yet; poll again.
			if time.Until(deadline) <= 0 {
				return nil, ErrTimeout
			}
			time.Sleep(presencePollingInterval * time.Millisecond)
		default:
			return nil, &StatusError{SW: sw}
		}
	}
}

// Ping round-trips arbitrary bytes through the device.
func (d *Device) Ping(data []byte) error {
	resp, err := d.roundTrip(U2FHID_PING, data, time.Now().Add(options.DefaultTimeout))
	if err != nil {
		return err
	}
	if !slices.Equal(data, resp) {
		return ErrInvalidResponseMessage
	}
	return nil
}

// Wink asks the device to blink, identifying itself to the user.
func (d *Device) Wink() error {
	_, err := d.roundTrip(U2FHID_WINK, nil, time.Now().Add(options.DefaultTimeout))
	return err
}

// init allocates a channel via the INIT handshake on the broadcast CID.
func (d *Device) init(timeout time.Duration) error {
	nonce := make([]byte, 8)
	if _, err := rand.Read(nonce); err != nil {
		return err
	}

	msg, err := NewMessage(BroadcastCID, U2FHID_INIT, nonce)
	if err != nil {
		return err
	}
	if _, err := msg.WriteTo(d.dev); err != nil {
		return err
	}

	deadline := time.Now().Add(timeout)
	for {
		resp := make(Message, 0)
		if _, err := resp.ReadFrom(d.reader(deadline)); err != nil {
			return err
		}

		switch resp.Command() {
		case U2FHID_INIT:
			r, err := parseInitResponse(resp.Data())
			if err != nil {
				return err
			}
			if subtle.ConstantTimeCompare(r.Nonce, nonce) != 1 {
				// Another client raced us on the broadcast channel.
				continue
			}
			d.cid = r.CID
			return nil
		case U2FHID_ERROR:
			return &DeviceError{Code: Error(resp.Data()[0])}
		default:
			return ErrUnexpectedCommand
		}
	}
}

func parseInitResponse(data []byte) (*InitResponse, error) {
	if len(data) < 17 {
		return nil, ErrInvalidResponseMessage
	}

	return &InitResponse{
		Nonce:              data[:8],
		CID:                ChannelID(data[8:12]),
		ProtocolVersion:    data[12],
		MajorDeviceVersion: data[13],
		MinorDeviceVersion: data[14],
		BuildDeviceVersion: data[15],
		CapabilityFlags:    data[16],
	}, nil
}

// msg exchanges one raw U2F message on the allocated channel.
func (d *Device) msg(data []byte, deadline time.Time) ([]byte, error) {
	return d.roundTrip(U2FHID_MSG, data, deadline)
}

func (d *Device) roundTrip(cmd Command, data []byte, deadline time.Time) ([]byte, error) {
	msg, err := NewMessage(d.cid, cmd, data)
	if err != nil {
		return nil, err
	}
	if _, err := msg.WriteTo(d.dev); err != nil {
		return nil, err
	}

	resp := make(Message, 0)
	if _, err := resp.ReadFrom(d.reader(deadline)); err != nil {
		return nil, err
	}

	switch resp.Command() {
	case cmd:
		return resp.Data(), nil
	case U2FHID_ERROR:
		return nil, &DeviceError{Code: Error(resp.Data()[0])}
	default:
		return nil, ErrUnexpectedCommand
	}
}

func (d *Device) reader(deadline time.Time) io.Reader {
	return &deadlineReader{dev: d.dev, deadline: deadline}
}

// deadlineReader bounds blocking HID reads by an absolute deadline.
type deadlineReader struct {
	dev      *hid.Device
	deadline time.Time
}

func (r *deadlineReader) Read(p []byte) (int, error) {
	remaining := time.Until(r.deadline)
	if remaining <= 0 {
		return 0, ErrTimeout
	}

	n, err := r.dev.ReadWithTimeout(p, remaining)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, ErrTimeout
	}
	return n, nil
}

// authenticateMessage builds the extended-length U2F AUTHENTICATE
// request wrapping the tunneled key handle.
func authenticateMessage(challenge []byte, appID string, keyHandle []byte) []byte {
	challengeParam := sha256.Sum256(challenge)
	appParam := sha256.Sum256([]byte(appID))

	body := make([]byte, 0, 65+len(keyHandle))
	body = append(body, challengeParam[:]...)
	body = append(body, appParam[:]...)
	body = append(body, byte(len(keyHandle)))
	body = append(body, keyHandle...)

	msg := make([]byte, 0, 7+len(body))
	msg = append(msg, 0x00, u2fInsAuthenticate, u2fAuthEnforcePresence, 0x00)
	msg = append(msg, 0x00) // extended length marker
	msg = binary.BigEndian.AppendUint16(msg, uint16(len(body)))
	msg = append(msg, body...)

	return msg
}
