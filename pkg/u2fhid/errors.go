package u2fhid

import "errors"

var (
	ErrMessageTooLarge        = errors.New("u2fhid: message payload too large")
	ErrUnexpectedCommand      = errors.New("u2fhid: unexpected command")
	ErrInvalidResponseMessage = errors.New("u2fhid: invalid response message")
	ErrInvalidNonce           = errors.New("u2fhid: init nonce mismatch")
	ErrTimeout                = errors.New("u2fhid: request timed out")
	ErrNoDevice               = errors.New("u2fhid: no U2F device present")
	ErrNoRequest              = errors.New("u2fhid: empty sign request list")
)

// DeviceError wraps a U2FHID_ERROR code reported by the device.
type DeviceError struct {
	Code Error
}

func (e *DeviceError) Error() string {
	return "u2fhid: device error: " + e.Code.String()
}

// StatusError reports a non-success status word at the U2F message
// level, before any tunneled frame is recovered.
type StatusError struct {
	SW uint16
}

func (e *StatusError) Error() string {
	return "u2fhid: authenticate rejected by device"
}
