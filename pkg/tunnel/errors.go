package tunnel

import "errors"

var (
	// ErrTransport marks failures of the transport itself, including
	// unavailability and timeouts.
	ErrTransport = errors.New("tunnel: transport failure")

	// ErrNoSignatureData reports a transport response with a missing or
	// undecodable signatureData field.
	ErrNoSignatureData = errors.New("tunnel: no signature data in transport response")
)

// TransportError wraps the transport's own failure so callers can
// inspect the cause while matching ErrTransport.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return ErrTransport.Error() + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}
